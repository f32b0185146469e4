package nav

// Page is a top-level view.
type Page string

const (
	Login     Page = "login"
	Register  Page = "register"
	Dashboard Page = "dashboard"
)

// Next applies the gate rules to a requested page and returns the page
// that may actually render. Pure function, call it before rendering:
// the dashboard never shows unauthenticated, and the auth forms never
// show once authenticated.
func Next(authenticated bool, requested Page) Page {
	if authenticated {
		if requested == Login || requested == Register {
			return Dashboard
		}
		return requested
	}
	if requested == Dashboard {
		return Login
	}
	if requested != Register {
		return Login
	}
	return requested
}
