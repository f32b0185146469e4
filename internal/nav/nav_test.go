package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskdash/internal/nav"
)

func TestNext_ForcingRules(t *testing.T) {
	pages := []nav.Page{nav.Login, nav.Register, nav.Dashboard}

	for _, authenticated := range []bool{true, false} {
		for _, requested := range pages {
			got := nav.Next(authenticated, requested)

			if authenticated {
				assert.NotEqual(t, nav.Login, got, "authenticated must never land on login (requested %s)", requested)
				assert.NotEqual(t, nav.Register, got, "authenticated must never land on register (requested %s)", requested)
			} else {
				assert.NotEqual(t, nav.Dashboard, got, "unauthenticated must never land on dashboard (requested %s)", requested)
			}
		}
	}
}

func TestNext_Transitions(t *testing.T) {
	assert.Equal(t, nav.Dashboard, nav.Next(true, nav.Login))
	assert.Equal(t, nav.Dashboard, nav.Next(true, nav.Register))
	assert.Equal(t, nav.Dashboard, nav.Next(true, nav.Dashboard))
	assert.Equal(t, nav.Login, nav.Next(false, nav.Dashboard))
	assert.Equal(t, nav.Login, nav.Next(false, nav.Login))
	assert.Equal(t, nav.Register, nav.Next(false, nav.Register))
}

func TestNext_UnknownPageFallsBackToLogin(t *testing.T) {
	assert.Equal(t, nav.Login, nav.Next(false, nav.Page("bogus")))
}
