package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/session"
	"taskdash/internal/tui"
	"taskdash/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // tasks ls grouped by pending/done
}

// Env carries the wired session and API client into the runner.
type Env struct {
	Session *session.Session
	API     *api.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env, opt Options) int {
	if len(args) == 0 {
		return doDashboard(env)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "dashboard", "ls":
		return doDashboard(env)

	case "login":
		return doLogin(env)

	case "register":
		return doRegister(env)

	case "logout":
		return doLogout(env)

	case "status":
		return doStatus(env)

	case "whoami":
		return doWhoAmI(env)

	case "tasks":
		return runTasks(a, env, opt)

	case "notes":
		return runNotes(a, env)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskdash - tasks and notes over a REST backend

Usage:
  taskdash <subcommand> [args]

Subcommands:
  dashboard               Interactive dashboard (default)
  login                   Sign in and store the token
  register                Create an account
  logout                  Delete the stored token
  status                  Show token source and expiry
  whoami                  Fetch the signed-in profile from the server
  tasks ls                List tasks
  tasks add [flags] <title...>    Create a task (-desc, -due, -priority)
  tasks edit <id> [flags]         Update given fields (-title, -desc, -due, -priority)
  tasks done <id>         Toggle completion
  tasks rm <id>           Delete a task
  tasks show <id>         Show one task
  notes ls                List notes
  notes add [flags] <content...>  Create a note (-title)
  notes edit <id> [flags]         Update given fields (-title, -content)
  notes rm <id>           Delete a note
  notes show <id>         Show one note

Examples:
  taskdash tasks add -due 2026-09-15 -priority high "Buy milk"
  taskdash tasks edit 2 -desc "semi-skimmed"
  taskdash tasks done 2
  taskdash notes add -title Landlord "Call about the heating"
`)
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doLogin(env Env) int {
	r := bufio.NewReader(os.Stdin)
	username := prompt(r, "Username: ")
	password := prompt(r, "Password: ")
	if username == "" || password == "" {
		ui.Fail("username and password are required")
		return 2
	}
	tok, err := env.API.Login(context.Background(), username, password)
	if err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	if err := env.Session.Login(tok.AccessToken, tok.TokenType); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in")
	return 0
}

func doRegister(env Env) int {
	r := bufio.NewReader(os.Stdin)
	username := prompt(r, "Username: ")
	email := prompt(r, "Email: ")
	fullName := prompt(r, "Full name: ")
	password := prompt(r, "Password: ")
	confirm := prompt(r, "Confirm password: ")

	if username == "" || email == "" || fullName == "" || password == "" {
		ui.Fail("all fields are required")
		return 2
	}
	if password != confirm {
		ui.Fail("رمز عبور و تأیید رمز عبور مطابقت ندارند")
		return 2
	}
	// confirm never leaves this function
	u, err := env.API.Register(context.Background(), api.RegisterRequest{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: password,
	})
	if err != nil {
		ui.Fail("register: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("account %q created, run `taskdash login`", u.Username))
	return 0
}

func doLogout(env Env) int {
	creds, _ := env.Session.Credentials()
	if creds != nil && creds.Source == "env" {
		ui.OK("token is provided by " + session.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := env.Session.Logout(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doStatus(env Env) int {
	creds, _ := env.Session.Credentials()
	if creds == nil {
		fmt.Println(ui.MutedStyle.Render("not logged in"))
		fmt.Println("Run: taskdash login")
		return 0
	}
	fmt.Printf("source: %s\n", creds.Source)
	fmt.Printf("token type: %s\n", creds.TokenType)
	if exp := env.Session.ExpiresAt(); exp != nil {
		fmt.Printf("expires: %s\n", exp.UTC().Format(time.RFC3339))
	} else {
		fmt.Println("expires: (unknown)")
	}
	fmt.Println("env override: " + session.EnvToken)
	return 0
}

// whoami asks the server, unlike the dashboard which trusts token
// presence alone.
func doWhoAmI(env Env) int {
	if !env.Session.IsAuthenticated() {
		ui.Fail("not logged in. Run: taskdash login")
		return 2
	}
	u, err := env.API.Me(context.Background())
	if err != nil {
		ui.Fail("whoami: " + err.Error())
		return 1
	}
	active := "active"
	if !u.IsActive {
		active = "inactive"
	}
	ui.Panel([]string{
		ui.TitleStyle.Render(u.FullName),
		fmt.Sprintf("username: %s", u.Username),
		fmt.Sprintf("email: %s", u.Email),
		ui.MutedStyle.Render(active),
	})
	return 0
}

func doDashboard(env Env) int {
	if err := tui.Run(env.Session, env.API); err != nil {
		ui.Fail("dashboard: " + err.Error())
		return 1
	}
	return 0
}

// ---------------------------------------------------
// Task subcommands
// ---------------------------------------------------

func runTasks(a []string, env Env, opt Options) int {
	if len(a) == 0 {
		a = []string{"ls"}
	}
	switch a[0] {
	case "ls":
		return doTaskList(env, opt)
	case "add":
		return doTaskAdd(env, a[1:])
	case "edit":
		return doTaskEdit(env, a[1:])
	case "done":
		id, code := parseID(a[1:], "tasks done")
		if code != 0 {
			return code
		}
		return doTaskToggle(env, id)
	case "rm":
		id, code := parseID(a[1:], "tasks rm")
		if code != 0 {
			return code
		}
		return doTaskRemove(env, id)
	case "show":
		id, code := parseID(a[1:], "tasks show")
		if code != 0 {
			return code
		}
		return doTaskShow(env, id)
	}
	ui.Fail("usage: taskdash tasks <ls|add|edit|done|rm|show>")
	return 2
}

func doTaskList(env Env, opt Options) int {
	tasks, err := env.API.ListTasks(context.Background(), 0, api.DefaultPageSize, nil)
	if err != nil {
		ui.Fail("tasks: " + err.Error())
		return 1
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}

	lines := []string{
		ui.TitleStyle.Render("Tasks") + "  " + ui.MutedStyle.Render(ui.ProgressBar(done, len(tasks), 24)),
		"",
	}
	if opt.Group {
		lines = append(lines, ui.PendingStyle.Render("Pending"))
		for _, t := range tasks {
			if !t.Completed {
				lines = append(lines, taskLine(t))
			}
		}
		lines = append(lines, "", ui.SuccessStyle.Render("Done"))
		for _, t := range tasks {
			if t.Completed {
				lines = append(lines, taskLine(t))
			}
		}
	} else {
		for _, t := range tasks {
			lines = append(lines, taskLine(t))
		}
	}
	if len(tasks) == 0 {
		lines = append(lines, ui.MutedStyle.Render("no tasks yet"))
	}
	ui.Panel(lines)
	return 0
}

func taskLine(t model.Task) string {
	box := ui.BoxUnchecked
	title := t.Title
	if t.Completed {
		box = ui.SuccessStyle.Render(ui.BoxChecked)
		title = ui.DoneStyle.Render(title)
	}
	line := fmt.Sprintf("%3d %s %s %s", t.ID, box, title,
		ui.PriorityStyle(t.Priority).Render("["+string(t.Priority)+"]"))
	if t.DueDate != nil {
		line += " " + ui.MutedStyle.Render("due "+t.DueDate.Local().Format("2006-01-02"))
	}
	return line
}

func doTaskAdd(env Env, args []string) int {
	fs := flag.NewFlagSet("tasks add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	desc := fs.String("desc", "", "description")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	prio := fs.String("priority", string(model.PriorityMedium), "low, medium or high")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		ui.Fail("usage: taskdash tasks add [-desc ...] [-due YYYY-MM-DD] [-priority ...] <title...>")
		return 2
	}
	p := model.Priority(*prio)
	if !p.Valid() {
		ui.Fail("add: unknown priority: " + *prio)
		return 2
	}
	in := model.TaskCreate{Title: title, Description: *desc, Priority: p}
	if *due != "" {
		d, err := time.ParseInLocation("2006-01-02", *due, time.Local)
		if err != nil {
			ui.Fail("add: due date must be YYYY-MM-DD")
			return 2
		}
		in.DueDate = &d
	}
	t, err := env.API.CreateTask(context.Background(), in)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("added #%d", t.ID))
	return 0
}

// doTaskEdit patches exactly the fields whose flags were given.
func doTaskEdit(env Env, args []string) int {
	if len(args) == 0 {
		ui.Fail("usage: taskdash tasks edit <id> [-title ...] [-desc ...] [-due YYYY-MM-DD] [-priority ...]")
		return 2
	}
	id, code := parseID(args[:1], "tasks edit")
	if code != 0 {
		return code
	}

	fs := flag.NewFlagSet("tasks edit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	due := fs.String("due", "", "new due date (YYYY-MM-DD)")
	prio := fs.String("priority", "", "low, medium or high")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	if len(seen) == 0 {
		ui.Fail("edit: nothing to change")
		return 2
	}

	var upd model.TaskUpdate
	if seen["title"] {
		if strings.TrimSpace(*title) == "" {
			ui.Fail("edit: title cannot be empty")
			return 2
		}
		upd.Title = model.Ptr(*title)
	}
	if seen["desc"] {
		upd.Description = model.Ptr(*desc)
	}
	if seen["priority"] {
		p := model.Priority(*prio)
		if !p.Valid() {
			ui.Fail("edit: unknown priority: " + *prio)
			return 2
		}
		upd.Priority = model.Ptr(p)
	}
	if seen["due"] {
		d, err := time.ParseInLocation("2006-01-02", *due, time.Local)
		if err != nil {
			ui.Fail("edit: due date must be YYYY-MM-DD")
			return 2
		}
		upd.DueDate = &d
	}

	if _, err := env.API.UpdateTask(context.Background(), id, upd); err != nil {
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func doTaskToggle(env Env, id int) int {
	ctx := context.Background()
	t, err := env.API.GetTask(ctx, id)
	if err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	upd, err := env.API.UpdateTask(ctx, id, model.TaskUpdate{Completed: model.Ptr(!t.Completed)})
	if err != nil {
		ui.Fail("done: " + err.Error())
		return 1
	}
	if upd.Completed {
		ui.OK("completed")
	} else {
		ui.OK("reopened")
	}
	return 0
}

func doTaskRemove(env Env, id int) int {
	if err := env.API.DeleteTask(context.Background(), id); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doTaskShow(env Env, id int) int {
	t, err := env.API.GetTask(context.Background(), id)
	if err != nil {
		ui.Fail("show: " + err.Error())
		return 1
	}
	lines := []string{
		ui.TitleStyle.Render(t.Title) + " " + ui.PriorityStyle(t.Priority).Render("["+string(t.Priority)+"]"),
	}
	if t.Description != "" {
		lines = append(lines, t.Description)
	}
	state := "pending"
	if t.Completed {
		state = "done"
	}
	lines = append(lines, ui.MutedStyle.Render(state))
	if t.DueDate != nil {
		lines = append(lines, ui.MutedStyle.Render("due "+t.DueDate.Local().Format("2006-01-02")))
	}
	lines = append(lines, ui.MutedStyle.Render("updated "+t.UpdatedAt.Local().Format("2006-01-02 15:04")))
	ui.Panel(lines)
	return 0
}

// ---------------------------------------------------
// Note subcommands
// ---------------------------------------------------

func runNotes(a []string, env Env) int {
	if len(a) == 0 {
		a = []string{"ls"}
	}
	switch a[0] {
	case "ls":
		return doNoteList(env)
	case "add":
		return doNoteAdd(env, a[1:])
	case "edit":
		return doNoteEdit(env, a[1:])
	case "rm":
		id, code := parseID(a[1:], "notes rm")
		if code != 0 {
			return code
		}
		return doNoteRemove(env, id)
	case "show":
		id, code := parseID(a[1:], "notes show")
		if code != 0 {
			return code
		}
		return doNoteShow(env, id)
	}
	ui.Fail("usage: taskdash notes <ls|add|edit|rm|show>")
	return 2
}

func doNoteList(env Env) int {
	notes, err := env.API.ListNotes(context.Background(), 0, api.DefaultPageSize)
	if err != nil {
		ui.Fail("notes: " + err.Error())
		return 1
	}
	lines := []string{ui.TitleStyle.Render("Notes"), ""}
	for _, n := range notes {
		line := fmt.Sprintf("%3d ", n.ID)
		if n.Title != "" {
			line += ui.TitleStyle.Render(n.Title) + " "
		}
		content := n.Content
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[:i] + "…"
		}
		line += content
		lines = append(lines, line)
	}
	if len(notes) == 0 {
		lines = append(lines, ui.MutedStyle.Render("no notes yet"))
	}
	ui.Panel(lines)
	return 0
}

func doNoteAdd(env Env, args []string) int {
	fs := flag.NewFlagSet("notes add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "optional title")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	content := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if content == "" {
		ui.Fail("usage: taskdash notes add [-title ...] <content...>")
		return 2
	}
	n, err := env.API.CreateNote(context.Background(), model.NoteCreate{Title: *title, Content: content})
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("added #%d", n.ID))
	return 0
}

// doNoteEdit patches exactly the fields whose flags were given.
func doNoteEdit(env Env, args []string) int {
	if len(args) == 0 {
		ui.Fail("usage: taskdash notes edit <id> [-title ...] [-content ...]")
		return 2
	}
	id, code := parseID(args[:1], "notes edit")
	if code != 0 {
		return code
	}

	fs := flag.NewFlagSet("notes edit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new content")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	if len(seen) == 0 {
		ui.Fail("edit: nothing to change")
		return 2
	}

	var upd model.NoteUpdate
	if seen["title"] {
		upd.Title = model.Ptr(*title)
	}
	if seen["content"] {
		if strings.TrimSpace(*content) == "" {
			ui.Fail("edit: content cannot be empty")
			return 2
		}
		upd.Content = model.Ptr(*content)
	}

	if _, err := env.API.UpdateNote(context.Background(), id, upd); err != nil {
		ui.Fail("edit: " + err.Error())
		return 1
	}
	ui.OK("updated")
	return 0
}

func doNoteRemove(env Env, id int) int {
	if err := env.API.DeleteNote(context.Background(), id); err != nil {
		ui.Fail("rm: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doNoteShow(env Env, id int) int {
	n, err := env.API.GetNote(context.Background(), id)
	if err != nil {
		ui.Fail("show: " + err.Error())
		return 1
	}
	lines := []string{}
	if n.Title != "" {
		lines = append(lines, ui.TitleStyle.Render(n.Title))
	}
	lines = append(lines, n.Content,
		ui.MutedStyle.Render("updated "+n.UpdatedAt.Local().Format("2006-01-02 15:04")))
	ui.Panel(lines)
	return 0
}

// ---------------------------------------------------
// helpers
// ---------------------------------------------------

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func parseID(a []string, usage string) (int, int) {
	if len(a) != 1 {
		ui.Fail("usage: taskdash " + usage + " <id>")
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(usage + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}
