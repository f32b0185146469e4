package main

import (
	"flag"
	"fmt"
	"os"

	"taskdash/internal/api"
	"taskdash/internal/cli"
	"taskdash/internal/config"
	"taskdash/internal/session"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group task output by pending/done")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	sess := session.New(cfg.CredsDir)
	// Any 401 drops the stored credentials; the next render of the
	// dashboard lands on the login page.
	client := api.New(cfg.BaseURL, sess, func() {
		_ = sess.Logout()
	})

	code := cli.Run(flag.Args(), cli.Env{Session: sess, API: client}, cli.Options{
		Group: *groupPending,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
