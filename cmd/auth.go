package main

import (
	"context"
	"fmt"

	"github.com/kdlcruz/tito/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin authenticates against the tracker and persists the session. The
// returned route is where a freshly logged-in user lands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	password := cmd.StringArg("password")

	if email == "" || password == "" {
		return fmt.Errorf("%w: usage: tito auth login <email> <password>", shared.ErrMissingArgument)
	}

	if err := r.bootstrap(); err != nil {
		return err
	}

	var destination string
	var err error
	if cmd.Bool("admin") {
		destination, err = r.manager.LoginAdmin(ctx, email, password)
	} else {
		destination, err = r.manager.LoginIntern(ctx, email, password)
	}
	if err != nil {
		return err
	}

	r.rebindStore()

	if !cmd.Bool("admin") {
		if err := r.engine.SyncState(ctx); err != nil {
			r.logger.Warn("logged in but failed to sync attendance state", "error", err)
		}
	}

	r.writePlain("✓ Logged in as %s\n", email)
	return r.writePlain("Home: %s\n", destination)
}

// AuthLogout clears the session and stored credentials.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	destination := r.manager.Logout()
	r.writePlain("✓ Logged out\n")
	return r.writePlain("Home: %s\n", destination)
}

// AuthStatus shows who is currently logged in.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	sess := r.manager.Current()
	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Authenticated bool   `json:"authenticated"`
			Email         string `json:"email,omitempty"`
			UserType      string `json:"user_type,omitempty"`
		}{sess.Authenticated(), sess.UserEmail, string(sess.UserType)}, true)
	}

	if !sess.Authenticated() {
		return r.writePlain("✗ Not logged in\n")
	}

	r.writePlain("✓ Logged in\n")
	r.writePlain("Email: %s\n", sess.UserEmail)
	return r.writePlain("Role: %s\n", sess.UserType)
}
