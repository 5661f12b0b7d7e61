package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
	"github.com/kdlcruz/tito/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for attendance tracking.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tito-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.bootstrap(); err != nil {
		return err
	}

	sess := r.manager.Current()
	if !sess.Authenticated() {
		return fmt.Errorf("%w: run 'tito auth login' first", shared.ErrNotAuthenticated)
	}
	if sess.UserType != models.UserTypeIntern {
		return fmt.Errorf("%w: the dashboard is intern-only", shared.ErrUnauthorizedNavigation)
	}

	// Follow credential changes made by other processes while the TUI runs.
	r.watcher.Start(r.manager.Reconcile)
	defer r.watcher.Stop()

	model := ui.NewModel(ctx, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
