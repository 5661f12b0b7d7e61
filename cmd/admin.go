package main

import (
	"context"
	"fmt"

	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
	"github.com/kdlcruz/tito/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AdminInterns lists every intern visible to the logged-in administrator.
func (r *Runner) AdminInterns(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	sess := r.manager.Current()
	if !sess.Authenticated() {
		return shared.ErrNotAuthenticated
	}
	if sess.UserType != models.UserTypeAdmin {
		return fmt.Errorf("%w: admin commands require an admin session", shared.ErrUnauthorizedNavigation)
	}

	interns, err := r.tracker.Interns(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(interns, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Interns (%d)", len(interns)))
	for _, intern := range interns {
		r.writePlain("%s  %s  (%s, since %s)\n", intern.Email, intern.Name, intern.Status, intern.StartDate)
	}
	return nil
}

// AdminExport runs the bulk attendance export, streaming progress to the log.
func (r *Runner) AdminExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	sess := r.manager.Current()
	if !sess.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Stage {
			case tasks.StageFetchingInterns:
				r.logger.Info("fetching intern roster")
			case tasks.StageExporting:
				r.logger.Info("exporting", "intern", update.Detail, "progress", fmt.Sprintf("%d/%d", update.Current, update.Total))
			case tasks.StageExportFailed:
				r.logger.Warn("export failed", "intern", update.Detail, "error", update.Err)
			}
		}
	}()

	result, err := r.engine.ExportAttendance(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainHeader("Export Complete")
	r.writePlain("Interns: %d\n", result.TotalInterns)
	r.writePlain("Succeeded: %d\n", result.SuccessfulExports)
	r.writePlain("Failed: %d\n", result.FailedExports)
	return r.writePlain("Output: %s\n", result.OutputDirectory)
}
