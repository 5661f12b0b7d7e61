package main

import (
	"context"
	"time"

	"github.com/kdlcruz/tito/internal/formatter"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/urfave/cli/v3"
)

// AttendanceIn syncs state and opens a new attendance log.
func (r *Runner) AttendanceIn(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	taskType := models.TaskType(cmd.String("type"))

	if err := r.engine.SyncState(ctx); err != nil {
		return err
	}

	entry, err := r.engine.TimeIn(ctx, taskType)
	if err != nil {
		return err
	}

	r.writePlain("✓ Timed in\n")
	r.writePlain("Log: %s\n", entry.ID)
	r.writePlain("Type: %s\n", entry.LogType)
	return r.writePlain("Time in: %s\n", entry.TimeIn)
}

// AttendanceOut syncs state and closes the open attendance log.
func (r *Runner) AttendanceOut(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	if err := r.engine.SyncState(ctx); err != nil {
		return err
	}

	entry, err := r.engine.TimeOut(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Timed out\n")
	r.writePlain("Log: %s\n", entry.ID)
	if entry.WorkDuration != "" {
		r.writePlain("Duration: %s\n", entry.WorkDuration)
	}
	r.writePlain("Status: %s\n", entry.Status)
	if entry.Status == models.LogStatusFlagged && entry.AdminRemarks != "" {
		r.writePlain("Remarks: %s\n", entry.AdminRemarks)
	}
	return nil
}

// AttendanceLogs lists the intern's attendance history.
func (r *Runner) AttendanceLogs(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	if err := r.engine.SyncState(ctx); err != nil {
		return err
	}

	state := r.engine.Store().Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(state.AttendanceLogs, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Attendance Logs")
	if len(state.AttendanceLogs) == 0 {
		return r.writePlain("No logs recorded yet\n")
	}
	for _, entry := range state.AttendanceLogs {
		span := entry.TimeIn
		if entry.TimeOut != "" {
			span = entry.TimeIn + " - " + entry.TimeOut
		}
		r.writePlain("%s  [%s]  %s  (%s)\n", entry.Date, entry.LogType, span, entry.Status)
	}
	return nil
}

// AttendanceExport writes the intern's own logs to a CSV file with an
// accompanying summary JSON file.
func (r *Runner) AttendanceExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	if err := r.engine.SyncState(ctx); err != nil {
		return err
	}

	state := r.engine.Store().Snapshot()
	email := r.manager.Current().UserEmail

	result, err := formatter.WriteCSVExport(email, state.AttendanceLogs, cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d logs\n", len(state.AttendanceLogs))
	r.writePlain("Logs: %s\n", result.LogsFile)
	return r.writePlain("Summary: %s\n", result.SummaryFile)
}

// AttendanceStatus shows the derived attendance state for today.
func (r *Runner) AttendanceStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.bootstrap(); err != nil {
		return err
	}

	if err := r.engine.SyncState(ctx); err != nil {
		return err
	}

	store := r.engine.Store()
	state := store.Snapshot()

	r.writePlainHeader("Attendance Status")
	if state.IsTimedIn {
		r.writePlain("Timed in: yes [%s] log %s\n", state.CurrentLogType, state.TimedInLogID)
	} else {
		r.writePlain("Timed in: no\n")
	}
	r.writePlain("Tasks today: %d\n", state.TasksForTheDay)
	r.writePlain("Timed out for the day: %v\n", state.TimedOutForTheDay)
	r.writePlain("Intern status: %s\n", state.InternStatus)
	if state.MostRecentAttendance != nil {
		last := state.MostRecentAttendance
		r.writePlain("Last log: %s [%s] %s\n", last.Date, last.LogType, last.Status)
	}
	return r.writePlain("Can time in/out now: %v\n", store.CanTimeInOut(time.Now()))
}
