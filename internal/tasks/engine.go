package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kdlcruz/tito/internal/attendance"
	"github.com/kdlcruz/tito/internal/guard"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/services"
	"github.com/kdlcruz/tito/internal/shared"
)

// TrackerAPI defines the tracker endpoints the engine consumes.
// This abstraction allows for easier testing and decoupling from the
// concrete client.
type TrackerAPI interface {
	Profile(ctx context.Context) (*services.InternProfile, error)
	AttendanceLogs(ctx context.Context) ([]models.AttendanceLog, error)
	TimeIn(ctx context.Context, taskType models.TaskType) (*models.AttendanceLog, error)
	TimeOut(ctx context.Context, logID string, taskType models.TaskType) (*models.AttendanceLog, error)
	Interns(ctx context.Context) ([]services.InternProfile, error)
	InternAttendance(ctx context.Context, email string) ([]models.AttendanceLog, error)
}

// Sessions is the engine's read-side view of the session manager.
type Sessions interface {
	Current() models.Session
	Activity()
}

// AttendanceEngine orchestrates attendance operations against the tracker
// API, keeping the local store and the guard in agreement with the server.
type AttendanceEngine struct {
	api      TrackerAPI
	sessions Sessions
	store    *attendance.Store
	logger   *log.Logger
	now      func() time.Time
}

// NewAttendanceEngine creates a new AttendanceEngine with the provided dependencies.
func NewAttendanceEngine(api TrackerAPI, sessions Sessions, store *attendance.Store, logger *log.Logger) *AttendanceEngine {
	return &AttendanceEngine{
		api:      api,
		sessions: sessions,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Store exposes the engine's attendance store for display layers.
func (e *AttendanceEngine) Store() *attendance.Store {
	return e.store
}

// SyncState pulls the intern's profile and attendance logs and rebuilds the
// local attendance state from them. Safe to call repeatedly; the store's
// derivations handle day rollover.
func (e *AttendanceEngine) SyncState(ctx context.Context) error {
	sess := e.sessions.Current()
	if !sess.Authenticated() {
		return shared.ErrNotAuthenticated
	}

	profile, err := e.api.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	logs, err := e.api.AttendanceLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch attendance logs: %w", err)
	}

	e.store.SetInternStatus(profile.Status)
	e.store.SetInternStartDate(profile.StartDate)
	e.store.SetAttendanceLogs(logs, models.DateOf(e.now()))

	e.logger.Debug("attendance state synced", "email", sess.UserEmail, "logs", len(logs))
	return nil
}

// TimeIn opens a new attendance log of the given task type.
//
// The navigation guard and the business-window check both run before the
// wire call; a guard denial surfaces as ErrUnauthorizedNavigation, the
// redirect being the caller's recovery.
func (e *AttendanceEngine) TimeIn(ctx context.Context, taskType models.TaskType) (*models.AttendanceLog, error) {
	if !taskType.Valid() {
		return nil, fmt.Errorf("%w: unknown task type %q", shared.ErrInvalidArgument, taskType)
	}

	e.sessions.Activity()

	sess := e.sessions.Current()
	decision := guard.Decide(guard.TimeInRequest(), sess, e.store.Snapshot())
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: redirected to %s", shared.ErrUnauthorizedNavigation, decision.RedirectTo)
	}

	if !e.store.CanTimeInOut(e.now()) {
		return nil, shared.ErrOutsideBusinessHours
	}

	logEntry, err := e.api.TimeIn(ctx, taskType)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetTimedIn(logEntry.ID, taskType); err != nil {
		// The server accepted the time-in but the local state refused
		// it; resync rather than guess.
		e.logger.Warn("time-in accepted remotely but rejected locally, resyncing", "error", err)
		if syncErr := e.SyncState(ctx); syncErr != nil {
			return nil, syncErr
		}
		return logEntry, nil
	}
	e.store.SetTimedInLog(logEntry)

	e.logger.Info("timed in", "log_id", logEntry.ID, "type", taskType)
	return logEntry, nil
}

// TimeOut closes the currently open attendance log. The route carries the
// open log's ID and task type, so the guard enforces that the request targets
// exactly the task that is open.
func (e *AttendanceEngine) TimeOut(ctx context.Context) (*models.AttendanceLog, error) {
	e.sessions.Activity()

	sess := e.sessions.Current()
	state := e.store.Snapshot()
	if !state.IsTimedIn {
		return nil, shared.ErrNotTimedIn
	}

	decision := guard.Decide(guard.TimeOutRequest(state.TimedInLogID, state.CurrentLogType), sess, state)
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: redirected to %s", shared.ErrUnauthorizedNavigation, decision.RedirectTo)
	}

	if !e.store.CanTimeInOut(e.now()) {
		return nil, shared.ErrOutsideBusinessHours
	}

	logEntry, err := e.api.TimeOut(ctx, state.TimedInLogID, state.CurrentLogType)
	if err != nil {
		return nil, err
	}

	e.store.ClearTimedIn()
	e.store.SetMostRecentAttendance(logEntry)
	if logEntry.Status == models.LogStatusSent {
		if err := e.store.SetTimedOutForTheDay(); err != nil {
			e.logger.Warn("failed to raise daily cutoff", "error", err)
		}
	}

	e.logger.Info("timed out", "log_id", logEntry.ID, "status", logEntry.Status)
	return logEntry, nil
}
