// Package attendance models the intern's single active timed-in task and the
// daily time-tracking cutoff.
//
// The store's setters are the only mutators, so the coupled-field invariants
// hold centrally: the timed-in log ID and task type exist exactly when a task
// is timed in, and the daily cutoff can only be raised while timed out. The
// "may the user time in/out right now" question is deliberately not a state:
// CanTimeInOut derives it on read from the start date, the configured
// business window and today's logs.
package attendance

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
)

// Snapshots persists per-email attendance state.
// [repositories.AttendanceRepository] implements it.
type Snapshots interface {
	Save(email string, state models.AttendanceState) error
	Load(email string) (models.AttendanceState, bool, error)
}

// Store owns the attendance state for one intern email.
//
// It is rehydrated from the snapshot repository at construction and persists
// after every mutation. A store built with an empty email (no authenticated
// intern) is inert: mutations apply in memory only and nothing persists.
type Store struct {
	email     string
	snapshots Snapshots
	window    shared.AttendanceConfig
	logger    *log.Logger

	mu    sync.Mutex
	state models.AttendanceState
}

// NewStore creates the attendance store for email, rehydrating any persisted
// snapshot for that identity and only that identity.
func NewStore(email string, snapshots Snapshots, window shared.AttendanceConfig, logger *log.Logger) *Store {
	s := &Store{
		email:     email,
		snapshots: snapshots,
		window:    window,
		logger:    logger,
	}

	if email != "" {
		state, ok, err := snapshots.Load(email)
		if err != nil {
			logger.Warn("failed to rehydrate attendance snapshot", "email", email, "error", err)
		} else if ok {
			s.state = state
		}
	}

	return s
}

// Snapshot returns a copy of the current state. The logs slice is copied so
// callers can hold the snapshot across later mutations.
func (s *Store) Snapshot() models.AttendanceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state.AttendanceLogs != nil {
		state.AttendanceLogs = append([]models.AttendanceLog(nil), state.AttendanceLogs...)
	}
	return state
}

// SetTimedIn transitions TimedOut → TimedIn for the given log. It rejects,
// leaving state unchanged, when the daily cutoff is already raised or a task
// is already open.
func (s *Store) SetTimedIn(logID string, taskType models.TaskType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TimedOutForTheDay {
		return shared.ErrTimedOutForTheDay
	}
	if s.state.IsTimedIn {
		return shared.ErrAlreadyTimedIn
	}
	if logID == "" || !taskType.Valid() {
		return shared.ErrInvalidArgument
	}

	s.state.IsTimedIn = true
	s.state.TimedInLogID = logID
	s.state.CurrentLogType = taskType
	s.persist()
	return nil
}

// ClearTimedIn transitions back to TimedOut, dropping the log ID and task
// type together.
func (s *Store) ClearTimedIn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.IsTimedIn = false
	s.state.TimedInLogID = ""
	s.state.CurrentLogType = ""
	s.state.TimedInLog = nil
	s.persist()
}

// SetTimedOutForTheDay raises the daily cutoff. The flag can only be raised
// while timed out and stays up until a day boundary resets it through fresh
// logs.
func (s *Store) SetTimedOutForTheDay() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsTimedIn {
		return shared.ErrAlreadyTimedIn
	}

	s.state.TimedOutForTheDay = true
	s.persist()
	return nil
}

// SetTasksForTheDay records today's task count.
func (s *Store) SetTasksForTheDay(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 {
		n = 0
	}
	s.state.TasksForTheDay = n
	s.persist()
}

// SetInternStatus records the intern's status string.
func (s *Store) SetInternStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.InternStatus = status
	s.persist()
}

// SetInternStartDate records the internship start date (YYYY-MM-DD).
func (s *Store) SetInternStartDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.InternStartDate = date
	s.persist()
}

// SetMostRecentAttendance records the latest attendance log.
func (s *Store) SetMostRecentAttendance(log *models.AttendanceLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.MostRecentAttendance = log
	s.persist()
}

// SetTimedInLog records the full log record of the open task.
func (s *Store) SetTimedInLog(log *models.AttendanceLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.TimedInLog = log
	s.persist()
}

// SetAttendanceLogs replaces the log history and rederives the day-scoped
// fields: today's task count, the daily cutoff, the most recent record, and,
// when a log for today is still ongoing, the open timed-in task.
func (s *Store) SetAttendanceLogs(logs []models.AttendanceLog, today string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.AttendanceLogs = append([]models.AttendanceLog(nil), logs...)

	tasks := 0
	var open *models.AttendanceLog
	for i := range logs {
		if logs[i].Date != today {
			continue
		}
		tasks++
		if logs[i].Status == models.LogStatusOngoing {
			open = &logs[i]
		}
	}
	s.state.TasksForTheDay = tasks

	if len(logs) > 0 {
		last := logs[len(logs)-1]
		s.state.MostRecentAttendance = &last
	} else {
		s.state.MostRecentAttendance = nil
	}

	// A new day's logs reset the cutoff; a sent log for today raises it.
	s.state.TimedOutForTheDay = s.state.HasSentLogOn(today)

	if open != nil {
		s.state.IsTimedIn = true
		s.state.TimedInLogID = open.ID
		s.state.CurrentLogType = open.LogType
		s.state.TimedInLog = open
	} else {
		s.state.IsTimedIn = false
		s.state.TimedInLogID = ""
		s.state.CurrentLogType = ""
		s.state.TimedInLog = nil
	}

	s.persist()
}

// CanTimeInOut derives whether a time in/out action is permitted at the given
// instant: the internship must have started, the hour must fall inside the
// configured business window, and today's attendance must not already have
// been sent. Pure with respect to now; nothing here is persisted.
func (s *Store) CanTimeInOut(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.InternStartDate == "" {
		return false
	}

	today := models.DateOf(now)
	if today < s.state.InternStartDate {
		return false
	}

	hour := now.Hour()
	if hour < s.window.OpenHour || hour >= s.window.CloseHour {
		return false
	}

	return !s.state.HasSentLogOn(today)
}

// persist is called with the lock held after every mutation.
func (s *Store) persist() {
	if s.email == "" {
		return
	}
	if err := s.snapshots.Save(s.email, s.state); err != nil {
		s.logger.Warn("failed to persist attendance snapshot", "email", s.email, "error", err)
	}
}
