package ui

import (
	"github.com/kdlcruz/tito/internal/models"
)

// stateSyncedMsg reports the outcome of a full state sync against the server.
type stateSyncedMsg struct {
	state models.AttendanceState
	err   error
}

// actionDoneMsg reports the outcome of a time in/out wire call.
type actionDoneMsg struct {
	entry *models.AttendanceLog
	err   error
}
