package models

import "time"

// UserType identifies which role a session was established for.
type UserType string

const (
	UserTypeAdmin  UserType = "admin"
	UserTypeIntern UserType = "intern"
)

// TaskType categorizes a timed work task. A time-out request must match the
// task type of the currently open time-in.
type TaskType string

const (
	TaskF2F   TaskType = "f2f"
	TaskAsync TaskType = "async"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	return t == TaskF2F || t == TaskAsync
}

// Attendance log statuses as reported by the backend.
const (
	LogStatusOngoing = "ongoing"
	LogStatusSent    = "sent"
	LogStatusFlagged = "flagged"
)

// Session holds the credential material for the authenticated user.
//
// AccessToken being non-empty is the definition of "authenticated".
// UserType and UserEmail are only ever set together with AccessToken; the
// session manager replaces or clears all four fields as one unit.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	UserType     UserType `json:"user_type"`
	UserEmail    string   `json:"user_email"`
}

// Authenticated reports whether the session carries credentials.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Empty reports whether every session field is cleared.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.UserType == "" && s.UserEmail == ""
}

// AttendanceLog is one attendance record as the client reads it. Only Date
// and Status drive the state machine; the rest is display material.
type AttendanceLog struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"` // YYYY-MM-DD
	Status       string   `json:"status"`
	LogType      TaskType `json:"log_type"`
	TimeIn       string   `json:"time_in,omitempty"`
	TimeOut      string   `json:"time_out,omitempty"`
	WorkDuration string   `json:"work_duration,omitempty"`
	AdminRemarks string   `json:"admin_remarks,omitempty"`
}

// AttendanceState is the per-intern attendance snapshot, scoped to one email.
//
// Invariant: TimedInLogID and CurrentLogType are present if and only if
// IsTimedIn is true. TimedOutForTheDay only moves false→true within a day;
// it resets through a fresh day's logs, not by direct mutation.
type AttendanceState struct {
	IsTimedIn            bool            `json:"is_timed_in"`
	TimedInLogID         string          `json:"timed_in_log_id,omitempty"`
	CurrentLogType       TaskType        `json:"current_log_type,omitempty"`
	TimedOutForTheDay    bool            `json:"timed_out_for_the_day"`
	TasksForTheDay       int             `json:"tasks_for_the_day"`
	InternStatus         string          `json:"intern_status,omitempty"`
	AttendanceLogs       []AttendanceLog `json:"attendance_logs,omitempty"`
	MostRecentAttendance *AttendanceLog  `json:"most_recent_attendance,omitempty"`
	TimedInLog           *AttendanceLog  `json:"timed_in_log,omitempty"`
	InternStartDate      string          `json:"intern_start_date,omitempty"` // YYYY-MM-DD
}

// HasSentLogOn reports whether a log dated date already reached status sent.
func (a AttendanceState) HasSentLogOn(date string) bool {
	for _, log := range a.AttendanceLogs {
		if log.Date == date && log.Status == LogStatusSent {
			return true
		}
	}
	return false
}

// NavigationRequest is one navigation attempt: ephemeral, never persisted.
type NavigationRequest struct {
	TargetPath string
	TargetName string
}

// DateOf formats an instant as the YYYY-MM-DD form used by log records.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
