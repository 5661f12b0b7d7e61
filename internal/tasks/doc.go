// Package tasks implements the attendance workflows composing the session,
// the attendance store, the guard and the tracker API.
//
// The core abstraction is AttendanceEngine: it syncs server state into the
// local store, runs guarded time-in/time-out actions, and drives the admin
// bulk attendance export. Export progress is emitted via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
