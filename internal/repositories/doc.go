// Package repositories provides the persistence layer for client state.
//
// CredentialRepository holds the session's credential material as key/value
// rows so all four fields swap in one transaction. AttendanceRepository keeps
// one attendance snapshot per intern email. Every write bumps a shared
// store_version counter, which StoreWatcher polls to surface changes made by
// another process (the desktop analog of browser storage events).
package repositories
