// Package models defines the value types shared across the attendance client:
// the credential session, the per-intern attendance state, individual
// attendance log records, and navigation requests evaluated by the guard.
package models
