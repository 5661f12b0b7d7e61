package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kdlcruz/tito/internal/models"
)

// AttendanceRepository persists one attendance snapshot per intern email.
//
// Snapshots are strictly identity-scoped: a different user logging in on the
// same device only ever rehydrates their own row.
type AttendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new [AttendanceRepository] with the given database connection.
func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Save stores the snapshot for email, replacing any previous one.
func (r *AttendanceRepository) Save(email string, state models.AttendanceState) error {
	if email == "" {
		return fmt.Errorf("cannot save snapshot without an email")
	}

	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO attendance_snapshots (email, snapshot, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, email, string(blob)); err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", email, err)
	}

	return nil
}

// Load retrieves the snapshot for email. The second return value reports
// whether a snapshot existed.
func (r *AttendanceRepository) Load(email string) (models.AttendanceState, bool, error) {
	var blob string
	err := r.db.QueryRow("SELECT snapshot FROM attendance_snapshots WHERE email = ?", email).Scan(&blob)
	if err == sql.ErrNoRows {
		return models.AttendanceState{}, false, nil
	}
	if err != nil {
		return models.AttendanceState{}, false, fmt.Errorf("failed to query snapshot for %s: %w", email, err)
	}

	var state models.AttendanceState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return models.AttendanceState{}, false, fmt.Errorf("failed to unmarshal snapshot for %s: %w", email, err)
	}

	return state, true, nil
}

// Delete removes the snapshot for email, if any.
func (r *AttendanceRepository) Delete(email string) error {
	if _, err := r.db.Exec("DELETE FROM attendance_snapshots WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete snapshot for %s: %w", email, err)
	}
	return nil
}
