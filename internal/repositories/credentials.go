package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/kdlcruz/tito/internal/models"
)

// Credential store keys. One row per field so a single transaction replaces
// the whole set; a partially written session is never observable.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserType     = "user_type"
	keyUserEmail    = "user_email"
	keyLastActivity = "last_activity"
)

// CredentialRepository persists the session's credential material.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection.
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save replaces all persisted session fields in one transaction and bumps the
// store version so watchers in other processes observe the change.
func (r *CredentialRepository) Save(session models.Session) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	fields := map[string]string{
		keyAccessToken:  session.AccessToken,
		keyRefreshToken: session.RefreshToken,
		keyUserType:     string(session.UserType),
		keyUserEmail:    session.UserEmail,
	}

	for key, value := range fields {
		if err := upsert(tx, key, value); err != nil {
			return err
		}
	}

	if err := bumpVersion(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Load reads the persisted session. A missing store yields the zero session.
func (r *CredentialRepository) Load() (models.Session, error) {
	rows, err := r.db.Query("SELECT key, value FROM credentials")
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var session models.Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Session{}, fmt.Errorf("failed to scan credential row: %w", err)
		}

		switch key {
		case keyAccessToken:
			session.AccessToken = value
		case keyRefreshToken:
			session.RefreshToken = value
		case keyUserType:
			session.UserType = models.UserType(value)
		case keyUserEmail:
			session.UserEmail = value
		}
	}

	if err := rows.Err(); err != nil {
		return models.Session{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	return session, nil
}

// Clear removes every persisted session field in one transaction.
func (r *CredentialRepository) Clear() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM credentials"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	if err := bumpVersion(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// TouchActivity records the instant of the most recent user input.
func (r *CredentialRepository) TouchActivity(at time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsert(tx, keyLastActivity, strconv.FormatInt(at.Unix(), 10)); err != nil {
		return err
	}

	return tx.Commit()
}

// LastActivity returns the recorded instant of the most recent user input,
// or the zero time when none was recorded.
func (r *CredentialRepository) LastActivity() (time.Time, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM credentials WHERE key = ?", keyLastActivity).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query last activity: %w", err)
	}

	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid last activity value: %w", err)
	}

	return time.Unix(unix, 0), nil
}

// Version returns the current store version counter.
func (r *CredentialRepository) Version() (int64, error) {
	var version int64
	err := r.db.QueryRow("SELECT version FROM store_version WHERE id = 1").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to query store version: %w", err)
	}
	return version, nil
}

func upsert(tx *sql.Tx, key, value string) error {
	query := `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to upsert credential %s: %w", key, err)
	}
	return nil
}

func bumpVersion(tx *sql.Tx) error {
	if _, err := tx.Exec("UPDATE store_version SET version = version + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to bump store version: %w", err)
	}
	return nil
}
