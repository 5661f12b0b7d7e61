// Package session owns the authenticated identity and its credential
// material. Every transition that changes who is logged in goes through the
// Manager; at any instant an observer sees either a complete session or a
// fully cleared one, never a half-populated mix.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kdlcruz/tito/internal/guard"
	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/services"
	"github.com/kdlcruz/tito/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Authenticator is the slice of the tracker API the manager drives.
// [services.TrackerService] implements it.
type Authenticator interface {
	InternLogin(ctx context.Context, email, password string) (*services.TokenPair, error)
	AdminLogin(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (string, error)
}

// CredentialStore persists session fields atomically and tracks input activity.
type CredentialStore interface {
	Save(session models.Session) error
	Load() (models.Session, error)
	Clear() error
	TouchActivity(at time.Time) error
	LastActivity() (time.Time, error)
}

// Manager mediates login, refresh, logout, the idle timeout and
// cross-process reconciliation.
type Manager struct {
	api    Authenticator
	creds  CredentialStore
	idle   time.Duration
	logger *log.Logger
	now    func() time.Time

	refreshGroup singleflight.Group

	mu         sync.Mutex
	session    models.Session
	generation string
	idleTimer  *time.Timer
}

// NewManager creates a Manager and rehydrates any persisted session. A
// persisted session whose last recorded activity exceeds the idle budget is
// expired on the spot rather than resumed.
func NewManager(api Authenticator, creds CredentialStore, idle time.Duration, logger *log.Logger) (*Manager, error) {
	m := &Manager{
		api:        api,
		creds:      creds,
		idle:       idle,
		logger:     logger,
		now:        time.Now,
		generation: shared.GenerateID(),
	}

	session, err := creds.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	if session.Authenticated() {
		last, err := creds.LastActivity()
		if err != nil {
			return nil, err
		}
		if !last.IsZero() && m.now().Sub(last) > idle {
			logger.Info("persisted session exceeded idle budget, logging out",
				"email", session.UserEmail, "idle_since", last)
			if err := creds.Clear(); err != nil {
				return nil, err
			}
		} else {
			m.session = session
			m.armIdleTimerLocked()
		}
	}

	return m, nil
}

// Current returns a copy of the session for guard evaluation and display.
func (m *Manager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Token returns the current access token, or "" when logged out. It is the
// transport's bearer source.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken
}

// LoginIntern authenticates against the intern login endpoint. On success the
// session is installed and persisted atomically, and the intern home route is
// returned as the post-login destination. On failure any prior session is
// left untouched.
func (m *Manager) LoginIntern(ctx context.Context, email, password string) (string, error) {
	pair, err := m.api.InternLogin(ctx, email, password)
	if err != nil {
		return "", err
	}

	m.install(models.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		UserType:     models.UserTypeIntern,
		UserEmail:    email,
	})

	return guard.PathInternHome, nil
}

// LoginAdmin authenticates against the admin login endpoint. Behaves as
// [Manager.LoginIntern], with the admin home route as destination.
func (m *Manager) LoginAdmin(ctx context.Context, email, password string) (string, error) {
	pair, err := m.api.AdminLogin(ctx, email, password)
	if err != nil {
		return "", err
	}

	m.install(models.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		UserType:     models.UserTypeAdmin,
		UserEmail:    email,
	})

	return guard.PathAdminHome, nil
}

// Refresh exchanges the refresh token for a new access token, preserving the
// user type and email. Concurrent callers coalesce into one wire exchange. A
// rejected refresh is terminal: logout runs and ErrInvalidRefresh is
// returned. A refresh racing a logout is discarded via the generation stamp
// so a late response cannot resurrect a cleared session.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		m.mu.Lock()
		session := m.session
		generation := m.generation
		m.mu.Unlock()

		if session.RefreshToken == "" {
			return nil, shared.ErrNoRefreshToken
		}

		access, err := m.api.RefreshToken(ctx, session.RefreshToken)
		if err != nil {
			m.logger.Warn("token refresh rejected, logging out", "error", err)
			m.Logout()
			return nil, err
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		if m.generation != generation {
			// Logged out (or re-logged-in) while the exchange was in
			// flight; drop the result.
			m.logger.Debug("discarding refresh for a stale session generation")
			return nil, shared.ErrNotAuthenticated
		}

		session.AccessToken = access
		m.installLocked(session)
		return nil, nil
	})
	return err
}

// Logout clears the session atomically, clears persisted credentials, stops
// the idle timer and bumps the generation. It is idempotent and returns the
// landing route as the destination.
func (m *Manager) Logout() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = models.Session{}
	m.generation = shared.GenerateID()
	m.stopIdleTimerLocked()

	if err := m.creds.Clear(); err != nil {
		m.logger.Error("failed to clear persisted credentials", "error", err)
	}

	return guard.PathLanding
}

// Activity records user input: it re-arms the idle timer and stamps the
// persisted activity marker so other processes inherit the budget.
func (m *Manager) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.session.Authenticated() {
		return
	}

	m.armIdleTimerLocked()
	if err := m.creds.TouchActivity(m.now()); err != nil {
		m.logger.Warn("failed to record activity", "error", err)
	}
}

// Reconcile adopts a session observed by the store watcher. This is passive
// sync with another process: no navigation, no persistence write-back; only
// the in-memory fields and the idle timer follow the observed state.
func (m *Manager) Reconcile(session models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session == m.session {
		return
	}

	m.logger.Debug("adopting externally changed session", "authenticated", session.Authenticated())
	m.session = session
	m.generation = shared.GenerateID()

	if session.Authenticated() {
		m.armIdleTimerLocked()
	} else {
		m.stopIdleTimerLocked()
	}
}

// install replaces the whole session under lock, starting a new generation.
func (m *Manager) install(session models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation = shared.GenerateID()
	m.installLocked(session)
}

// installLocked persists and adopts the session. Callers hold the lock; the
// generation is managed by the caller (login bumps it, refresh keeps it).
func (m *Manager) installLocked(session models.Session) {
	if err := m.creds.Save(session); err != nil {
		m.logger.Error("failed to persist session", "error", err)
	}
	if err := m.creds.TouchActivity(m.now()); err != nil {
		m.logger.Warn("failed to record activity", "error", err)
	}

	m.session = session
	m.armIdleTimerLocked()
}

func (m *Manager) armIdleTimerLocked() {
	m.stopIdleTimerLocked()
	if m.idle <= 0 {
		return
	}
	m.idleTimer = time.AfterFunc(m.idle, func() {
		m.logger.Info("idle budget exhausted, logging out")
		m.Logout()
	})
}

func (m *Manager) stopIdleTimerLocked() {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
		m.idleTimer = nil
	}
}
