package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

// expiredTokenCode is the server's marker for a stale access token. Only this
// code triggers a refresh; any other 401 passes through untouched.
const expiredTokenCode = "token_not_valid"

// AuthTransport is an [http.RoundTripper] that attaches the session's bearer
// token and recovers from an expired access token with a single
// refresh-and-replay. A second failure after the one retry is terminal for
// the request.
type AuthTransport struct {
	Base   http.RoundTripper
	logger *log.Logger

	mu     sync.RWMutex
	source SessionSource
}

// SessionSource is the minimal surface AuthTransport needs from the session
// manager: the current token and a refresh. The manager coalesces concurrent
// Refresh calls into one wire exchange.
type SessionSource interface {
	Token() string
	Refresh(ctx context.Context) error
}

// NewAuthTransport creates a transport over base (defaulting to
// [http.DefaultTransport]). Bind the session manager before issuing
// authenticated requests.
func NewAuthTransport(base http.RoundTripper, logger *log.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{Base: base, logger: logger}
}

// Bind attaches the session manager the transport consults for tokens and
// refreshes. Kept separate from construction because the manager's API client
// itself rides on this transport.
func (t *AuthTransport) Bind(source SessionSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = source
}

func (t *AuthTransport) src() SessionSource {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.source
}

// RoundTrip implements [http.RoundTripper].
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	source := t.src()

	attempt := req
	if source != nil {
		if token := source.Token(); token != "" {
			attempt = req.Clone(req.Context())
			attempt.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.Base.RoundTrip(attempt)
	if err != nil {
		return nil, err
	}

	// Login and refresh requests never retry: there is no session to renew.
	if source == nil || isAuthPath(req.URL.Path) {
		return resp, nil
	}

	expired, resp, err := expiredToken(resp)
	if err != nil {
		return nil, err
	}
	if !expired {
		return resp, nil
	}

	resp.Body.Close()

	if t.logger != nil {
		t.logger.Debug("access token expired, refreshing", "path", req.URL.Path)
	}

	if err := source.Refresh(req.Context()); err != nil {
		// The manager has already logged out; the caller sees the
		// refresh failure rather than the stale 401.
		return nil, err
	}

	retry, err := replay(req)
	if err != nil {
		return nil, err
	}
	retry.Header.Set("Authorization", "Bearer "+source.Token())

	return t.Base.RoundTrip(retry)
}

// expiredToken reports whether resp is a 401 carrying the expired-token code.
// The body is consumed to inspect it and restored before returning.
func expiredToken(resp *http.Response) (bool, *http.Response, error) {
	if resp.StatusCode != http.StatusUnauthorized {
		return false, resp, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	resp.Body.Close()
	if err != nil {
		return false, nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		return false, resp, nil
	}

	return apiErr.Code == expiredTokenCode, resp, nil
}

// replay clones the original request with a fresh body for the single retry.
func replay(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.GetBody == nil {
		return retry, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body

	return retry, nil
}

func isAuthPath(path string) bool {
	switch path {
	case pathInternLogin, pathAdminLogin, pathTokenRefresh:
		return true
	}
	return false
}
