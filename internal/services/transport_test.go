package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kdlcruz/tito/internal/shared"
)

// fakeSource is a scriptable SessionSource.
type fakeSource struct {
	mu         sync.Mutex
	token      string
	next       string
	refreshErr error
	refreshes  int
}

func (f *fakeSource) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSource) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshErr != nil {
		f.token = ""
		return f.refreshErr
	}
	f.token = f.next
	return nil
}

func expiredBody() string {
	return `{"message": "token expired", "code": "token_not_valid"}`
}

func TestAuthTransport(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("attaches the bearer token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := NewAuthTransport(nil, logger)
		transport.Bind(&fakeSource{token: "tok"})
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/intern/profile")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
	})

	t.Run("no source bound means no header and no retry", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if r.Header.Get("Authorization") != "" {
				t.Error("unexpected Authorization header")
			}
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		transport := NewAuthTransport(nil, logger)
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/intern/profile")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if requests != 1 {
			t.Errorf("expected exactly one request, got %d", requests)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected passthrough 401, got %d", resp.StatusCode)
		}
	})

	t.Run("expired token refreshes and replays once", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			if r.Header.Get("Authorization") == "Bearer fresh" {
				w.WriteHeader(http.StatusOK)
				io.WriteString(w, `{"ok": true}`)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		source := &fakeSource{token: "stale", next: "fresh"}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/intern/profile")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 after replay, got %d", resp.StatusCode)
		}
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
		if source.refreshes != 1 {
			t.Errorf("expected 1 refresh, got %d", source.refreshes)
		}
	})

	t.Run("request body is replayed on retry", func(t *testing.T) {
		var bodies []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(data))
			if r.Header.Get("Authorization") == "Bearer fresh" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		source := &fakeSource{token: "stale", next: "fresh"}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		resp, err := client.Post(server.URL+"/intern/attendance/time_in", "application/json", strings.NewReader(`{"log_type":"f2f"}`))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if len(bodies) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(bodies))
		}
		if bodies[0] != bodies[1] {
			t.Errorf("replayed body differs: %q vs %q", bodies[0], bodies[1])
		}
	})

	t.Run("only one retry even if the token stays expired", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		source := &fakeSource{token: "stale", next: "still-stale"}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/intern/profile")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected terminal 401, got %d", resp.StatusCode)
		}
		if requests != 2 {
			t.Errorf("expected 2 requests, got %d", requests)
		}
		if source.refreshes != 1 {
			t.Errorf("expected 1 refresh, got %d", source.refreshes)
		}
	})

	t.Run("401 without the expired code passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message": "nope", "code": "permission_denied"}`)
		}))
		defer server.Close()

		source := &fakeSource{token: "tok"}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		resp, err := client.Get(server.URL + "/intern/profile")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if source.refreshes != 0 {
			t.Errorf("expected no refresh, got %d", source.refreshes)
		}

		// The body must survive the inspection intact.
		data, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(data), "permission_denied") {
			t.Errorf("response body was consumed: %q", string(data))
		}
	})

	t.Run("refresh failure surfaces instead of the 401", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		source := &fakeSource{token: "stale", refreshErr: shared.ErrInvalidRefresh}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		_, err := client.Get(server.URL + "/intern/profile")
		if err == nil {
			t.Fatal("expected an error")
		}
		if !errors.Is(err, shared.ErrInvalidRefresh) {
			t.Errorf("expected ErrInvalidRefresh, got %v", err)
		}
	})

	t.Run("auth endpoints are never retried", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, expiredBody())
		}))
		defer server.Close()

		source := &fakeSource{token: "stale", next: "fresh"}
		transport := NewAuthTransport(nil, logger)
		transport.Bind(source)
		client := &http.Client{Transport: transport}

		for _, path := range []string{pathInternLogin, pathAdminLogin, pathTokenRefresh} {
			resp, err := client.Post(server.URL+path, "application/json", strings.NewReader(`{}`))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
		}

		if requests != 3 {
			t.Errorf("expected 3 requests with no retries, got %d", requests)
		}
		if source.refreshes != 0 {
			t.Errorf("expected no refreshes, got %d", source.refreshes)
		}
	})
}
