// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/services"
)

// MockTracker is a configurable test double for the tracker API
type MockTracker struct {
	ProfileFunc          func(ctx context.Context) (*services.InternProfile, error)
	AttendanceLogsFunc   func(ctx context.Context) ([]models.AttendanceLog, error)
	TimeInFunc           func(ctx context.Context, taskType models.TaskType) (*models.AttendanceLog, error)
	TimeOutFunc          func(ctx context.Context, logID string, taskType models.TaskType) (*models.AttendanceLog, error)
	InternsFunc          func(ctx context.Context) ([]services.InternProfile, error)
	InternAttendanceFunc func(ctx context.Context, email string) ([]models.AttendanceLog, error)
}

func (m *MockTracker) Profile(ctx context.Context) (*services.InternProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx)
	}
	return &services.InternProfile{}, nil
}

func (m *MockTracker) AttendanceLogs(ctx context.Context) ([]models.AttendanceLog, error) {
	if m.AttendanceLogsFunc != nil {
		return m.AttendanceLogsFunc(ctx)
	}
	return []models.AttendanceLog{}, nil
}

func (m *MockTracker) TimeIn(ctx context.Context, taskType models.TaskType) (*models.AttendanceLog, error) {
	if m.TimeInFunc != nil {
		return m.TimeInFunc(ctx, taskType)
	}
	return &models.AttendanceLog{}, nil
}

func (m *MockTracker) TimeOut(ctx context.Context, logID string, taskType models.TaskType) (*models.AttendanceLog, error) {
	if m.TimeOutFunc != nil {
		return m.TimeOutFunc(ctx, logID, taskType)
	}
	return &models.AttendanceLog{}, nil
}

func (m *MockTracker) Interns(ctx context.Context) ([]services.InternProfile, error) {
	if m.InternsFunc != nil {
		return m.InternsFunc(ctx)
	}
	return []services.InternProfile{}, nil
}

func (m *MockTracker) InternAttendance(ctx context.Context, email string) ([]models.AttendanceLog, error) {
	if m.InternAttendanceFunc != nil {
		return m.InternAttendanceFunc(ctx, email)
	}
	return []models.AttendanceLog{}, nil
}

// MemorySnapshots is an in-memory attendance snapshot store
type MemorySnapshots struct {
	States map[string]models.AttendanceState
	Err    error
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{States: map[string]models.AttendanceState{}}
}

func (m *MemorySnapshots) Save(email string, state models.AttendanceState) error {
	if m.Err != nil {
		return m.Err
	}
	m.States[email] = state
	return nil
}

func (m *MemorySnapshots) Load(email string) (models.AttendanceState, bool, error) {
	if m.Err != nil {
		return models.AttendanceState{}, false, m.Err
	}
	state, ok := m.States[email]
	return state, ok, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
