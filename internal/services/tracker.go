package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kdlcruz/tito/internal/models"
	"github.com/kdlcruz/tito/internal/shared"
)

// Backend endpoint paths. Login and refresh are exempt from the retry
// transport; see [isAuthPath].
const (
	pathInternLogin  = "/intern/login"
	pathAdminLogin   = "/admin/login"
	pathTokenRefresh = "/token/refresh/"
)

// TokenPair is the credential material issued by the login endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// InternProfile is the intern record the client reads for attendance gating.
type InternProfile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
}

// apiError is the backend's JSON error envelope.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// TrackerService provides methods for every backend endpoint the client consumes.
type TrackerService struct {
	baseURL    string
	httpClient *http.Client
}

// NewTrackerService creates a new tracker API client.
func NewTrackerService(baseURL string, client *http.Client) *TrackerService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TrackerService{baseURL: baseURL, httpClient: client}
}

// InternLogin exchanges intern credentials for a token pair.
func (s *TrackerService) InternLogin(ctx context.Context, email, password string) (*TokenPair, error) {
	return s.login(ctx, pathInternLogin, email, password)
}

// AdminLogin exchanges admin credentials for a token pair.
func (s *TrackerService) AdminLogin(ctx context.Context, email, password string) (*TokenPair, error) {
	return s.login(ctx, pathAdminLogin, email, password)
}

func (s *TrackerService) login(ctx context.Context, path, email, password string) (*TokenPair, error) {
	body := map[string]string{"email": email, "password": password}

	var pair TokenPair
	if err := s.do(ctx, http.MethodPost, path, body, &pair, loginFailure); err != nil {
		return nil, err
	}

	if pair.Access == "" || pair.Refresh == "" {
		return nil, fmt.Errorf("%w: login response missing tokens", shared.ErrAPIRequest)
	}

	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (s *TrackerService) RefreshToken(ctx context.Context, refresh string) (string, error) {
	body := map[string]string{"refresh": refresh}

	var result struct {
		Access string `json:"access"`
	}
	if err := s.do(ctx, http.MethodPost, pathTokenRefresh, body, &result, refreshFailure); err != nil {
		return "", err
	}

	if result.Access == "" {
		return "", fmt.Errorf("%w: refresh response missing access token", shared.ErrInvalidRefresh)
	}

	return result.Access, nil
}

// Profile retrieves the authenticated intern's profile.
func (s *TrackerService) Profile(ctx context.Context) (*InternProfile, error) {
	var profile InternProfile
	if err := s.do(ctx, http.MethodGet, "/intern/profile", nil, &profile, genericFailure); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AttendanceLogs retrieves the authenticated intern's attendance logs, oldest first.
func (s *TrackerService) AttendanceLogs(ctx context.Context) ([]models.AttendanceLog, error) {
	var logs []models.AttendanceLog
	if err := s.do(ctx, http.MethodGet, "/intern/attendance", nil, &logs, genericFailure); err != nil {
		return nil, err
	}
	return logs, nil
}

// TimeIn opens a new attendance log of the given task type.
func (s *TrackerService) TimeIn(ctx context.Context, taskType models.TaskType) (*models.AttendanceLog, error) {
	body := map[string]string{"log_type": string(taskType)}

	var log models.AttendanceLog
	if err := s.do(ctx, http.MethodPost, "/intern/attendance/time_in", body, &log, genericFailure); err != nil {
		return nil, err
	}
	return &log, nil
}

// TimeOut closes the attendance log identified by logID. The task type in the
// path must match the type the log was opened with; the server rejects
// mismatches.
func (s *TrackerService) TimeOut(ctx context.Context, logID string, taskType models.TaskType) (*models.AttendanceLog, error) {
	path := fmt.Sprintf("/intern/attendance/time_out/%s/%s", logID, taskType)

	var log models.AttendanceLog
	if err := s.do(ctx, http.MethodPost, path, nil, &log, genericFailure); err != nil {
		return nil, err
	}
	return &log, nil
}

// Interns retrieves all intern profiles. Admin only.
func (s *TrackerService) Interns(ctx context.Context) ([]InternProfile, error) {
	var interns []InternProfile
	if err := s.do(ctx, http.MethodGet, "/admin/interns", nil, &interns, genericFailure); err != nil {
		return nil, err
	}
	return interns, nil
}

// InternAttendance retrieves one intern's attendance logs by email. Admin only.
func (s *TrackerService) InternAttendance(ctx context.Context, email string) ([]models.AttendanceLog, error) {
	path := fmt.Sprintf("/admin/interns/%s/attendance", email)

	var logs []models.AttendanceLog
	if err := s.do(ctx, http.MethodGet, path, nil, &logs, genericFailure); err != nil {
		return nil, err
	}
	return logs, nil
}

// failureFunc converts a non-2xx response into the caller-facing error.
type failureFunc func(status int, apiErr apiError) error

func loginFailure(status int, apiErr apiError) error {
	message := apiErr.Message
	if message == "" {
		message = "invalid email or password"
	}
	return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, message)
}

func refreshFailure(status int, apiErr apiError) error {
	if apiErr.Message != "" {
		return fmt.Errorf("%w: %s", shared.ErrInvalidRefresh, apiErr.Message)
	}
	return fmt.Errorf("%w: status %d", shared.ErrInvalidRefresh, status)
}

func genericFailure(status int, apiErr apiError) error {
	if apiErr.Message != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, status, apiErr.Message)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, status)
}

// do performs one JSON request/response cycle against the backend.
func (s *TrackerService) do(ctx context.Context, method, path string, body, result any, onFailure failureFunc) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		json.Unmarshal(data, &apiErr)
		return onFailure(resp.StatusCode, apiErr)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
