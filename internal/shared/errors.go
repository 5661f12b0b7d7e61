package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrInvalidCredentials = fmt.Errorf("invalid login credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrExpiredToken       = fmt.Errorf("access token expired")
	ErrInvalidRefresh     = fmt.Errorf("refresh token rejected")
	ErrNoRefreshToken     = fmt.Errorf("no refresh token available")

	// Attendance errors
	ErrAlreadyTimedIn       = fmt.Errorf("a task is already timed in")
	ErrNotTimedIn           = fmt.Errorf("no task is currently timed in")
	ErrTimedOutForTheDay    = fmt.Errorf("already timed out for the day")
	ErrOutsideBusinessHours = fmt.Errorf("outside the time in/out window")

	// Navigation errors
	ErrUnauthorizedNavigation = fmt.Errorf("navigation not authorized")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
