// Package services implements the HTTP client for the remote
// attendance-tracking API and the transport that keeps its requests
// authenticated.
//
// TrackerService shapes requests and decodes responses for the backend's
// JSON endpoints. AuthTransport attaches the bearer token to every outbound
// request and, when the server reports the token_not_valid error code,
// refreshes the session once and replays the request once.
package services
