package getmotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Static errors for client operations and API error classification.
var (
	// ErrAPIKeyRequired is returned when no API key is provided or found in the environment.
	ErrAPIKeyRequired = errors.New("getmotion: API key is required")
	// ErrJobIDRequired is returned when a job ID is empty.
	ErrJobIDRequired = errors.New("getmotion: job ID is required")
	// ErrSessionIDRequired is returned when a storyboard session ID is empty.
	ErrSessionIDRequired = errors.New("getmotion: storyboard session ID is required")
	// ErrNoJobIDReturned is returned when a job payload carries no job ID.
	ErrNoJobIDReturned = errors.New("getmotion: no job ID returned")
	// ErrNoUploadTargets is returned when the presign endpoint offers no upload targets.
	ErrNoUploadTargets = errors.New("getmotion: no upload targets returned")
	// ErrNoStoryboardKey is returned when finalize yields no storyboard key.
	ErrNoStoryboardKey = errors.New("getmotion: finalize returned no storyboard key")
	// ErrNoRenderURL is returned when a render has no presigned download URL.
	ErrNoRenderURL = errors.New("getmotion: no download URL in render")
	// ErrAuthentication is the classification for HTTP 401 responses.
	ErrAuthentication = errors.New("getmotion: authentication failed")
	// ErrNotFound is the classification for HTTP 404 responses.
	ErrNotFound = errors.New("getmotion: resource not found")
	// ErrConflict is the classification for HTTP 409 responses.
	ErrConflict = errors.New("getmotion: conflict")
	// ErrRateLimited is the classification for HTTP 429 responses.
	ErrRateLimited = errors.New("getmotion: rate limited")
	// ErrServer is the classification for 5xx responses.
	ErrServer = errors.New("getmotion: server error")
)

// APIError is returned for any non-2xx API response. StatusCode is the HTTP
// status and Detail the "detail" field of the error body (or the raw body
// when the body is not JSON). Use errors.Is with the classification
// sentinels (ErrAuthentication, ErrNotFound, ErrConflict, ErrRateLimited,
// ErrServer) to branch on the category.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("getmotion: API error %d", e.StatusCode)
	}
	return fmt.Sprintf("getmotion: API error %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps the status code to its classification sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrAuthentication
	case e.StatusCode == 404:
		return ErrNotFound
	case e.StatusCode == 409:
		return ErrConflict
	case e.StatusCode == 429:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return nil
	}
}

// JobFailedError is returned by waits when the job enters the FAILED status.
// Code and Detail are extracted from the error object of the status payload.
type JobFailedError struct {
	JobID  string
	Code   string
	Detail string
}

func (e *JobFailedError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = "unknown error"
	}
	if e.Code != "" {
		return fmt.Sprintf("getmotion: job %s failed (%s): %s", e.JobID, e.Code, detail)
	}
	return fmt.Sprintf("getmotion: job %s failed: %s", e.JobID, detail)
}

// WaitTimeoutError is returned by waits when the deadline elapses before the
// awaited state is observed. Target is the awaited status, or "storyboard"
// for the storyboard readiness wait.
type WaitTimeoutError struct {
	JobID   string
	Target  string
	Timeout time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("getmotion: job %s did not reach %s within %s", e.JobID, e.Target, e.Timeout)
}

// newAPIError builds an APIError from a non-2xx response, preferring the
// JSON detail field when the body parses as one.
func newAPIError(statusCode int, body []byte) *APIError {
	detail := strings.TrimSpace(string(body))
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		detail = parsed.Detail
	}
	return &APIError{StatusCode: statusCode, Detail: detail}
}
