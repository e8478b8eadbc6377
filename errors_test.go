package getmotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "401 is authentication", status: 401, want: ErrAuthentication},
		{name: "404 is not found", status: 404, want: ErrNotFound},
		{name: "409 is conflict", status: 409, want: ErrConflict},
		{name: "429 is rate limited", status: 429, want: ErrRateLimited},
		{name: "500 is server error", status: 500, want: ErrServer},
		{name: "503 is server error", status: 503, want: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: tt.status}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("400 has no classification", func(t *testing.T) {
		err := &APIError{StatusCode: 400}
		assert.Nil(t, err.Unwrap())
	})
}

func TestNewAPIError(t *testing.T) {
	t.Run("prefers the JSON detail field", func(t *testing.T) {
		err := newAPIError(404, []byte(`{"detail":"job not found"}`))
		assert.Equal(t, 404, err.StatusCode)
		assert.Equal(t, "job not found", err.Detail)
	})

	t.Run("falls back to the raw body", func(t *testing.T) {
		err := newAPIError(502, []byte("bad gateway\n"))
		assert.Equal(t, "bad gateway", err.Detail)
	})

	t.Run("tolerates an empty body", func(t *testing.T) {
		err := newAPIError(500, nil)
		assert.Empty(t, err.Detail)
		assert.Equal(t, "getmotion: API error 500", err.Error())
	})
}

func TestJobFailedErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *JobFailedError
		want string
	}{
		{
			name: "code and detail",
			err:  &JobFailedError{JobID: "job-1", Code: "ASR_TIMEOUT", Detail: "transcription timed out"},
			want: "getmotion: job job-1 failed (ASR_TIMEOUT): transcription timed out",
		},
		{
			name: "detail only",
			err:  &JobFailedError{JobID: "job-1", Detail: "worker died"},
			want: "getmotion: job job-1 failed: worker died",
		},
		{
			name: "nothing reported",
			err:  &JobFailedError{JobID: "job-1"},
			want: "getmotion: job job-1 failed: unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWaitTimeoutErrorMessage(t *testing.T) {
	err := &WaitTimeoutError{JobID: "job-1", Target: "AWAITING_REVIEW", Timeout: 5 * time.Minute}
	assert.Equal(t, "getmotion: job job-1 did not reach AWAITING_REVIEW within 5m0s", err.Error())
}
