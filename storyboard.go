package getmotion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// StoryboardSummary is the condensed view of a storyboard draft.
type StoryboardSummary struct {
	// Segments are the drafted timeline segments, opaque to the client.
	Segments []map[string]any `json:"segments"`
	Stats    StoryboardStats  `json:"stats"`
}

// StoryboardStats are the aggregate counts of a draft.
type StoryboardStats struct {
	TotalSegments int `json:"total_segments"`
	TotalMacros   int `json:"total_macros"`
}

// storyboardPayload is the wire shape shared by the init, by-job lookup and
// session endpoints. Exists is only meaningful on the by-job lookup.
type storyboardPayload struct {
	Exists           bool               `json:"exists"`
	SessionID        string             `json:"session_id"`
	JobID            string             `json:"job_id"`
	StoryboardKey    string             `json:"storyboard_key"`
	Version          int                `json:"version"`
	HighLevelSummary *StoryboardSummary `json:"high_level_summary"`
}

// StoryboardSession is a handle on a chat-refinable storyboard draft.
type StoryboardSession struct {
	SessionID     string
	JobID         string
	StoryboardKey string
	Version       int
	Summary       *StoryboardSummary

	client *Client
}

func (c *Client) sessionFromPayload(p *storyboardPayload) *StoryboardSession {
	return &StoryboardSession{
		SessionID:     p.SessionID,
		JobID:         p.JobID,
		StoryboardKey: p.StoryboardKey,
		Version:       p.Version,
		Summary:       p.HighLevelSummary,
		client:        c,
	}
}

// apply folds a partial session payload into the handle. Chat responses
// carry only the fields the turn changed.
func (s *StoryboardSession) apply(p *storyboardPayload) {
	if p.StoryboardKey != "" {
		s.StoryboardKey = p.StoryboardKey
	}
	if p.Version != 0 {
		s.Version = p.Version
	}
	if p.HighLevelSummary != nil {
		s.Summary = p.HighLevelSummary
	}
}

// StoryboardOptions configures InitStoryboard.
type StoryboardOptions struct {
	// Style steers the draft, e.g. "energetic recap".
	Style string
	// Force discards an existing session and drafts a fresh one.
	Force bool
	// Wait configures the readiness wait used when the server queues
	// drafting instead of answering with a session.
	Wait WaitOptions
}

type storyboardInitRequest struct {
	JobID string `json:"job_id"`
	Style string `json:"style,omitempty"`
	Force bool   `json:"force,omitempty"`
}

// InitStoryboard opens (or resumes) the job's storyboard session. When the
// server queues asynchronous drafting instead of answering with a session,
// the call blocks until the storyboard exists, honoring opts.Wait.
func (j *Job) InitStoryboard(ctx context.Context, opts *StoryboardOptions) (*StoryboardSession, error) {
	req := storyboardInitRequest{JobID: j.ID}
	var wait *WaitOptions
	if opts != nil {
		req.Style = opts.Style
		req.Force = opts.Force
		wait = &opts.Wait
	}

	var payload storyboardPayload
	if err := j.client.doJSON(ctx, http.MethodPost, "/storyboard/init", nil, req, &payload); err != nil {
		return nil, err
	}

	if payload.SessionID == "" {
		// Drafting was queued; block until the storyboard comes into
		// existence.
		return j.WaitForStoryboard(ctx, wait)
	}

	return j.client.sessionFromPayload(&payload), nil
}

// WaitForStoryboard blocks until the job's storyboard session exists and
// returns it.
//
// Each poll reads the storyboard resource; while it does not exist yet, a
// best-effort read of the job status supplies progress narration and
// failure detection. An error from that secondary read is dropped for the
// tick, so a transient status failure cannot abort a wait whose primary
// resource is about to appear. Errors from the storyboard read itself
// always propagate, and terminal failure is decided on returned status
// data only.
func (j *Job) WaitForStoryboard(ctx context.Context, opts *WaitOptions) (*StoryboardSession, error) {
	w := resolveWaitOptions(opts, DefaultStoryboardTimeout)

	var found *StoryboardSession
	probe := func(ctx context.Context) (probeResult, error) {
		var payload storyboardPayload
		if err := j.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/storyboard/by-job/%s", j.ID), nil, nil, &payload); err != nil {
			return probeResult{}, err
		}
		if payload.Exists {
			found = j.client.sessionFromPayload(&payload)
			return probeResult{reached: true}, nil
		}

		st, err := j.Status(ctx)
		if err != nil {
			j.client.logger.Debug("status probe failed",
				slog.String("job_id", j.ID),
				slog.String("error", err.Error()),
			)
			return probeResult{}, nil
		}

		res := probeResult{detail: st.StepDetail}
		if st.Status == StatusFailed {
			res.failure = failedError(j.ID, st)
		}
		return res, nil
	}

	timedOut := func() error {
		return &WaitTimeoutError{JobID: j.ID, Target: "storyboard", Timeout: w.Timeout}
	}

	if err := j.client.pollUntil(ctx, w, probe, timedOut); err != nil {
		return nil, err
	}
	return found, nil
}

// Refresh re-reads the session, picking up edits applied by earlier chat
// turns.
func (s *StoryboardSession) Refresh(ctx context.Context) error {
	if s.SessionID == "" {
		return ErrSessionIDRequired
	}

	var payload storyboardPayload
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/storyboard/%s", s.SessionID), nil, nil, &payload); err != nil {
		return err
	}
	s.apply(&payload)
	return nil
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	storyboardPayload
}

// Chat sends one refinement turn to the storyboard assistant and returns
// its reply. The handle picks up any key, version or summary change the
// turn produced. Assistant turns are slow; the call is bounded by ctx, not
// by the client timeout.
func (s *StoryboardSession) Chat(ctx context.Context, message string) (string, error) {
	if s.SessionID == "" {
		return "", ErrSessionIDRequired
	}

	var res chatResponse
	if err := s.client.doJSONLong(ctx, http.MethodPost, fmt.Sprintf("/storyboard/%s/chat", s.SessionID), nil, chatRequest{Message: message}, &res); err != nil {
		return "", err
	}

	s.apply(&res.storyboardPayload)
	return res.Reply, nil
}

type finalizeResponse struct {
	StoryboardKey string `json:"storyboard_key"`
}

// Finalize freezes the draft and submits its key as the job's review
// decision, releasing the job into blueprint compilation.
func (s *StoryboardSession) Finalize(ctx context.Context) error {
	if s.SessionID == "" {
		return ErrSessionIDRequired
	}

	var res finalizeResponse
	if err := s.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/storyboard/%s/finalize", s.SessionID), nil, nil, &res); err != nil {
		return err
	}
	if res.StoryboardKey == "" {
		return ErrNoStoryboardKey
	}
	s.StoryboardKey = res.StoryboardKey

	decisions := Proposal{
		"storyboard_key": s.StoryboardKey,
		"submitted_at":   time.Now().UTC().Format(time.RFC3339),
	}
	job := &Job{ID: s.JobID, client: s.client}
	if _, err := job.SubmitReview(ctx, decisions, nil); err != nil {
		return err
	}
	return nil
}

// Regenerate discards the draft and reopens the session with a new style.
func (s *StoryboardSession) Regenerate(ctx context.Context, style string) (*StoryboardSession, error) {
	job := &Job{ID: s.JobID, client: s.client}
	return job.InitStoryboard(ctx, &StoryboardOptions{Style: style, Force: true})
}
