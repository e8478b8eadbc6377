package getmotion

import (
	"context"
	"log/slog"
	"time"
)

// Default wait timing.
const (
	// DefaultWaitTimeout bounds WaitFor when WaitOptions.Timeout is zero.
	DefaultWaitTimeout = 5 * time.Minute
	// DefaultStoryboardTimeout bounds the storyboard readiness wait, which
	// sits behind a queue of LLM drafting work.
	DefaultStoryboardTimeout = 10 * time.Minute
	// DefaultPollInterval is the sleep between polls.
	DefaultPollInterval = 3 * time.Second
)

// WaitOptions configures a blocking wait. A nil *WaitOptions and the zero
// value of any field mean the defaults.
type WaitOptions struct {
	// Timeout bounds the whole wait. A wait whose deadline has already
	// passed still polls once before timing out.
	Timeout time.Duration
	// PollInterval is the sleep between polls.
	PollInterval time.Duration
	// OnProgress receives each distinct step detail as it first appears.
	// Progress is logged regardless; OnProgress is for callers that want
	// it programmatically.
	OnProgress func(detail string)
}

func resolveWaitOptions(opts *WaitOptions, defaultTimeout time.Duration) WaitOptions {
	var w WaitOptions
	if opts != nil {
		w = *opts
	}
	if w.Timeout == 0 {
		w.Timeout = defaultTimeout
	}
	if w.PollInterval <= 0 {
		w.PollInterval = DefaultPollInterval
	}
	return w
}

// probeResult is one observation of remote state. reached and failure are
// mutually exclusive; detail carries progress narration when the tick has
// any.
type probeResult struct {
	reached bool
	failure error
	detail  string
}

// pollUntil blocks until probe reports the awaited state or a terminal
// failure, the timeout elapses, or ctx is cancelled.
//
// The deadline is computed once, up front, from the monotonic clock. Each
// iteration polls exactly once; reached is checked before failure so a
// final success observation is never misclassified, and the deadline is
// only enforced after an undecided poll, so even an already-expired
// deadline gets one poll. The loop always sleeps between polls. Each
// distinct non-empty detail is emitted exactly once, in order, with
// consecutive duplicates dropped. Probe errors abort the wait immediately;
// retry policy belongs to the transport underneath the probe, never here.
//
// Deadline and emission state live on the stack of one call, so
// independent waits can run concurrently.
func (c *Client) pollUntil(ctx context.Context, opts WaitOptions, probe func(context.Context) (probeResult, error), timedOut func() error) error {
	deadline := time.Now().Add(opts.Timeout)
	var lastDetail string

	for {
		res, err := probe(ctx)
		if err != nil {
			return err
		}

		if res.detail != "" && res.detail != lastDetail {
			c.logger.Info("progress", slog.String("detail", res.detail))
			if opts.OnProgress != nil {
				opts.OnProgress(res.detail)
			}
			lastDetail = res.detail
		}

		if res.reached {
			return nil
		}
		if res.failure != nil {
			return res.failure
		}
		if !time.Now().Before(deadline) {
			return timedOut()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.PollInterval):
		}
	}
}

// WaitFor blocks until the job reaches target, polling the status endpoint.
// It returns the status payload of the poll that observed target.
//
// The wait ends early with *JobFailedError when the job enters FAILED no
// matter what target was awaited (awaiting FAILED itself returns the
// payload instead), with *WaitTimeoutError when the timeout elapses, with
// the transport error when a poll fails, or with ctx.Err() on cancellation.
func (j *Job) WaitFor(ctx context.Context, target Status, opts *WaitOptions) (*JobStatus, error) {
	w := resolveWaitOptions(opts, DefaultWaitTimeout)

	var reached *JobStatus
	probe := func(ctx context.Context) (probeResult, error) {
		st, err := j.Status(ctx)
		if err != nil {
			return probeResult{}, err
		}

		res := probeResult{detail: st.StepDetail}
		switch {
		case st.Status == target:
			reached = st
			res.reached = true
		case st.Status == StatusFailed:
			res.failure = failedError(j.ID, st)
		}
		return res, nil
	}

	timedOut := func() error {
		return &WaitTimeoutError{JobID: j.ID, Target: string(target), Timeout: w.Timeout}
	}

	if err := j.client.pollUntil(ctx, w, probe, timedOut); err != nil {
		return nil, err
	}
	return reached, nil
}

// failedError extracts the failure code and detail from a FAILED status
// payload.
func failedError(jobID string, st *JobStatus) *JobFailedError {
	e := &JobFailedError{JobID: jobID}
	if st.Error != nil {
		e.Code = st.Error.Code
		e.Detail = st.Error.Detail
	}
	return e
}
