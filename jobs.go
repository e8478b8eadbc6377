package getmotion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// JobsService creates and looks up jobs.
type JobsService struct {
	client *Client
}

// CreateJobParams are the parameters for creating a job. All fields are
// optional.
type CreateJobParams struct {
	// Title is a human-readable label: letters, digits, spaces, '.', '_'
	// and '-', at most 200 characters.
	Title string `validate:"omitempty,jobtitle,max=200"`
	// IdempotencyKey makes a retried creation return the existing job
	// instead of a new one.
	IdempotencyKey string `validate:"omitempty,max=255"`
	// WantUploadURL asks the server to include a presigned upload URL in
	// the creation payload, readable via Job.UploadURL.
	WantUploadURL bool
}

var jobTitleRe = regexp.MustCompile(`^[A-Za-z0-9 ._-]+$`)

// validJobTitle is the "jobtitle" validation rule.
func validJobTitle(fl validator.FieldLevel) bool {
	return jobTitleRe.MatchString(fl.Field().String())
}

type createJobRequest struct {
	Title          string `json:"title,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	WantUploadURL  bool   `json:"want_upload_url"`
}

// Job is a handle on a server-side job. Raw holds the payload the handle
// was built from; the typed accessors cover the fields the client acts on.
type Job struct {
	ID  string
	Raw map[string]any

	client *Client
}

// Create registers a new job and returns its handle.
func (s *JobsService) Create(ctx context.Context, params CreateJobParams) (*Job, error) {
	if err := s.client.validate.Struct(params); err != nil {
		return nil, fmt.Errorf("getmotion: invalid job params: %w", err)
	}

	req := createJobRequest{
		Title:          params.Title,
		IdempotencyKey: params.IdempotencyKey,
		WantUploadURL:  params.WantUploadURL,
	}

	var raw map[string]any
	if err := s.client.doJSON(ctx, http.MethodPost, "/jobs", nil, req, &raw); err != nil {
		return nil, err
	}

	return s.jobFromPayload(raw)
}

// Get fetches an existing job by ID.
func (s *JobsService) Get(ctx context.Context, jobID string) (*Job, error) {
	if jobID == "" {
		return nil, ErrJobIDRequired
	}

	var raw map[string]any
	if err := s.client.doJSON(ctx, http.MethodGet, "/jobs/"+jobID, nil, nil, &raw); err != nil {
		return nil, err
	}

	return s.jobFromPayload(raw)
}

// Job returns a handle on a known job ID without a server round trip. The
// ID is not checked; operations on a job that does not exist yield
// ErrNotFound.
func (s *JobsService) Job(id string) *Job {
	return &Job{ID: id, client: s.client}
}

func (s *JobsService) jobFromPayload(raw map[string]any) (*Job, error) {
	id, _ := raw["job_id"].(string)
	if id == "" {
		return nil, ErrNoJobIDReturned
	}
	return &Job{ID: id, Raw: raw, client: s.client}, nil
}

// UploadURL returns the presigned upload URL from the creation payload, or
// an empty string when none was requested.
func (j *Job) UploadURL() string {
	u, _ := j.Raw["upload_url"].(string)
	return u
}

// Status fetches the current pipeline state of the job.
func (j *Job) Status(ctx context.Context) (*JobStatus, error) {
	var st JobStatus
	if err := j.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/jobs/%s/status", j.ID), nil, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// StartOptions configures Start.
type StartOptions struct {
	// InputS3Key registers an already-uploaded object as the job input,
	// bypassing the key recorded by UploadAudio.
	InputS3Key string
}

// StartResult is the response of the start endpoint.
type StartResult struct {
	JobID string `json:"job_id"`
	// Queued is set when the request enqueued analysis.
	Queued string `json:"queued,omitempty"`
	// Status is returned instead when the job had already left CREATED.
	Status Status `json:"status,omitempty"`
}

// Start queues the job for analysis. Requires an uploaded input unless
// opts.InputS3Key points at one.
func (j *Job) Start(ctx context.Context, opts *StartOptions) (*StartResult, error) {
	var query url.Values
	if opts != nil && opts.InputS3Key != "" {
		query = url.Values{"input_s3_key": {opts.InputS3Key}}
	}

	var res StartResult
	if err := j.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/jobs/%s/start", j.ID), query, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Proposal fetches the AI asset proposal once the job reaches
// AWAITING_REVIEW.
func (j *Job) Proposal(ctx context.Context) (Proposal, error) {
	var res struct {
		DomainMapping Proposal `json:"domain_mapping"`
	}
	if err := j.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/jobs/%s/review/domain_mapping", j.ID), nil, nil, &res); err != nil {
		return nil, err
	}
	return res.DomainMapping, nil
}

// ReviewOptions configures SubmitReview.
type ReviewOptions struct {
	// ReviewToken is the single-use token from NextAction, when the server
	// issues one.
	ReviewToken string
}

// ReviewReceipt is the response of the review endpoint.
type ReviewReceipt struct {
	OK           bool   `json:"ok"`
	SubmittedKey string `json:"submitted_key"`
}

type reviewRequest struct {
	DecisionsJSON Proposal `json:"decisions_json"`
	ReviewToken   string   `json:"review_token,omitempty"`
}

// SubmitReview submits reviewed (possibly edited) proposal decisions,
// releasing the job into blueprint compilation.
func (j *Job) SubmitReview(ctx context.Context, decisions Proposal, opts *ReviewOptions) (*ReviewReceipt, error) {
	req := reviewRequest{DecisionsJSON: decisions}
	if opts != nil {
		req.ReviewToken = opts.ReviewToken
	}

	var receipt ReviewReceipt
	if err := j.client.doJSON(ctx, http.MethodPost, fmt.Sprintf("/jobs/%s/review", j.ID), nil, req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
