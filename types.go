package getmotion

// Status represents the lifecycle state of a job as reported by the API.
type Status string

// Job statuses, in pipeline order.
const (
	StatusCreated            Status = "CREATED"              // Job exists, no input yet
	StatusQueuedComposePre   Status = "QUEUED_COMPOSE_PRE"   // Analysis waiting for a worker
	StatusRunningComposePre  Status = "RUNNING_COMPOSE_PRE"  // Audio analysis and asset proposal running
	StatusStoryboardDraft    Status = "STORYBOARD_DRAFT"     // Storyboard draft open for chat refinement
	StatusAwaitingReview     Status = "AWAITING_REVIEW"      // Asset proposal waiting for caller review
	StatusQueuedComposePost  Status = "QUEUED_COMPOSE_POST"  // Blueprint compile waiting for a worker
	StatusRunningComposePost Status = "RUNNING_COMPOSE_POST" // Blueprint compile running
	StatusReadyForInject     Status = "READY_FOR_INJECT"     // Blueprint compiled, render not yet queued
	StatusQueuedInject       Status = "QUEUED_INJECT"        // Render waiting for a GPU worker
	StatusRunningInject      Status = "RUNNING_INJECT"       // Render running
	StatusCompleted          Status = "COMPLETED"            // Pipeline finished successfully
	StatusFailed             Status = "FAILED"               // Pipeline failed with error
	StatusCancelled          Status = "CANCELLED"            // Job was cancelled
)

// IsTerminal returns true if the status represents a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Stage is the coarse pipeline phase shown to users.
type Stage string

// Pipeline stages.
const (
	StageAnalyze Stage = "analyze"
	StageReview  Stage = "review"
	StageCompose Stage = "compose"
	StageRender  Stage = "render"
	StageDone    Stage = "done"
	StageError   Stage = "error"
)

// Stage buckets the status into its pipeline phase. Unknown statuses map to
// an empty Stage.
func (s Status) Stage() Stage {
	switch s {
	case StatusCreated, StatusQueuedComposePre, StatusRunningComposePre:
		return StageAnalyze
	case StatusStoryboardDraft, StatusAwaitingReview:
		return StageReview
	case StatusQueuedComposePost, StatusRunningComposePost, StatusReadyForInject:
		return StageCompose
	case StatusQueuedInject, StatusRunningInject:
		return StageRender
	case StatusCompleted:
		return StageDone
	case StatusFailed, StatusCancelled:
		return StageError
	default:
		return ""
	}
}

// JobStatus is the payload of the job status endpoint. It is also the
// observation type consumed by WaitFor.
type JobStatus struct {
	JobID string `json:"job_id"`
	// Status is the pipeline state; see the Status constants.
	Status Status `json:"status"`
	// StatusLabel is a human-readable form of Status.
	StatusLabel string `json:"status_label,omitempty"`
	// Stage is the coarse phase bucket reported by the server.
	Stage Stage `json:"stage,omitempty"`
	// Progress is the fractional progress within the current stage, when known.
	Progress *float64 `json:"progress,omitempty"`
	// StepDetail names the step currently running. Waits use it for
	// progress narration, de-duplicated across polls.
	StepDetail string `json:"step_detail,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	// Error is populated when Status is FAILED.
	Error *JobError `json:"error,omitempty"`
	// InputS3Key is the storage key of the uploaded audio, once registered.
	InputS3Key string `json:"input_s3_key,omitempty"`
	// ProposalS3Key is the storage key of the generated asset proposal.
	ProposalS3Key string `json:"proposal_s3_key,omitempty"`
	// CurrentBlueprintKey is the storage key of the compiled blueprint.
	CurrentBlueprintKey string `json:"current_blueprint_key,omitempty"`
	// NextAction tells the caller what the pipeline is waiting on, if anything.
	NextAction *NextAction `json:"next_action,omitempty"`
	// LastTransition is the most recent transition record, opaque to the client.
	LastTransition map[string]any `json:"last_transition,omitempty"`
}

// JobError carries the machine code and human detail of a failed job.
type JobError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NextAction describes a pending caller-side action, such as reviewing the
// asset proposal.
type NextAction struct {
	Kind        string `json:"kind,omitempty"`
	ReviewToken string `json:"review_token,omitempty"`
	ProposalKey string `json:"proposal_key,omitempty"`
	ProposalURL string `json:"proposal_url,omitempty"`
}

// Proposal is the AI-generated asset proposal, keyed by content domain. The
// shape is owned by the server; the client round-trips it unchanged so an
// edited proposal can be resubmitted without loss.
type Proposal map[string]any
