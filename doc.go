// Package getmotion provides a client for the GetMotion video-generation
// API.
//
// A job walks a server-side pipeline: audio analysis and asset proposal,
// caller review (directly or through a chat-refined storyboard), blueprint
// compilation, and GPU rendering. The client wraps the HTTP endpoints
// behind method calls and blocks on pipeline transitions with polling
// waits.
//
// # Usage
//
//	client, err := getmotion.NewClient("gm-...")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	job, err := client.Jobs.Create(ctx, getmotion.CreateJobParams{Title: "weekly recap"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := job.UploadAudio(ctx, "narration.mp3", nil); err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.Start(ctx, nil); err != nil {
//		log.Fatal(err)
//	}
//
//	// Block until the proposal is ready for review.
//	st, err := job.WaitFor(ctx, getmotion.StatusAwaitingReview, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = st
//
//	proposal, err := job.Proposal(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := job.SubmitReview(ctx, proposal, nil); err != nil {
//		log.Fatal(err)
//	}
//
// # Waiting
//
// WaitFor and WaitForStoryboard poll on a fixed interval until the awaited
// state appears, the job fails, the timeout elapses, or the context is
// cancelled. Progress is reported once per distinct step, via the logger
// and the optional WaitOptions.OnProgress callback.
//
// # Errors
//
// Non-2xx responses surface as *APIError; errors.Is against the
// classification sentinels (ErrAuthentication, ErrNotFound, ErrConflict,
// ErrRateLimited, ErrServer) selects the category. Waits end in exactly one
// of: the awaited payload, *JobFailedError, *WaitTimeoutError, a transport
// error, or the context's error. Transient transport failures, 5xx and 429
// responses are retried with exponential backoff before they surface.
package getmotion
