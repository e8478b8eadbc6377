package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var title, outDir string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run [audio-file]",
		Short: "Create, upload, review and render in one go",
		Long: `Drives a job through the whole pipeline: creates it, uploads the audio,
waits for the AI asset proposal, approves it unchanged, renders and
downloads the outputs. Use the individual commands when the proposal needs
editing first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0], title, outDir, timeout)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Human-readable job title")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the downloaded outputs")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Timeout for each wait (default from config)")
	return cmd
}

func runPipeline(cmd *cobra.Command, audioPath, title, outDir string, timeout time.Duration) error {
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	bold := color.New(color.Bold)

	// Step 1: Create the job
	job, err := client.Jobs.Create(ctx, getmotion.CreateJobParams{
		Title:          title,
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}
	_, _ = bold.Printf("Created job %s\n", job.ID)

	// Step 2: Upload the audio
	if err := job.UploadAudio(ctx, audioPath, nil); err != nil {
		return fmt.Errorf("uploading audio: %w", err)
	}
	fmt.Printf("Uploaded %s\n", audioPath)

	// Step 3: Queue analysis
	if _, err := job.Start(ctx, nil); err != nil {
		return fmt.Errorf("starting job: %w", err)
	}

	// Step 4: Wait for the asset proposal
	fmt.Println("Analyzing audio…")
	if _, err := job.WaitFor(ctx, getmotion.StatusAwaitingReview, waitOptions(cfg, timeout, 0)); err != nil {
		return err
	}

	// Step 5: Approve the proposal unchanged
	proposal, err := job.Proposal(ctx)
	if err != nil {
		return fmt.Errorf("fetching proposal: %w", err)
	}
	if _, err := job.SubmitReview(ctx, proposal, nil); err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}
	fmt.Printf("Approved proposal %s\n", color.YellowString("unchanged"))

	// Step 6: Wait for the blueprint
	fmt.Println("Compiling blueprint…")
	if _, err := job.WaitFor(ctx, getmotion.StatusReadyForInject, waitOptions(cfg, timeout, 0)); err != nil {
		return err
	}

	// Step 7: Queue the render
	if _, err := job.Render(ctx, nil); err != nil {
		return fmt.Errorf("queueing render: %w", err)
	}

	// Step 8: Wait for the finished video
	fmt.Println("Rendering…")
	if _, err := job.WaitFor(ctx, getmotion.StatusCompleted, waitOptions(cfg, timeout, 0)); err != nil {
		return err
	}

	// Step 9: Download the outputs
	list, err := job.Renders(ctx, "")
	if err != nil {
		return fmt.Errorf("listing renders: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, r := range list.Renders {
		dest := filepath.Join(outDir, filepath.Base(r.S3Key))
		if err := client.DownloadRender(ctx, r, dest); err != nil {
			return fmt.Errorf("downloading %s: %w", r.S3Key, err)
		}
		color.Green("  saved %s", dest)
	}

	_, _ = bold.Println("Done.")
	return nil
}
