package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewCreateCmd creates the create command.
func NewCreateCmd() *cobra.Command {
	var title string
	var idempotencyKey string
	var wantUploadURL bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new video job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, title, idempotencyKey, wantUploadURL)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Human-readable job title")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Key for safe retries (default a fresh UUID)")
	cmd.Flags().BoolVar(&wantUploadURL, "upload-url", false, "Ask for a presigned upload URL in the response")
	return cmd
}

func runCreate(cmd *cobra.Command, title, idempotencyKey string, wantUploadURL bool) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	job, err := client.Jobs.Create(cmd.Context(), getmotion.CreateJobParams{
		Title:          title,
		IdempotencyKey: idempotencyKey,
		WantUploadURL:  wantUploadURL,
	})
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Created job %s\n", job.ID)
	fmt.Printf("  Idempotency key: %s\n", idempotencyKey)
	if u := job.UploadURL(); u != "" {
		fmt.Printf("  Upload URL: %s\n", u)
	}
	return nil
}
