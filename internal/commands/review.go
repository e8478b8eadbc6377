package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewReviewCmd creates the review command.
func NewReviewCmd() *cobra.Command {
	var decisionsPath, token string
	var auto bool

	cmd := &cobra.Command{
		Use:   "review [job-id]",
		Short: "Inspect or submit the asset proposal review",
		Long: `Without flags, prints the AI asset proposal as JSON for editing.
--decisions submits the (possibly edited) proposal file; --auto resubmits
the proposal unchanged. Either releases the job into blueprint compilation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args[0], decisionsPath, token, auto)
		},
	}

	cmd.Flags().StringVar(&decisionsPath, "decisions", "", "JSON file with the reviewed proposal")
	cmd.Flags().StringVar(&token, "token", "", "Review token from the job's next action")
	cmd.Flags().BoolVar(&auto, "auto", false, "Approve the proposal unchanged")
	cmd.MarkFlagsMutuallyExclusive("decisions", "auto")
	return cmd
}

func runReview(cmd *cobra.Command, jobID, decisionsPath, token string, auto bool) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}
	job := client.Jobs.Job(jobID)

	if decisionsPath == "" && !auto {
		proposal, err := job.Proposal(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching proposal: %w", err)
		}
		return printJSON(proposal)
	}

	var decisions getmotion.Proposal
	if auto {
		if decisions, err = job.Proposal(cmd.Context()); err != nil {
			return fmt.Errorf("fetching proposal: %w", err)
		}
	} else {
		data, err := os.ReadFile(decisionsPath)
		if err != nil {
			return fmt.Errorf("reading decisions: %w", err)
		}
		if err := json.Unmarshal(data, &decisions); err != nil {
			return fmt.Errorf("parsing decisions: %w", err)
		}
	}

	var opts *getmotion.ReviewOptions
	if token != "" {
		opts = &getmotion.ReviewOptions{ReviewToken: token}
	}

	receipt, err := job.SubmitReview(cmd.Context(), decisions, opts)
	if err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}

	color.Green("Review submitted")
	if receipt.SubmittedKey != "" {
		fmt.Printf("  Key: %s\n", receipt.SubmittedKey)
	}
	return nil
}
