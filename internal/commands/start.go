package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewStartCmd creates the start command.
func NewStartCmd() *cobra.Command {
	var inputKey string

	cmd := &cobra.Command{
		Use:   "start [job-id]",
		Short: "Queue a job for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args[0], inputKey)
		},
	}

	cmd.Flags().StringVar(&inputKey, "input-key", "", "Storage key of an already-uploaded input")
	return cmd
}

func runStart(cmd *cobra.Command, jobID, inputKey string) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	var opts *getmotion.StartOptions
	if inputKey != "" {
		opts = &getmotion.StartOptions{InputS3Key: inputKey}
	}

	res, err := client.Jobs.Job(jobID).Start(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("starting job: %w", err)
	}

	if res.Queued != "" {
		color.Green("Queued %s for analysis", jobID)
		return nil
	}
	fmt.Printf("Job %s is already %s\n", res.JobID, statusString(res.Status))
	return nil
}
