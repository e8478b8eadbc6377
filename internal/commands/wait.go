package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewWaitCmd creates the wait command.
func NewWaitCmd() *cobra.Command {
	var target string
	var timeout, interval time.Duration

	cmd := &cobra.Command{
		Use:   "wait [job-id]",
		Short: "Block until a job reaches a status",
		Long: `Polls the job until it reaches the awaited status, narrating pipeline
progress to stderr. Exits non-zero when the job fails or the timeout
elapses.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWait(cmd, args[0], target, timeout, interval)
		},
	}

	cmd.Flags().StringVar(&target, "for", string(getmotion.StatusAwaitingReview), "Status to wait for")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall wait timeout (default from config, then 5m)")
	cmd.Flags().DurationVar(&interval, "poll-interval", 0, "Sleep between polls (default from config, then 3s)")
	return cmd
}

func runWait(cmd *cobra.Command, jobID, target string, timeout, interval time.Duration) error {
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}

	st, err := client.Jobs.Job(jobID).WaitFor(cmd.Context(), getmotion.Status(target), waitOptions(cfg, timeout, interval))
	if err != nil {
		return err
	}

	fmt.Printf("Job %s reached %s\n", st.JobID, statusString(st.Status))
	return nil
}
