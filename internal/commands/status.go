package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show the pipeline state of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, args[0])
		},
	}
}

func runStatus(cmd *cobra.Command, jobID string) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	st, err := client.Jobs.Job(jobID).Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching status: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Job: %s\n", st.JobID)
	fmt.Printf("  Status: %s\n", statusString(st.Status))

	stage := st.Stage
	if stage == "" {
		stage = st.Status.Stage()
	}
	if stage != "" {
		fmt.Printf("  Stage:  %s\n", stage)
	}
	if st.Progress != nil {
		fmt.Printf("  Progress: %.0f%%\n", *st.Progress*100)
	}
	if st.StepDetail != "" {
		fmt.Printf("  Step:   %s\n", st.StepDetail)
	}
	if st.UpdatedAt != "" {
		fmt.Printf("  Updated: %s\n", st.UpdatedAt)
	}

	if st.Error != nil {
		detail := st.Error.Detail
		if st.Error.Code != "" {
			detail = fmt.Sprintf("%s (%s)", detail, st.Error.Code)
		}
		color.Red("  Error:  %s", detail)
	}

	if st.NextAction != nil && st.NextAction.Kind != "" {
		fmt.Println()
		color.Yellow("  Next action: %s", st.NextAction.Kind)
	}

	return nil
}
