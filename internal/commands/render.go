package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	var force, keepBin bool

	cmd := &cobra.Command{
		Use:   "render [job-id]",
		Short: "Queue a render of the job's current blueprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], force, keepBin)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-render even when output already exists")
	cmd.Flags().BoolVar(&keepBin, "keep-bin", false, "Keep the intermediate render binary on the server")
	return cmd
}

func runRender(cmd *cobra.Command, jobID string, force, keepBin bool) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	res, err := client.Jobs.Job(jobID).Render(cmd.Context(), &getmotion.RenderOptions{
		Force:   force,
		KeepBin: keepBin,
	})
	if err != nil {
		return fmt.Errorf("queueing render: %w", err)
	}

	color.Green("Render queued for %s", res.JobID)
	if res.Message != "" {
		fmt.Printf("  %s\n", res.Message)
	}
	return nil
}
