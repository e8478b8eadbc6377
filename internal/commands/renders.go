package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRendersCmd creates the renders command.
func NewRendersCmd() *cobra.Command {
	var version, downloadDir string

	cmd := &cobra.Command{
		Use:   "renders [job-id]",
		Short: "List or download a job's rendered outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenders(cmd, args[0], version, downloadDir)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Render version to list (default the newest)")
	cmd.Flags().StringVar(&downloadDir, "download", "", "Download every output into this directory")
	return cmd
}

func runRenders(cmd *cobra.Command, jobID, version, downloadDir string) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	list, err := client.Jobs.Job(jobID).Renders(cmd.Context(), version)
	if err != nil {
		return fmt.Errorf("listing renders: %w", err)
	}

	if len(list.Renders) == 0 {
		fmt.Println("No renders yet.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Println("Renders:")
	for _, r := range list.Renders {
		fmt.Printf("  %-60s %12d bytes\n", r.S3Key, r.Bytes)
	}

	if downloadDir == "" {
		return nil
	}
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	fmt.Println()
	for _, r := range list.Renders {
		dest := filepath.Join(downloadDir, filepath.Base(r.S3Key))
		if err := client.DownloadRender(cmd.Context(), r, dest); err != nil {
			return fmt.Errorf("downloading %s: %w", r.S3Key, err)
		}
		color.Green("  saved %s", dest)
	}
	return nil
}
