package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewUploadCmd creates the upload command.
func NewUploadCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "upload [job-id] [audio-file]",
		Short: "Upload narration audio for a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, args[0], args[1], contentType)
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "Override the content type inferred from the file extension")
	return cmd
}

func runUpload(cmd *cobra.Command, jobID, path, contentType string) error {
	_, client, err := setup(cmd)
	if err != nil {
		return err
	}

	var opts *getmotion.UploadOptions
	if contentType != "" {
		opts = &getmotion.UploadOptions{ContentType: contentType}
	}

	if err := client.Jobs.Job(jobID).UploadAudio(cmd.Context(), path, opts); err != nil {
		return fmt.Errorf("uploading audio: %w", err)
	}

	color.Green("Uploaded %s", path)
	return nil
}
