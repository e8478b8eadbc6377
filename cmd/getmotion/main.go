package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmotion/getmotion-go/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "getmotion",
		Short: "Turn narration audio into finished video",
		Long: `getmotion drives the GetMotion rendering pipeline from the terminal:
create a job, upload narration audio, review the AI asset proposal or
refine a storyboard in chat, queue the render and download the results.`,
		Version: version,
	}

	commands.BindRootFlags(root)
	root.AddCommand(
		commands.NewCreateCmd(),
		commands.NewStatusCmd(),
		commands.NewUploadCmd(),
		commands.NewStartCmd(),
		commands.NewWaitCmd(),
		commands.NewReviewCmd(),
		commands.NewStoryboardCmd(),
		commands.NewRenderCmd(),
		commands.NewRendersCmd(),
		commands.NewRunCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
