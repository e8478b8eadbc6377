package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
)

// NewStoryboardCmd creates the storyboard command.
func NewStoryboardCmd() *cobra.Command {
	var style, message string
	var force, finalize bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "storyboard [job-id]",
		Short: "Open the storyboard session, chat, or finalize it",
		Long: `Opens (or resumes) the job's storyboard session, waiting for drafting
when the server queues it. --chat sends one refinement turn and prints the
assistant's reply; --finalize freezes the draft and submits it as the
review decision.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoryboard(cmd, args[0], style, message, force, finalize, timeout)
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Style hint for the draft, e.g. \"energetic recap\"")
	cmd.Flags().StringVar(&message, "chat", "", "Send one chat turn to the storyboard assistant")
	cmd.Flags().BoolVar(&force, "force", false, "Discard the existing session and draft a fresh one")
	cmd.Flags().BoolVar(&finalize, "finalize", false, "Freeze the draft and submit it for compilation")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Drafting wait timeout (default from config, then 10m)")
	return cmd
}

func runStoryboard(cmd *cobra.Command, jobID, style, message string, force, finalize bool, timeout time.Duration) error {
	cfg, client, err := setup(cmd)
	if err != nil {
		return err
	}

	sess, err := client.Jobs.Job(jobID).InitStoryboard(cmd.Context(), &getmotion.StoryboardOptions{
		Style: style,
		Force: force,
		Wait:  *waitOptions(cfg, timeout, 0),
	})
	if err != nil {
		return fmt.Errorf("opening storyboard: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Storyboard %s (v%d)\n", sess.SessionID, sess.Version)
	if sess.Summary != nil {
		fmt.Printf("  Segments: %d  Macros: %d\n",
			sess.Summary.Stats.TotalSegments, sess.Summary.Stats.TotalMacros)
	}

	if message != "" {
		reply, err := sess.Chat(cmd.Context(), message)
		if err != nil {
			return fmt.Errorf("chat turn failed: %w", err)
		}
		fmt.Println()
		_, _ = bold.Println("Assistant:")
		fmt.Println(reply)
	}

	if finalize {
		if err := sess.Finalize(cmd.Context()); err != nil {
			return fmt.Errorf("finalizing storyboard: %w", err)
		}
		color.Green("Storyboard finalized: %s", sess.StoryboardKey)
	}

	return nil
}
