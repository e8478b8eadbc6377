// Package commands implements the CLI subcommands for the getmotion binary.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	getmotion "github.com/getmotion/getmotion-go"
	"github.com/getmotion/getmotion-go/internal/cliconfig"
)

// Values of the persistent root flags.
var (
	configPath  string
	apiKeyFlag  string
	baseURLFlag string
)

// BindRootFlags registers the flags shared by every subcommand.
func BindRootFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"profile file (default ~/.config/getmotion/config.yaml)")
	root.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "",
		"API key (overrides GETMOTION_API_KEY and the profile)")
	root.PersistentFlags().StringVar(&baseURLFlag, "base-url", "",
		"API endpoint (overrides GETMOTION_BASE_URL and the profile)")
}

// setup loads the configuration and builds the API client from it. Flags
// beat environment variables, which beat the profile.
func setup(cmd *cobra.Command) (*cliconfig.Config, *getmotion.Client, error) {
	cfg, err := cliconfig.Load(cmd.Context(), configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}

	opts := []getmotion.ClientOption{getmotion.WithLogger(cfg.NewLogger())}
	if cfg.BaseURL != "" {
		opts = append(opts, getmotion.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, getmotion.WithTimeout(cfg.Timeout.Std()))
	}

	client, err := getmotion.NewClient(cfg.APIKey, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// waitOptions merges wait timing, flags over config, leaving zeros to the
// library defaults. Progress is narrated to stderr.
func waitOptions(cfg *cliconfig.Config, timeout, interval time.Duration) *getmotion.WaitOptions {
	w := &getmotion.WaitOptions{
		Timeout:      cfg.WaitTimeout.Std(),
		PollInterval: cfg.PollInterval.Std(),
		OnProgress:   printProgress,
	}
	if timeout > 0 {
		w.Timeout = timeout
	}
	if interval > 0 {
		w.PollInterval = interval
	}
	return w
}

func printProgress(detail string) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", color.CyanString("…"), detail)
}

// statusString colors a status by its pipeline stage.
func statusString(s getmotion.Status) string {
	switch s.Stage() {
	case getmotion.StageDone:
		return color.GreenString(string(s))
	case getmotion.StageError:
		return color.RedString(string(s))
	case getmotion.StageReview:
		return color.YellowString(string(s))
	default:
		return color.CyanString(string(s))
	}
}

// printJSON pretty-prints v to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
