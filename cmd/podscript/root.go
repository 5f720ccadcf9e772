package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/podscript/internal/config"
	"github.com/phrazzld/podscript/internal/platform/logger"
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "podscript/skip-config"

// rootOptions holds global flags and the state loaded before a command runs.
type rootOptions struct {
	configFile string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "podscript",
		Short: "Turn documents into podcast scripts and audio",
		Long: `podscript asks Gemini for a podcast script about a document, validates
the response against the script schema, retries with backoff when the model
returns something unusable, and can render the result to a WAV file.

Configuration is read from ./podscript.yaml (or --config) and PODSCRIPT_*
environment variables, e.g. PODSCRIPT_LLM_GEMINI_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config file (default: ./podscript.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the log level (debug|info|warn|error)")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVoicesCmd())

	return cmd
}

// Execute runs root with SIGINT and SIGTERM cancelling its context.
func Execute(ctx context.Context, root *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return root.ExecuteContext(ctx)
}

// load reads configuration and sets up logging on stderr.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" || !needsConfig(cmd) {
		return nil
	}

	cfg, err := config.LoadFrom(o.configFile)
	if err != nil {
		return WrapError(ExitConfigError, "failed to load configuration", err)
	}
	if o.logLevel != "" {
		cfg.Server.LogLevel = o.logLevel
	}

	log, err := logger.SetupWriter(cmd.ErrOrStderr(), cfg.Server)
	if err != nil {
		return WrapError(ExitConfigError, "failed to set up logger", err)
	}

	o.cfg = cfg
	o.logger = log
	return nil
}

// needsConfig is false for cobra's built-in help and completion commands.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd:
			return false
		}
	}
	return true
}
