package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/prompt-eval/internal/ai"
	"github.com/CodexForgeBR/prompt-eval/internal/banner"
	"github.com/CodexForgeBR/prompt-eval/internal/cli"
	"github.com/CodexForgeBR/prompt-eval/internal/config"
	"github.com/CodexForgeBR/prompt-eval/internal/eval"
	"github.com/CodexForgeBR/prompt-eval/internal/exitcode"
	"github.com/CodexForgeBR/prompt-eval/internal/logging"
	"github.com/CodexForgeBR/prompt-eval/internal/metrics"
	sighandler "github.com/CodexForgeBR/prompt-eval/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	code := exitcode.Success
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "prompt-eval <url> <model>",
		Short:   "Batch-evaluate prompt files against an OpenAI-compatible model server",
		Long:    "prompt-eval sends every file in the prompts directory to a chat completion endpoint and writes each response to its own file.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			code, err = evaluate(cmd, cfg, args[0], args[1])
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Bind all CLI flags to the config
	cli.BindFlags(rootCmd, cfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if code == exitcode.Success {
			code = exitcode.Error
		}
		logging.Error(err.Error(), "exit", exitcode.Name(code), "code", code)
	}
	logging.Sync()
	return code
}

// globalConfigPath returns the per-user config file location, or "" when
// the user config directory cannot be determined.
func globalConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prompt-eval", "config.yaml")
}

func evaluate(cmd *cobra.Command, flagCfg *config.Config, url, model string) (int, error) {
	// Load config with full precedence chain. Flags are already bound to
	// flagCfg; only the ones the user changed override lower layers.
	cfg, err := config.LoadWithPrecedence(
		globalConfigPath(),
		config.ProjectFile,
		flagCfg.ConfigFile,
		config.LoadEnv(os.Getenv),
		cli.BuildOverrides(cmd),
	)
	if err != nil {
		return exitcode.Error, fmt.Errorf("load config: %w", err)
	}

	// Merge positional and CLI-only values (not in config files)
	cfg.URL = url
	cfg.Model = model
	cfg.ConfigFile = flagCfg.ConfigFile

	if err := cli.ValidateFlags(cfg); err != nil {
		return exitcode.Error, err
	}

	logging.SetVerbose(cfg.Verbose)

	runID := uuid.NewString()
	logging.SetFields("run", runID)
	defer logging.SetFields()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupt received, stopping")
	})
	defer stop()

	client, err := ai.NewOpenAI(cfg.URL, cfg.Model,
		ai.WithAPIKey(cfg.APIKey),
		ai.WithSystemPrompt(cfg.SystemPrompt),
		ai.WithTimeout(cfg.RequestTimeout),
		ai.WithMaxTokens(cfg.MaxTokens),
	)
	if err != nil {
		return exitcode.Error, fmt.Errorf("create client: %w", err)
	}

	var recorder metrics.Recorder = metrics.Noop{}
	var prom *metrics.Prom
	if cfg.MetricsFile != "" {
		prom = metrics.NewProm("prompt_eval")
		recorder = prom
	}

	runner := eval.NewRunner(nil, cfg.Model)
	runner.RunID = runID
	runner.PromptsDir = cfg.PromptsDir
	runner.OutputDir = cfg.OutputDir
	runner.OutputSuffix = cfg.OutputSuffix
	runner.Metrics = recorder
	runner.Client = &ai.RetryClient{
		Inner: client,
		Config: ai.RetryConfig{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   cfg.BaseDelay,
			MaxDelay:    cfg.MaxDelay,
			OnRetry:     runner.OnRetry,
		},
	}

	banner.PrintStartupBanner(runID, cfg.URL, cfg.Model, cfg.PromptsDir, cfg.OutputDir)

	summary, runErr := runner.Run(ctx)

	if prom != nil {
		if err := prom.WriteTextfile(cfg.MetricsFile); err != nil {
			logging.Warn("Failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	evaluated := 0
	if summary != nil {
		evaluated = summary.Evaluated
	}

	switch {
	case runErr == nil:
		banner.PrintCompletionBanner(summary.Evaluated, summary.Retries, int(summary.Duration.Seconds()))
		return exitcode.Success, nil
	case errors.Is(runErr, context.Canceled):
		banner.PrintInterruptedBanner(evaluated)
		return exitcode.Interrupted, runErr
	case summary == nil:
		return exitcode.Error, runErr
	default:
		banner.PrintFailureBanner(evaluated, runErr.Error())
		return exitcode.EvalFailed, runErr
	}
}
