// Package cli provides flag binding and validation for the prompt-eval CLI.
package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/prompt-eval/internal/config"
)

// overrideKeys maps each config-backed flag to its whitelisted config key.
var overrideKeys = map[string]string{
	"api-key":         "API_KEY",
	"system-prompt":   "SYSTEM_PROMPT",
	"request-timeout": "REQUEST_TIMEOUT",
	"max-tokens":      "MAX_TOKENS",
	"prompts-dir":     "PROMPTS_DIR",
	"output-dir":      "OUTPUT_DIR",
	"output-suffix":   "OUTPUT_SUFFIX",
	"max-attempts":    "MAX_ATTEMPTS",
	"base-delay":      "BASE_DELAY",
	"max-delay":       "MAX_DELAY",
	"metrics-file":    "METRICS_FILE",
	"verbose":         "VERBOSE",
}

// BindFlags registers the CLI flags on the given cobra command.
// The flags directly modify fields in the provided config pointer, using
// its current values as defaults. Call ValidateFlags after parsing to
// check the positional arguments and value ranges.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Model Client
	flags.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key sent as a bearer token (default: $OPENAI_API_KEY)")
	flags.StringVar(&cfg.SystemPrompt, "system-prompt", cfg.SystemPrompt, "System message sent before every prompt")
	flags.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout for a single model request")
	flags.IntVar(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, "Maximum completion tokens (0 leaves it to the server)")

	// Files
	flags.StringVar(&cfg.PromptsDir, "prompts-dir", cfg.PromptsDir, "Directory holding one prompt per file")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory receiving one response per prompt")
	flags.StringVar(&cfg.OutputSuffix, "output-suffix", cfg.OutputSuffix, "Suffix appended to every output file name")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to a YAML config file")

	// Retry Policy
	flags.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Maximum attempts per prompt, including the first")
	flags.DurationVar(&cfg.BaseDelay, "base-delay", cfg.BaseDelay, "Delay before the first retry")
	flags.DurationVar(&cfg.MaxDelay, "max-delay", cfg.MaxDelay, "Upper bound for the backoff delay")

	// Observability
	flags.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile on exit")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")
}

// BuildOverrides returns the config overrides for flags explicitly set on
// the command line. Flags left at their defaults are omitted so that file
// and environment values are not clobbered.
func BuildOverrides(cmd *cobra.Command) map[string]string {
	overrides := make(map[string]string)
	for name, key := range overrideKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}
	return overrides
}

// ValidateFlags checks the positional arguments and option values after the
// configuration chain has been applied.
func ValidateFlags(cfg *config.Config) error {
	if cfg.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be absolute, got: %s", cfg.URL)
	}
	if cfg.Model == "" {
		return fmt.Errorf("model is required")
	}

	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("--max-attempts must be at least 1, got: %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay < 0 {
		return fmt.Errorf("--base-delay must not be negative, got: %s", cfg.BaseDelay)
	}
	if cfg.MaxDelay < 0 {
		return fmt.Errorf("--max-delay must not be negative, got: %s", cfg.MaxDelay)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("--request-timeout must be positive, got: %s", cfg.RequestTimeout)
	}
	if cfg.MaxTokens < 0 {
		return fmt.Errorf("--max-tokens must not be negative, got: %d", cfg.MaxTokens)
	}
	if cfg.PromptsDir == "" {
		return fmt.Errorf("--prompts-dir must not be empty")
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("--output-dir must not be empty")
	}

	return nil
}
