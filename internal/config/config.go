// Package config defines the prompt-eval configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < environment < CLI flag overrides.
package config

import "time"

// WhitelistedVars lists every configuration variable name accepted from the
// environment (with the EnvPrefix), from CLI overrides, and, lower-cased,
// as config file keys. Unknown environment and override names are silently
// ignored; unknown file keys are an error.
var WhitelistedVars = [12]string{
	"API_KEY",
	"SYSTEM_PROMPT",
	"REQUEST_TIMEOUT",
	"MAX_TOKENS",
	"PROMPTS_DIR",
	"OUTPUT_DIR",
	"OUTPUT_SUFFIX",
	"MAX_ATTEMPTS",
	"BASE_DELAY",
	"MAX_DELAY",
	"METRICS_FILE",
	"VERBOSE",
}

// EnvPrefix is prepended to a whitelisted name to form its environment variable.
const EnvPrefix = "PROMPT_EVAL_"

// ProjectFile is the config file picked up from the working directory.
const ProjectFile = "prompt-eval.yaml"

// Config holds every configuration field for the prompt-eval CLI.
type Config struct {
	// Positional arguments.
	URL   string
	Model string

	// Model client settings.
	APIKey         string
	SystemPrompt   string
	RequestTimeout time.Duration
	MaxTokens      int

	// File locations.
	PromptsDir   string
	OutputDir    string
	OutputSuffix string

	// Retry policy.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Observability.
	MetricsFile string
	Verbose     bool

	// CLI-only flags (not loaded from config files or the environment).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		RequestTimeout: 10 * time.Minute,
		PromptsDir:     "tests",
		OutputDir:      "output",
		OutputSuffix:   ".md",
		MaxAttempts:    500,
		BaseDelay:      1 * time.Second,
		MaxDelay:       10 * time.Second,
	}
}
