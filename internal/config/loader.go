package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile applies the YAML config file at path onto cfg. The file is a
// flat mapping whose keys are the lower-cased whitelisted names (e.g.
// "max_attempts"); values are parsed exactly like environment and flag
// values, so durations accept "1.5s" as well as bare seconds. Keys absent
// from the file leave the corresponding fields untouched; unknown keys are
// an error. An empty file and null values are valid and change nothing.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := applyNode(cfg, &doc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// applyNode walks a decoded document and applies each key/value pair.
func applyNode(cfg *Config, doc *yaml.Node) error {
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of settings", root.Line)
	}

	var errs []error
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		name := strings.ToUpper(key.Value)
		if !whitelistSet[name] {
			errs = append(errs, fmt.Errorf("line %d: unknown key %q", key.Line, key.Value))
			continue
		}
		if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null" {
			continue
		}
		if value.Kind != yaml.ScalarNode {
			errs = append(errs, fmt.Errorf("line %d: %s must be a scalar", value.Line, key.Value))
			continue
		}
		if err := applyValue(cfg, name, value.Value); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %s: %w", value.Line, key.Value, err))
		}
	}
	return errors.Join(errs...)
}

// LoadEnv collects whitelisted settings from the environment using getenv.
// PROMPT_EVAL_<NAME> is read for every whitelisted name; OPENAI_API_KEY is
// used for API_KEY when PROMPT_EVAL_API_KEY is unset.
func LoadEnv(getenv func(string) string) map[string]string {
	result := make(map[string]string)
	for _, name := range WhitelistedVars {
		if v := getenv(EnvPrefix + name); v != "" {
			result[name] = v
		}
	}
	if _, ok := result["API_KEY"]; !ok {
		if v := getenv("OPENAI_API_KEY"); v != "" {
			result["API_KEY"] = v
		}
	}
	return result
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global config file (globalPath)
//  3. Project config file (projectPath)
//  4. Explicit config file (explicitPath)
//  5. Environment (env map, see LoadEnv)
//  6. CLI overrides (cliOverrides map)
//
// Any path that is empty is skipped. Missing global and project files are
// not an error; a missing explicit file is.
func LoadWithPrecedence(globalPath, projectPath, explicitPath string, env, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	// Layer 2: global config file.
	if globalPath != "" {
		if err := LoadFile(globalPath, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("global config: %w", err)
		}
	}

	// Layer 3: project config file.
	if projectPath != "" {
		if err := LoadFile(projectPath, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("project config: %w", err)
		}
	}

	// Layer 4: explicit config file (must exist if specified).
	if explicitPath != "" {
		if err := LoadFile(explicitPath, cfg); err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
	}

	// Layer 5: environment.
	if err := ApplyMapToConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	// Layer 6: CLI overrides (highest priority).
	if err := ApplyMapToConfig(cfg, cliOverrides); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys use the WhitelistedVars naming convention (e.g., "MAX_ATTEMPTS").
// Unknown keys are silently ignored. Values that fail to parse are reported
// together and leave the previous value in place.
func ApplyMapToConfig(cfg *Config, m map[string]string) error {
	var errs []error
	for key, value := range m {
		if !whitelistSet[key] {
			continue
		}
		if err := applyValue(cfg, key, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func applyValue(cfg *Config, key, value string) error {
	switch key {
	case "API_KEY":
		cfg.APIKey = value
	case "SYSTEM_PROMPT":
		cfg.SystemPrompt = value
	case "PROMPTS_DIR":
		cfg.PromptsDir = value
	case "OUTPUT_DIR":
		cfg.OutputDir = value
	case "OUTPUT_SUFFIX":
		cfg.OutputSuffix = value
	case "METRICS_FILE":
		cfg.MetricsFile = value
	case "VERBOSE":
		cfg.Verbose = parseBool(value)
	case "MAX_TOKENS":
		return setInt(&cfg.MaxTokens, value)
	case "MAX_ATTEMPTS":
		return setInt(&cfg.MaxAttempts, value)
	case "REQUEST_TIMEOUT":
		return setDuration(&cfg.RequestTimeout, value)
	case "BASE_DELAY":
		return setDuration(&cfg.BaseDelay, value)
	case "MAX_DELAY":
		return setDuration(&cfg.MaxDelay, value)
	}
	return nil
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*dst = v
	return nil
}

// setDuration accepts Go duration strings ("1.5s", "2m") or bare seconds ("10").
func setDuration(dst *time.Duration, value string) error {
	value = strings.TrimSpace(value)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value)
	}
	*dst = d
	return nil
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
