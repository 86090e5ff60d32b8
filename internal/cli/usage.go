// Package cli provides help text and usage formatting for the prompt-eval CLI.
package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `prompt-eval - Batch-evaluate prompt files against an OpenAI-compatible model server

USAGE
  prompt-eval <url> <model> [flags]

ARGUMENTS
  url                                      Base URL of the server, e.g. http://localhost:8000/v1
  model                                    Model name passed in every request

FLAGS
  Model Client:
    --api-key <key>                        API key sent as a bearer token (default: $OPENAI_API_KEY)
    --system-prompt <text>                 System message sent before every prompt (default: none)
    --request-timeout <duration>           Timeout for a single model request (default: 10m)
    --max-tokens <int>                     Maximum completion tokens (default: server decides)

  Files:
    --prompts-dir <path>                   Directory holding one prompt per file (default: tests)
    --output-dir <path>                    Directory receiving one response per prompt (default: output)
    --output-suffix <suffix>               Suffix appended to every output file name (default: .md)
    --config <path>                        Path to a YAML config file (default: ./prompt-eval.yaml if present)

  Retry Policy:
    --max-attempts <int>                   Maximum attempts per prompt, including the first (default: 500)
    --base-delay <duration>                Delay before the first retry (default: 1s)
    --max-delay <duration>                 Upper bound for the backoff delay (default: 10s)

  Observability:
    --metrics-file <path>                  Write Prometheus metrics to this textfile on exit
    -v, --verbose                          Enable debug logging

  Help & Version:
    -h, --help                             Show this help text
    --version                              Show version, commit, build date

ENVIRONMENT
  PROMPT_EVAL_<NAME>                       Any flag above, e.g. PROMPT_EVAL_MAX_ATTEMPTS=20
  OPENAI_API_KEY                           API key when PROMPT_EVAL_API_KEY is unset

  Precedence: defaults < ~/.config/prompt-eval/config.yaml < ./prompt-eval.yaml
              < --config file < environment < flags

EXIT CODES
  0   Success              Every prompt evaluated and written
  1   Error                Invalid arguments, unreadable config, misconfiguration
  2   EvalFailed           A prompt failed permanently or exhausted its retries
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Evaluate ./tests/* against a local vLLM server
  prompt-eval http://localhost:8000/v1 Qwen/Qwen2.5-7B-Instruct

  # Plain-text outputs, bounded retries
  prompt-eval http://localhost:11434/v1 llama3 --output-suffix "" --max-attempts 10

  # Export metrics for node_exporter's textfile collector
  prompt-eval http://localhost:8000/v1 mistral --metrics-file /var/lib/node_exporter/prompt-eval.prom

For more information, see: https://github.com/CodexForgeBR/prompt-eval
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
