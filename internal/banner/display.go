// Package banner provides colored banner display functions for the prompt-eval CLI.
//
// All banner functions write formatted output to stdout with color-coded headers
// and separators. Logs go to stderr, so stdout carries only these run summaries.
package banner

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/prompt-eval/internal/logging"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

const rule = "═══════════════════════════════════════════════════"

// PrintStartupBanner displays the startup banner with run info.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  prompt-eval - Batch Prompt Evaluation
//	═══════════════════════════════════════════════════
//	  Run:        3f0c9e1a-...
//	  Endpoint:   http://localhost:8000/v1
//	  Model:      llama3
//	  Prompts:    tests
//	  Output:     output
//	═══════════════════════════════════════════════════
func PrintStartupBanner(runID, endpoint, model, promptsDir, outputDir string) {
	sep := headerColor(rule)
	fmt.Println(sep)
	fmt.Println(headerColor("  prompt-eval - Batch Prompt Evaluation"))
	fmt.Println(sep)
	fmt.Printf("  Run:        %s\n", runID)
	fmt.Printf("  Endpoint:   %s\n", endpoint)
	fmt.Printf("  Model:      %s\n", model)
	fmt.Printf("  Prompts:    %s\n", promptsDir)
	fmt.Printf("  Output:     %s\n", outputDir)
	fmt.Println(sep)
}

// PrintCompletionBanner displays the completion banner with stats.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ All prompts evaluated
//	  Prompts:    12
//	  Retries:    3
//	  Duration:   4m 10s (250s)
//	═══════════════════════════════════════════════════
func PrintCompletionBanner(evaluated, retries, durationSecs int) {
	sep := successColor(rule)
	fmt.Println(sep)
	fmt.Println(successColor("  ✓ All prompts evaluated"))
	fmt.Printf("  Prompts:    %d\n", evaluated)
	fmt.Printf("  Retries:    %d\n", retries)
	fmt.Printf("  Duration:   %s (%ds)\n", logging.FormatDuration(durationSecs), durationSecs)
	fmt.Println(sep)
}

// PrintFailureBanner displays the failure banner after a prompt could not
// be evaluated. Outputs written before the failure are kept.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ EVALUATION FAILED
//	═══════════════════════════════════════════════════
//	  Completed:  4
//	  Reason:
//	  evaluate e.txt: auth: 401 Unauthorized
//	═══════════════════════════════════════════════════
func PrintFailureBanner(evaluated int, reason string) {
	sep := errorColor(rule)
	fmt.Println(sep)
	fmt.Println(errorColor("  ✗ EVALUATION FAILED"))
	fmt.Println(sep)
	fmt.Printf("  Completed:  %d\n", evaluated)
	fmt.Println("  Reason:")
	fmt.Printf("  %s\n", reason)
	fmt.Println(sep)
}

// PrintInterruptedBanner displays when the run is interrupted by a signal.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ⚠ Run interrupted
//	  Completed:  4
//	  Re-run to evaluate the remaining prompts
//	═══════════════════════════════════════════════════
func PrintInterruptedBanner(evaluated int) {
	sep := warnColor(rule)
	fmt.Println(sep)
	fmt.Println(warnColor("  ⚠ Run interrupted"))
	fmt.Printf("  Completed:  %d\n", evaluated)
	fmt.Println("  Re-run to evaluate the remaining prompts")
	fmt.Println(sep)
}
