// Package eval runs every prompt file through a model client, one at a time,
// and writes each response to its own output file.
package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/CodexForgeBR/prompt-eval/internal/ai"
	"github.com/CodexForgeBR/prompt-eval/internal/logging"
	"github.com/CodexForgeBR/prompt-eval/internal/metrics"
	"github.com/CodexForgeBR/prompt-eval/internal/output"
	"github.com/CodexForgeBR/prompt-eval/internal/prompts"
)

// Summary describes a finished or aborted run.
type Summary struct {
	RunID     string
	Evaluated int
	Retries   int
	Outputs   []string
	Duration  time.Duration
}

// Runner evaluates the prompts in PromptsDir against Client.
type Runner struct {
	Client       ai.Client
	Model        string
	RunID        string
	PromptsDir   string
	OutputDir    string
	OutputSuffix string
	Metrics      metrics.Recorder

	retries int
}

// NewRunner creates a runner with the default directories and suffix.
func NewRunner(client ai.Client, model string) *Runner {
	return &Runner{
		Client:       client,
		Model:        model,
		PromptsDir:   prompts.DefaultDir,
		OutputDir:    output.DefaultDir,
		OutputSuffix: output.DefaultSuffix,
		Metrics:      metrics.Noop{},
	}
}

func (r *Runner) recorder() metrics.Recorder {
	if r.Metrics == nil {
		return metrics.Noop{}
	}
	return r.Metrics
}

// OnRetry logs a retry warning and records it. Install it as the
// ai.RetryConfig OnRetry hook of the client passed to the runner.
func (r *Runner) OnRetry(ev ai.RetryEvent) {
	r.retries++
	r.recorder().IncRetry(r.Model, ev.Kind.String())
	logging.Warn("Retrying model call",
		"operation", ev.Operation,
		"attempt", ev.Attempt,
		"delay", ev.Delay,
		"kind", ev.Kind.String(),
		"error", ev.Err,
	)
}

// Run processes prompts in sorted order. The first prompt that fails stops
// the run: no output is written for it and later prompts are not attempted.
// The returned summary is non-nil whenever discovery succeeded.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	r.retries = 0

	paths, err := prompts.Discover(r.PromptsDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logging.Warn("No prompt files found", "dir", r.PromptsDir)
	}

	summary := &Summary{RunID: r.RunID}
	finish := func() {
		summary.Retries = r.retries
		summary.Duration = time.Since(start)
	}
	defer finish()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		logging.Info("Evaluating", "prompt", path)
		outPath, err := r.evaluate(ctx, path)
		if err != nil {
			r.recorder().IncPrompt(r.Model, "failed")
			return summary, err
		}
		r.recorder().IncPrompt(r.Model, "ok")

		summary.Evaluated++
		summary.Outputs = append(summary.Outputs, outPath)
	}

	return summary, nil
}

func (r *Runner) evaluate(ctx context.Context, path string) (string, error) {
	p, err := prompts.Load(path)
	if err != nil {
		return "", err
	}
	logging.Debug("Loaded prompt", "prompt", p.Name, "bytes", len(p.Content), "sha256", p.Digest)

	callStart := time.Now()
	reply, err := r.Client.Complete(ctx, p.Content)
	r.recorder().ObserveCall(r.Model, time.Since(callStart).Seconds())
	if err != nil {
		return "", fmt.Errorf("evaluate %s: %w", p.Name, err)
	}

	outPath := output.Path(r.OutputDir, r.Model, p.Name, r.OutputSuffix)
	if err := output.Write(outPath, reply); err != nil {
		return "", err
	}
	logging.Info("Wrote response", "prompt", p.Name, "output", outPath, "bytes", len(reply))
	return outPath, nil
}
