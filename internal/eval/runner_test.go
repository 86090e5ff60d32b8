package eval

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/prompt-eval/internal/ai"
	"github.com/CodexForgeBR/prompt-eval/internal/logging"
)

func init() {
	color.NoColor = true
}

// fakeClient answers every prompt with "answer: <prompt>", failing first
// with the queued errors.
type fakeClient struct {
	errs    []error
	prompts []string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.prompts) <= len(f.errs) {
		return "", f.errs[len(f.prompts)-1]
	}
	return "answer: " + prompt, nil
}

// countingRecorder tallies events by label.
type countingRecorder struct {
	retries map[string]int
	prompts map[string]int
	calls   int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{retries: map[string]int{}, prompts: map[string]int{}}
}

func (c *countingRecorder) IncRetry(_, kind string)     { c.retries[kind]++ }
func (c *countingRecorder) IncPrompt(_, status string)  { c.prompts[status]++ }
func (c *countingRecorder) ObserveCall(string, float64) { c.calls++ }

// setup creates a prompts dir holding files and an empty output dir path.
func setup(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	root := t.TempDir()
	promptsDir := filepath.Join(root, "tests")
	require.NoError(t, os.MkdirAll(promptsDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(promptsDir, name), []byte(content), 0o644))
	}
	return promptsDir, filepath.Join(root, "output")
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })
	return &buf
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// retrying wraps client in an ai.RetryClient that never actually sleeps.
func retrying(r *Runner, client ai.Client, maxAttempts int) ai.Client {
	return &ai.RetryClient{
		Inner: client,
		Config: ai.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   time.Second,
			MaxDelay:    10 * time.Second,
			OnRetry:     r.OnRetry,
			Sleep:       func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
		},
	}
}

func TestRun_WritesOneFilePerPrompt(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	client := &fakeClient{}
	r := NewRunner(client, "llama3")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir
	r.OutputSuffix = ""

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"llama3-a.txt", "llama3-b.txt"}, listDir(t, outDir))
	assert.Equal(t, "answer: alpha", readFile(t, filepath.Join(outDir, "llama3-a.txt")))
	assert.Equal(t, "answer: beta", readFile(t, filepath.Join(outDir, "llama3-b.txt")))
	assert.Equal(t, []string{"alpha", "beta"}, client.prompts, "prompts should be sent in sorted order")
	assert.Equal(t, 2, summary.Evaluated)
	assert.Equal(t, 0, summary.Retries)
}

func TestRun_DefaultSuffix(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	r := NewRunner(&fakeClient{}, "llama3")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"llama3-a.txt.md", "llama3-b.txt.md"}, listDir(t, outDir))
	assert.Equal(t, []string{
		filepath.Join(outDir, "llama3-a.txt.md"),
		filepath.Join(outDir, "llama3-b.txt.md"),
	}, summary.Outputs)
}

func TestRun_TimeoutTwiceThenSuccess(t *testing.T) {
	logs := captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha"})

	client := &fakeClient{errs: []error{os.ErrDeadlineExceeded, os.ErrDeadlineExceeded}}
	rec := newCountingRecorder()
	r := NewRunner(nil, "llama3")
	r.Client = retrying(r, client, 5)
	r.PromptsDir = promptsDir
	r.OutputDir = outDir
	r.OutputSuffix = ""
	r.Metrics = rec

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "answer: alpha", readFile(t, filepath.Join(outDir, "llama3-a.txt")))
	assert.Equal(t, 2, strings.Count(logs.String(), "[WARN] Retrying model call"))
	assert.Contains(t, logs.String(), `"attempt": 1`)
	assert.Contains(t, logs.String(), `"attempt": 2`)
	assert.Contains(t, logs.String(), `"operation": "complete"`)
	assert.Equal(t, 2, summary.Retries)
	assert.Equal(t, map[string]int{"timeout": 2}, rec.retries)
	assert.Equal(t, 1, rec.calls)
}

func TestRun_PermanentFailureStopsBatch(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	authErr := ai.Errorf(ai.KindAuth, "invalid api key")
	client := &fakeClient{errs: []error{authErr}}
	r := NewRunner(nil, "llama3")
	r.Client = retrying(r, client, 5)
	r.PromptsDir = promptsDir
	r.OutputDir = outDir

	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, authErr)
	assert.Contains(t, err.Error(), "a.txt")
	assert.Equal(t, []string{"alpha"}, client.prompts, "later prompts must not be attempted")
	assert.Equal(t, 0, summary.Evaluated)
	assert.NoDirExists(t, outDir)
}

func TestRun_ExhaustedRetriesStopsBatch(t *testing.T) {
	logs := captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	client := &fakeClient{errs: []error{
		os.ErrDeadlineExceeded, os.ErrDeadlineExceeded, os.ErrDeadlineExceeded,
	}}
	r := NewRunner(nil, "llama3")
	r.Client = retrying(r, client, 3)
	r.PromptsDir = promptsDir
	r.OutputDir = outDir

	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrDeadlineExceeded)
	assert.Len(t, client.prompts, 3)
	assert.Equal(t, 2, strings.Count(logs.String(), "Retrying model call"))
	assert.Equal(t, 2, summary.Retries)
	assert.NoDirExists(t, outDir)
}

func TestRun_SecondPromptFailsKeepsFirstOutput(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	calls := 0
	client := ai.ClientFunc(func(_ context.Context, prompt string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("malformed response")
		}
		return "ok", nil
	})
	r := NewRunner(client, "m")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir
	r.OutputSuffix = ""

	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"m-a.txt"}, listDir(t, outDir))
	assert.Equal(t, 1, summary.Evaluated)
}

func TestRun_EmptyPromptsDir(t *testing.T) {
	logs := captureLogs(t)
	promptsDir, outDir := setup(t, nil)

	r := NewRunner(&fakeClient{}, "m")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir

	summary, err := r.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Evaluated)
	assert.Contains(t, logs.String(), "No prompt files found")
}

func TestRun_MissingPromptsDir(t *testing.T) {
	captureLogs(t)
	r := NewRunner(&fakeClient{}, "m")
	r.PromptsDir = filepath.Join(t.TempDir(), "missing")

	summary, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestRun_CancelledContext(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha"})

	client := &fakeClient{}
	r := NewRunner(client, "m")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.prompts)
}

func TestRun_RecordsPromptMetrics(t *testing.T) {
	captureLogs(t)
	promptsDir, outDir := setup(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	rec := newCountingRecorder()
	r := NewRunner(&fakeClient{}, "m")
	r.PromptsDir = promptsDir
	r.OutputDir = outDir
	r.Metrics = rec

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"ok": 2}, rec.prompts)
	assert.Equal(t, 2, rec.calls)
}
