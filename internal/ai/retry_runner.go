package ai

import "context"

// RetryClient wraps any Client with Retry logic.
type RetryClient struct {
	Inner  Client
	Config RetryConfig
}

// Complete delegates to the inner client, retrying transient failures.
func (r *RetryClient) Complete(ctx context.Context, prompt string) (string, error) {
	return Retry(ctx, r.Config, "complete", func(ctx context.Context) (string, error) {
		return r.Inner.Complete(ctx, prompt)
	})
}
