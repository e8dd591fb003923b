package summarize

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedProvider bounds the request rate to the summarization backend.
// Waiting respects the caller's context, so shutdown is not held up by a
// queued request.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (p *RateLimitedProvider) Name() string {
	return p.provider.Name()
}

func (p *RateLimitedProvider) Summarize(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait aborted: %w", err)
	}
	return p.provider.Summarize(ctx, req)
}
