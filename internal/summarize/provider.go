// Package summarize turns a work item's metadata and diff into a short
// human-readable summary via a language model backend.
package summarize

import (
	"context"
	"fmt"

	"mrsummarizer/internal/codehost"
	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/logger"
)

type Request struct {
	Title        string
	Description  string
	Changes      []codehost.Change
	SourceBranch string
	TargetBranch string
}

type Provider interface {
	Summarize(ctx context.Context, req Request) (string, error)
	Name() string
}

// NewProvider builds the configured backend, wrapped with a rate limiter
// when one is configured.
func NewProvider(cfg config.SummarizerConfig, retryCfg config.RetryConfig, log logger.Logger) (Provider, error) {
	var provider Provider

	switch cfg.Provider {
	case constants.ProviderNameOllama:
		provider = NewOllamaProvider(cfg, retryCfg, log)
	case constants.ProviderNameAnthropic:
		provider = NewAnthropicProvider(cfg, retryCfg, log)
	default:
		return nil, fmt.Errorf("unknown summarizer provider: %s", cfg.Provider)
	}

	if cfg.RPS > 0 {
		provider = NewRateLimitedProvider(provider, cfg.RPS, cfg.Burst)
	}

	return provider, nil
}
