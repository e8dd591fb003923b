package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/logger"
	"mrsummarizer/pkg/retry"
)

// AnthropicProvider generates summaries through the Anthropic Messages API.
type AnthropicProvider struct {
	client       anthropic.Client
	model        string
	maxFiles     int
	maxDiffLines int
	policy       retry.Policy
	log          logger.Logger
}

func NewAnthropicProvider(cfg config.SummarizerConfig, retryCfg config.RetryConfig, log logger.Logger) *AnthropicProvider {
	return &AnthropicProvider{
		client:       anthropic.NewClient(option.WithAPIKey(cfg.Anthropic.APIKey)),
		model:        cfg.Anthropic.Model,
		maxFiles:     cfg.MaxFiles,
		maxDiffLines: cfg.MaxDiffLines,
		policy: retry.Policy{
			MaxAttempts:     retryCfg.MaxAttempts,
			InitialInterval: retryCfg.InitialInterval,
			MaxInterval:     retryCfg.MaxInterval,
			Multiplier:      retryCfg.Multiplier,
		},
		log: log,
	}
}

func (p *AnthropicProvider) Name() string {
	return constants.ProviderNameAnthropic
}

func (p *AnthropicProvider) Summarize(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req, p.maxFiles, p.maxDiffLines)

	var response *anthropic.Message
	err := retry.Retry(ctx, p.policy, func() error {
		resp, apiErr := p.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(p.model),
			MaxTokens: 1024,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var summary strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			summary.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(summary.String())
	if text == "" {
		return "", fmt.Errorf("anthropic returned an empty summary")
	}
	return text, nil
}
