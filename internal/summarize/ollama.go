package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/logger"
	apperrors "mrsummarizer/pkg/errors"
	"mrsummarizer/pkg/retry"
)

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// OllamaProvider generates summaries through a local Ollama instance.
type OllamaProvider struct {
	baseURL      string
	model        string
	maxFiles     int
	maxDiffLines int
	client       *http.Client
	policy       retry.Policy
	log          logger.Logger
}

func NewOllamaProvider(cfg config.SummarizerConfig, retryCfg config.RetryConfig, log logger.Logger) *OllamaProvider {
	return &OllamaProvider{
		baseURL:      strings.TrimRight(cfg.Ollama.BaseURL, "/"),
		model:        cfg.Ollama.Model,
		maxFiles:     cfg.MaxFiles,
		maxDiffLines: cfg.MaxDiffLines,
		client: &http.Client{
			Timeout: constants.DefaultLLMTimeout,
		},
		policy: retry.Policy{
			MaxAttempts:     retryCfg.MaxAttempts,
			InitialInterval: retryCfg.InitialInterval,
			MaxInterval:     retryCfg.MaxInterval,
			Multiplier:      retryCfg.Multiplier,
		},
		log: log,
	}
}

func (p *OllamaProvider) Name() string {
	return constants.ProviderNameOllama
}

func (p *OllamaProvider) Summarize(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req, p.maxFiles, p.maxDiffLines)

	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: 0.7,
			NumPredict:  constants.DefaultSummaryMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	var summary string
	err = retry.Retry(ctx, p.policy, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(payload))
		if err != nil {
			return retry.NewFatalError(fmt.Errorf("failed to create request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("ollama request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return apperrors.FromHTTPStatus(resp.StatusCode,
				fmt.Sprintf("ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}

		var generated ollamaGenerateResponse
		if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
			return retry.NewFatalError(fmt.Errorf("failed to decode ollama response: %w", err))
		}

		summary = strings.TrimSpace(generated.Response)
		return nil
	})
	if err != nil {
		return "", err
	}

	if summary == "" {
		return "", fmt.Errorf("ollama returned an empty summary")
	}
	return summary, nil
}
