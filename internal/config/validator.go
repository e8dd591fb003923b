package config

import (
	"errors"
	"fmt"
	"strings"

	"mrsummarizer/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateStatic checks the whole configuration and reports every violation,
// not just the first one, so a misconfigured deployment can be fixed in one
// round trip.
func ValidateStatic(cfg *Config) error {
	var errs []error

	errs = append(errs, validateServer(cfg.Server)...)
	errs = append(errs, validateMailbox(cfg.Mailbox)...)
	errs = append(errs, validateCodeHost(cfg.CodeHost)...)
	errs = append(errs, validateSummarizer(cfg.Summarizer)...)
	errs = append(errs, validatePoller(cfg.Poller)...)
	errs = append(errs, validatePipeline(cfg.Pipeline)...)
	errs = append(errs, validateDedupe(cfg.Dedupe)...)
	errs = append(errs, validateRetry(cfg.Retry)...)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateServer(cfg ServerConfig) []error {
	var errs []error

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		})
	}

	return errs
}

func validateMailbox(cfg MailboxConfig) []error {
	var errs []error

	if cfg.Host == "" {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.host",
			Message: "mailbox host is required",
		})
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		})
	}

	if cfg.Username == "" {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.username",
			Message: "mailbox username is required",
		})
	}

	if cfg.Password == "" {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.password",
			Message: "mailbox password is required",
		})
	}

	if cfg.SenderFilter == "" {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.sender_filter",
			Message: "sender filter is required",
		})
	}

	if cfg.LookbackHours <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.lookback_hours",
			Message: "lookback window must be positive",
		})
	}

	if cfg.MaxPerCycle <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "mailbox.max_per_cycle",
			Message: "per-cycle message cap must be positive",
		})
	}

	return errs
}

func validateCodeHost(cfg CodeHostConfig) []error {
	var errs []error

	if cfg.BaseURL == "" {
		errs = append(errs, &ValidationError{
			Field:   "codehost.base_url",
			Message: "code host base URL is required",
		})
	} else if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		errs = append(errs, &ValidationError{
			Field:   "codehost.base_url",
			Message: "code host base URL must start with http:// or https://",
		})
	}

	if cfg.Token == "" {
		errs = append(errs, &ValidationError{
			Field:   "codehost.token",
			Message: "code host API token is required",
		})
	}

	return errs
}

func validateSummarizer(cfg SummarizerConfig) []error {
	var errs []error

	switch cfg.Provider {
	case constants.ProviderNameOllama:
		if cfg.Ollama.BaseURL == "" {
			errs = append(errs, &ValidationError{
				Field:   "summarizer.ollama.base_url",
				Message: "ollama base URL is required",
			})
		}
		if cfg.Ollama.Model == "" {
			errs = append(errs, &ValidationError{
				Field:   "summarizer.ollama.model",
				Message: "ollama model is required",
			})
		}
	case constants.ProviderNameAnthropic:
		if cfg.Anthropic.APIKey == "" {
			errs = append(errs, &ValidationError{
				Field:   "summarizer.anthropic.api_key",
				Message: "anthropic API key is required",
			})
		}
		if cfg.Anthropic.Model == "" {
			errs = append(errs, &ValidationError{
				Field:   "summarizer.anthropic.model",
				Message: "anthropic model is required",
			})
		}
	default:
		errs = append(errs, &ValidationError{
			Field:   "summarizer.provider",
			Message: fmt.Sprintf("unknown provider: %s (supported: ollama, anthropic)", cfg.Provider),
		})
	}

	if cfg.MaxFiles < 0 {
		errs = append(errs, &ValidationError{
			Field:   "summarizer.max_files",
			Message: "max_files must be non-negative",
		})
	}

	if cfg.MaxDiffLines < 0 {
		errs = append(errs, &ValidationError{
			Field:   "summarizer.max_diff_lines",
			Message: "max_diff_lines must be non-negative",
		})
	}

	if cfg.RPS < 0 {
		errs = append(errs, &ValidationError{
			Field:   "summarizer.rps",
			Message: "rps must be non-negative",
		})
	}

	return errs
}

func validatePoller(cfg PollerConfig) []error {
	var errs []error

	if cfg.IntervalSeconds <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "poller.interval_seconds",
			Message: "poll interval must be positive",
		})
	}

	if len(cfg.Markers) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "poller.markers",
			Message: "at least one classification marker is required",
		})
	}

	for i, marker := range cfg.Markers {
		if strings.TrimSpace(marker) == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("poller.markers[%d]", i),
				Message: "marker cannot be empty",
			})
		}
	}

	return errs
}

func validatePipeline(cfg PipelineConfig) []error {
	var errs []error

	if len(cfg.AllowedStates) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "pipeline.allowed_states",
			Message: "at least one allowed work-item state is required",
		})
	}

	if cfg.QueueCapacity <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "pipeline.queue_capacity",
			Message: "queue capacity must be positive",
		})
	}

	return errs
}

func validateDedupe(cfg DedupeConfig) []error {
	var errs []error

	switch cfg.Backend {
	case constants.DedupeBackendFile:
		if cfg.FilePath == "" {
			errs = append(errs, &ValidationError{
				Field:   "dedupe.file_path",
				Message: "file path is required for the file backend",
			})
		}
	case constants.DedupeBackendRedis:
		if cfg.Redis.Host == "" {
			errs = append(errs, &ValidationError{
				Field:   "dedupe.redis.host",
				Message: "redis host is required for the redis backend",
			})
		}
		if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
			errs = append(errs, &ValidationError{
				Field:   "dedupe.redis.port",
				Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Redis.Port),
			})
		}
		if cfg.FilePath == "" {
			errs = append(errs, &ValidationError{
				Field:   "dedupe.file_path",
				Message: "file path is required as the fallback for the redis backend",
			})
		}
	default:
		errs = append(errs, &ValidationError{
			Field:   "dedupe.backend",
			Message: fmt.Sprintf("unknown backend: %s (supported: file, redis)", cfg.Backend),
		})
	}

	return errs
}

func validateRetry(cfg RetryConfig) []error {
	var errs []error

	if cfg.MaxAttempts < 1 {
		errs = append(errs, &ValidationError{
			Field:   "retry.max_attempts",
			Message: "max_attempts must be at least 1",
		})
	}

	if cfg.InitialInterval < 0 {
		errs = append(errs, &ValidationError{
			Field:   "retry.initial_interval",
			Message: "initial_interval must be non-negative",
		})
	}

	if cfg.MaxInterval > 0 && cfg.InitialInterval > 0 && cfg.MaxInterval < cfg.InitialInterval {
		errs = append(errs, &ValidationError{
			Field:   "retry.max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		})
	}

	if cfg.Multiplier <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "retry.multiplier",
			Message: "multiplier must be positive",
		})
	}

	return errs
}
