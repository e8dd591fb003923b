package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Mailbox: MailboxConfig{
			Host:          "imap.example.com",
			Port:          993,
			Username:      "bot@example.com",
			Password:      "secret",
			Folder:        "INBOX",
			SenderFilter:  "gitlab@example.com",
			LookbackHours: 24,
			MaxPerCycle:   50,
		},
		CodeHost: CodeHostConfig{
			BaseURL: "https://gitlab.example.com",
			Token:   "glpat-token",
		},
		Summarizer: SummarizerConfig{
			Provider: "ollama",
			Ollama: OllamaConfig{
				BaseURL: "http://localhost:11434",
				Model:   "codellama",
			},
			MaxFiles:     10,
			MaxDiffLines: 50,
		},
		Poller: PollerConfig{
			IntervalSeconds: 60,
			Markers:         []string{"was added as an assignee"},
		},
		Pipeline: PipelineConfig{
			AllowedStates: []string{"opened"},
			QueueCapacity: 100,
		},
		Dedupe: DedupeConfig{
			Backend:  "file",
			FilePath: ".processed_messages.json",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Second,
			MaxInterval:     30 * time.Second,
			Multiplier:      2.0,
		},
	}
}

func TestValidateStaticValidConfig(t *testing.T) {
	assert.NoError(t, ValidateStatic(validConfig()))
}

func TestValidateStaticReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Mailbox.Host = ""
	cfg.Mailbox.Password = ""
	cfg.CodeHost.Token = ""
	cfg.Poller.IntervalSeconds = 0

	err := ValidateStatic(cfg)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "mailbox.host")
	assert.Contains(t, msg, "mailbox.password")
	assert.Contains(t, msg, "codehost.token")
	assert.Contains(t, msg, "poller.interval_seconds")
}

func TestValidateStaticMailbox(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing host", func(c *Config) { c.Mailbox.Host = "" }, "mailbox.host"},
		{"bad port", func(c *Config) { c.Mailbox.Port = 0 }, "mailbox.port"},
		{"missing username", func(c *Config) { c.Mailbox.Username = "" }, "mailbox.username"},
		{"missing sender filter", func(c *Config) { c.Mailbox.SenderFilter = "" }, "mailbox.sender_filter"},
		{"non-positive lookback", func(c *Config) { c.Mailbox.LookbackHours = 0 }, "mailbox.lookback_hours"},
		{"non-positive cycle cap", func(c *Config) { c.Mailbox.MaxPerCycle = -1 }, "mailbox.max_per_cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateStaticCodeHost(t *testing.T) {
	cfg := validConfig()
	cfg.CodeHost.BaseURL = "gitlab.example.com"
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "codehost.base_url")
}

func TestValidateStaticSummarizerProviders(t *testing.T) {
	cfg := validConfig()
	cfg.Summarizer.Provider = "openai"
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizer.provider")

	cfg = validConfig()
	cfg.Summarizer.Provider = "anthropic"
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizer.anthropic.api_key")

	cfg = validConfig()
	cfg.Summarizer.Provider = "anthropic"
	cfg.Summarizer.Anthropic = AnthropicConfig{APIKey: "key", Model: "claude-sonnet-4-5"}
	assert.NoError(t, ValidateStatic(cfg))
}

func TestValidateStaticDedupe(t *testing.T) {
	cfg := validConfig()
	cfg.Dedupe.Backend = "memcached"
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedupe.backend")

	cfg = validConfig()
	cfg.Dedupe.Backend = "redis"
	cfg.Dedupe.Redis = RedisConfig{Port: 6379}
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedupe.redis.host")

	cfg = validConfig()
	cfg.Dedupe.Backend = "redis"
	cfg.Dedupe.FilePath = ""
	cfg.Dedupe.Redis = RedisConfig{Host: "localhost", Port: 6379}
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedupe.file_path")
}

func TestValidateStaticPipeline(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.AllowedStates = nil
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.allowed_states")

	cfg = validConfig()
	cfg.Pipeline.QueueCapacity = 0
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.queue_capacity")
}

func TestValidateStaticRetry(t *testing.T) {
	cfg := validConfig()
	cfg.Retry.MaxAttempts = 0
	err := ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry.max_attempts")

	cfg = validConfig()
	cfg.Retry.InitialInterval = time.Minute
	cfg.Retry.MaxInterval = time.Second
	err = ValidateStatic(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry.max_interval")
}
