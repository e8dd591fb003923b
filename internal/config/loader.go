package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"mrsummarizer/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvVariables()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func bindEnvVariables() {
	viper.BindEnv("mailbox.host", "MAILBOX_HOST")
	viper.BindEnv("mailbox.port", "MAILBOX_PORT")
	viper.BindEnv("mailbox.username", "MAILBOX_USERNAME")
	viper.BindEnv("mailbox.password", "MAILBOX_PASSWORD")
	viper.BindEnv("mailbox.sender_filter", "MAILBOX_SENDER_FILTER")

	viper.BindEnv("codehost.base_url", "CODEHOST_BASE_URL")
	viper.BindEnv("codehost.token", "CODEHOST_TOKEN")

	viper.BindEnv("summarizer.provider", "SUMMARIZER_PROVIDER")
	viper.BindEnv("summarizer.ollama.base_url", "SUMMARIZER_OLLAMA_BASE_URL")
	viper.BindEnv("summarizer.ollama.model", "SUMMARIZER_OLLAMA_MODEL")
	viper.BindEnv("summarizer.anthropic.api_key", "SUMMARIZER_ANTHROPIC_API_KEY")
	viper.BindEnv("summarizer.anthropic.model", "SUMMARIZER_ANTHROPIC_MODEL")

	viper.BindEnv("dedupe.backend", "DEDUPE_BACKEND")
	viper.BindEnv("dedupe.file_path", "DEDUPE_FILE_PATH")
	viper.BindEnv("dedupe.redis.host", "DEDUPE_REDIS_HOST")
	viper.BindEnv("dedupe.redis.port", "DEDUPE_REDIS_PORT")
	viper.BindEnv("dedupe.redis.password", "DEDUPE_REDIS_PASSWORD")
	viper.BindEnv("dedupe.redis.db", "DEDUPE_REDIS_DB")

	viper.BindEnv("server.port", "SERVER_PORT")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("mailbox.port", 993)
	viper.SetDefault("mailbox.folder", constants.DefaultMailboxFolder)
	viper.SetDefault("mailbox.lookback_hours", constants.DefaultLookbackHours)
	viper.SetDefault("mailbox.max_per_cycle", constants.DefaultMaxPerCycle)

	viper.SetDefault("codehost.base_url", "https://gitlab.com")

	viper.SetDefault("summarizer.provider", constants.ProviderNameOllama)
	viper.SetDefault("summarizer.ollama.base_url", "http://localhost:11434")
	viper.SetDefault("summarizer.ollama.model", "codellama")
	viper.SetDefault("summarizer.max_files", constants.DefaultMaxFiles)
	viper.SetDefault("summarizer.max_diff_lines", constants.DefaultMaxDiffLines)

	viper.SetDefault("poller.interval_seconds", constants.DefaultPollIntervalSeconds)
	viper.SetDefault("poller.markers", []string{
		"was added as an assignee",
		"assigned you to merge request",
		"assigned merge request",
		"was added as a reviewer",
	})

	viper.SetDefault("pipeline.allowed_states", []string{"opened"})
	viper.SetDefault("pipeline.queue_capacity", 100)

	viper.SetDefault("dedupe.backend", constants.DedupeBackendFile)
	viper.SetDefault("dedupe.file_path", ".processed_messages.json")
	viper.SetDefault("dedupe.redis.port", 6379)
	viper.SetDefault("dedupe.redis.key_prefix", constants.DefaultKeyPrefix)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.initial_interval", "1s")
	viper.SetDefault("retry.max_interval", "30s")
	viper.SetDefault("retry.multiplier", 2.0)
}
