package config

import (
	"time"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Mailbox        MailboxConfig        `mapstructure:"mailbox"`
	CodeHost       CodeHostConfig       `mapstructure:"codehost"`
	Summarizer     SummarizerConfig     `mapstructure:"summarizer"`
	Poller         PollerConfig         `mapstructure:"poller"`
	Pipeline       PipelineConfig       `mapstructure:"pipeline"`
	Dedupe         DedupeConfig         `mapstructure:"dedupe"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Retry          RetryConfig          `mapstructure:"retry"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MailboxConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Folder        string `mapstructure:"folder"`
	SenderFilter  string `mapstructure:"sender_filter"`
	LookbackHours int    `mapstructure:"lookback_hours"`
	MaxPerCycle   int    `mapstructure:"max_per_cycle"`
}

type CodeHostConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

type SummarizerConfig struct {
	Provider     string          `mapstructure:"provider"`
	Ollama       OllamaConfig    `mapstructure:"ollama"`
	Anthropic    AnthropicConfig `mapstructure:"anthropic"`
	MaxFiles     int             `mapstructure:"max_files"`
	MaxDiffLines int             `mapstructure:"max_diff_lines"`
	RPS          float64         `mapstructure:"rps"`
	Burst        int             `mapstructure:"burst"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type PollerConfig struct {
	IntervalSeconds int      `mapstructure:"interval_seconds"`
	Markers         []string `mapstructure:"markers"`
}

type PipelineConfig struct {
	AllowedStates []string `mapstructure:"allowed_states"`
	QueueCapacity int      `mapstructure:"queue_capacity"`
}

type DedupeConfig struct {
	Backend  string      `mapstructure:"backend"`
	FilePath string      `mapstructure:"file_path"`
	Redis    RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
