package constants

import "time"

const (
	DefaultHTTPTimeout = 10 * time.Second
	DefaultLLMTimeout  = 2 * time.Minute
	ShutdownTimeout    = 5 * time.Second
)

const (
	DefaultPollIntervalSeconds = 60
	DefaultLookbackHours       = 24
	DefaultMaxPerCycle         = 50
	DefaultMailboxFolder       = "INBOX"
)

const (
	ProcessedMessagesKey = "processed_messages"
	DefaultKeyPrefix     = "mr_summarizer"
)

const (
	DedupeBackendFile  = "file"
	DedupeBackendRedis = "redis"
)

const (
	ProviderNameOllama    = "ollama"
	ProviderNameAnthropic = "anthropic"
)

const (
	DefaultMaxFiles         = 10
	DefaultMaxDiffLines     = 50
	DefaultSummaryMaxTokens = 500
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)
