package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
	Speech SpeechConfig `mapstructure:"speech" validate:"required"`
	Jobs   JobsConfig   `mapstructure:"jobs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains the structured generation settings.
type LLMConfig struct {
	GeminiAPIKey          string  `mapstructure:"gemini_api_key" validate:"required"`
	ModelName             string  `mapstructure:"model_name" validate:"required"`
	Temperature           float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`
	MaxRetries            int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	InitialBackoffSeconds float64 `mapstructure:"initial_backoff_seconds" validate:"gt=0"`
	RequestTimeoutSeconds float64 `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// BaseURL overrides the Gemini endpoint, e.g. for a proxy. Optional.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// SpeechConfig contains text-to-speech settings.
type SpeechConfig struct {
	ModelName  string `mapstructure:"model_name" validate:"required"`
	SampleRate int    `mapstructure:"sample_rate" validate:"required,gt=0"`
}

// JobsConfig sizes the background worker pool.
type JobsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`

	// DatabaseURL stores job records in PostgreSQL when set; otherwise they
	// are kept in memory.
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`
}
