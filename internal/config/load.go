package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PODSCRIPT"

// Default configuration values.
const (
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultModelName       = "gemini-2.5-pro"
	DefaultSpeechModelName = "gemini-2.5-flash-preview-tts"
	DefaultSampleRate      = 24000
	DefaultWorkerCount     = 2
	DefaultQueueSize       = 32

	DefaultTemperature           = 0.7
	DefaultMaxRetries            = 2
	DefaultInitialBackoffSeconds = 2.0
	DefaultRequestTimeoutSeconds = 300
)

// Load configuration from environment variables and an optional podscript.yaml
// in the working directory. Environment variables take precedence over values
// from config files.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from the YAML file at path, or from
// ./podscript.yaml when path is empty. A missing default file is not an error;
// a missing explicit file is.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("podscript")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", DefaultModelName)
	v.SetDefault("llm.temperature", DefaultTemperature)
	v.SetDefault("llm.max_retries", DefaultMaxRetries)
	v.SetDefault("llm.initial_backoff_seconds", DefaultInitialBackoffSeconds)
	v.SetDefault("llm.request_timeout_seconds", DefaultRequestTimeoutSeconds)
	v.SetDefault("llm.base_url", "")

	v.SetDefault("speech.model_name", DefaultSpeechModelName)
	v.SetDefault("speech.sample_rate", DefaultSampleRate)

	v.SetDefault("jobs.worker_count", DefaultWorkerCount)
	v.SetDefault("jobs.queue_size", DefaultQueueSize)
	v.SetDefault("jobs.database_url", "")
}
