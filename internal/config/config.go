// Package config loads runtime configuration from environment variables,
// optionally overlaid with a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider selects the backing model API.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Model client
	Provider        Provider      `yaml:"provider"`
	Model           string        `yaml:"model"`
	OllamaHost      string        `yaml:"ollama_host"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	RetryAttempts   int           `yaml:"retry_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	CallTimeout     time.Duration `yaml:"call_timeout"`

	// Video processing
	SampleFPS        float64       `yaml:"sample_fps"`
	MaxVideoDuration time.Duration `yaml:"max_video_duration"`
	MaxFrames        int           `yaml:"max_frames"`

	// Chat agent
	MemoryWindow int `yaml:"memory_window"`

	// API server
	APIHost string `yaml:"api_host"`
	APIPort string `yaml:"api_port"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"log_level"`
}

// Load reads configuration from environment variables. Defaults match the
// local Ollama + LLaVA setup the system was built around.
func Load() Config {
	return Config{
		Provider:        Provider(getEnv("CLIGUE_PROVIDER", "ollama")),
		Model:           getEnv("CLIGUE_MODEL", "llava:7b"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		RetryAttempts:   getEnvInt("CLIGUE_RETRY_ATTEMPTS", 3),
		RetryDelay:      getEnvDuration("CLIGUE_RETRY_DELAY", time.Second),
		CallTimeout:     getEnvDuration("CLIGUE_CALL_TIMEOUT", 2*time.Minute),

		SampleFPS:        getEnvFloat("CLIGUE_SAMPLE_FPS", 1.0),
		MaxVideoDuration: getEnvDuration("CLIGUE_MAX_VIDEO_DURATION", 2*time.Minute),
		MaxFrames:        getEnvInt("CLIGUE_MAX_FRAMES", 50),

		MemoryWindow: getEnvInt("CLIGUE_MEMORY_WINDOW", 10),

		APIHost: getEnv("CLIGUE_API_HOST", "0.0.0.0"),
		APIPort: getEnv("CLIGUE_API_PORT", "8000"),

		LogFile:  getEnv("CLIGUE_LOG_FILE", ""),
		LogLevel: parseLogLevel(getEnv("CLIGUE_LOG_LEVEL", "INFO")),
	}
}

// LoadFile overlays YAML file values onto cfg. Only keys present in the
// file are applied; everything else keeps its current value.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// UnmarshalYAML applies only the keys present in the document, leaving the
// rest of the config untouched. Duration keys take "90s"-style strings, which
// yaml cannot decode into time.Duration directly.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Provider         *string  `yaml:"provider"`
		Model            *string  `yaml:"model"`
		OllamaHost       *string  `yaml:"ollama_host"`
		OpenAIAPIKey     *string  `yaml:"openai_api_key"`
		AnthropicAPIKey  *string  `yaml:"anthropic_api_key"`
		RetryAttempts    *int     `yaml:"retry_attempts"`
		RetryDelay       *string  `yaml:"retry_delay"`
		CallTimeout      *string  `yaml:"call_timeout"`
		SampleFPS        *float64 `yaml:"sample_fps"`
		MaxVideoDuration *string  `yaml:"max_video_duration"`
		MaxFrames        *int     `yaml:"max_frames"`
		MemoryWindow     *int     `yaml:"memory_window"`
		APIHost          *string  `yaml:"api_host"`
		APIPort          *string  `yaml:"api_port"`
		LogFile          *string  `yaml:"log_file"`
		LogLevel         *string  `yaml:"log_level"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	setString := func(dst *string, val *string) {
		if val != nil {
			*dst = *val
		}
	}
	setInt := func(dst *int, val *int) {
		if val != nil {
			*dst = *val
		}
	}
	setDuration := func(dst *time.Duration, key string, val *string) error {
		if val == nil {
			return nil
		}
		d, err := time.ParseDuration(*val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	if raw.Provider != nil {
		c.Provider = Provider(*raw.Provider)
	}
	setString(&c.Model, raw.Model)
	setString(&c.OllamaHost, raw.OllamaHost)
	setString(&c.OpenAIAPIKey, raw.OpenAIAPIKey)
	setString(&c.AnthropicAPIKey, raw.AnthropicAPIKey)
	setInt(&c.RetryAttempts, raw.RetryAttempts)
	if err := setDuration(&c.RetryDelay, "retry_delay", raw.RetryDelay); err != nil {
		return err
	}
	if err := setDuration(&c.CallTimeout, "call_timeout", raw.CallTimeout); err != nil {
		return err
	}
	if raw.SampleFPS != nil {
		c.SampleFPS = *raw.SampleFPS
	}
	if err := setDuration(&c.MaxVideoDuration, "max_video_duration", raw.MaxVideoDuration); err != nil {
		return err
	}
	setInt(&c.MaxFrames, raw.MaxFrames)
	setInt(&c.MemoryWindow, raw.MemoryWindow)
	setString(&c.APIHost, raw.APIHost)
	setString(&c.APIPort, raw.APIPort)
	setString(&c.LogFile, raw.LogFile)
	if raw.LogLevel != nil {
		c.LogLevel = parseLogLevel(*raw.LogLevel)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
