package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultModel         = "gpt-3.5-turbo"
	DefaultMaxTokens     = 500
	DefaultTemperature   = 0.7
	DefaultUploadField   = "image"
)

type Config struct {
	Host string
	Port string

	OpenAIAPIKey       string
	OpenAIBaseURL      string
	Model              string
	MaxTokens          int
	Temperature        float64
	UploadField        string
	MaxRequestBodySize int64

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	LogLevel       string
	MetricsEnabled bool
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none are
// given) into the process environment. Variables already set win.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// IsMissingDotEnv reports whether err came from LoadDotEnv not finding a file.
func IsMissingDotEnv(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// Load resolves the configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("OPENAI_BASE_URL", DefaultOpenAIBaseURL)
	v.SetDefault("OPENAI_MODEL", DefaultModel)
	v.SetDefault("OPENAI_MAX_TOKENS", DefaultMaxTokens)
	v.SetDefault("OPENAI_TEMPERATURE", DefaultTemperature)
	v.SetDefault("UPLOAD_FIELD", DefaultUploadField)
	v.SetDefault("MAX_REQUEST_BODY_SIZE", 0) // unlimited
	v.SetDefault("READ_HEADER_TIMEOUT", 10*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ENABLED", true)

	cfg := &Config{
		Host:               v.GetString("HOST"),
		Port:               v.GetString("PORT"),
		OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:      strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		Model:              v.GetString("OPENAI_MODEL"),
		MaxTokens:          v.GetInt("OPENAI_MAX_TOKENS"),
		Temperature:        v.GetFloat64("OPENAI_TEMPERATURE"),
		UploadField:        strings.TrimSpace(v.GetString("UPLOAD_FIELD")),
		MaxRequestBodySize: v.GetInt64("MAX_REQUEST_BODY_SIZE"),
		ReadHeaderTimeout:  v.GetDuration("READ_HEADER_TIMEOUT"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default its way out of.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.OpenAIBaseURL == "" {
		return fmt.Errorf("OPENAI_BASE_URL must not be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be > 0 (got %d)", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("OPENAI_TEMPERATURE must be within [0, 2] (got %g)", c.Temperature)
	}
	if c.UploadField == "" {
		return fmt.Errorf("UPLOAD_FIELD must not be empty")
	}
	if c.MaxRequestBodySize < 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be >= 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.ReadHeaderTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got read_header=%s, shutdown=%s)",
			c.ReadHeaderTimeout, c.ShutdownTimeout)
	}
	return nil
}
