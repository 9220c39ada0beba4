package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/tradierkit/tradier/api"
	"github.com/tradierkit/tradier/utils/log"
)

const (
	envToken     = "TRADIER_TOKEN"
	envAccountID = "TRADIER_ACCOUNT_ID"
	envSandbox   = "TRADIER_SANDBOX"
	envLogLevel  = "TRADIER_LOG_LEVEL"

	defaultTimeout = 10 * time.Second
	defaultSink    = "stdout"
)

// Config is the YAML configuration of the tradier CLI.
type Config struct {
	Token       string        `yaml:"token" validate:"required"`
	AccountID   string        `yaml:"account_id"`
	Sandbox     bool          `yaml:"sandbox"`
	BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
	StreamURL   string        `yaml:"stream_url" validate:"omitempty,url"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	LogLevel    string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error fatal disabled"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Sink        SinkConfig    `yaml:"sink"`
}

// SinkConfig selects where streamed events are forwarded.
type SinkConfig struct {
	Type    string   `yaml:"type" validate:"oneof=stdout nats kafka redis"`
	URL     string   `yaml:"url" validate:"required_if=Type nats,required_if=Type redis"`
	Brokers []string `yaml:"brokers" validate:"required_if=Type kafka"`
	Topic   string   `yaml:"topic" validate:"required_if=Type kafka"`
	Subject string   `yaml:"subject"`
}

var validate = validator.New()

// ParseConfig parses YAML, applies environment overrides and defaults, and
// validates the result. The log level is applied to the global logger.
func ParseConfig(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse the config file")
	}

	if err := envOverride(c); err != nil {
		return nil, err
	}

	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Sink.Type == "" {
		c.Sink.Type = defaultSink
	}

	if err := validate.Struct(c); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	return c, nil
}

// LoadConfig reads a .env file from the working directory when present,
// then parses path. An empty path builds the config from the environment
// alone.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, errors.Wrap(err, "failed to load .env")
		}
	}

	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read configuration file %s", path)
		}
		data = b
	}
	return ParseConfig(data)
}

// ClientConfig returns the REST client configuration.
func (c *Config) ClientConfig() api.Config {
	return api.Config{
		Token:     c.Token,
		AccountID: c.AccountID,
		Sandbox:   c.Sandbox,
		BaseURL:   c.BaseURL,
		StreamURL: c.StreamURL,
		Timeout:   c.Timeout,
	}
}

func envOverride(c *Config) error {
	if v := os.Getenv(envToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(envAccountID); v != "" {
		c.AccountID = v
	}
	if v := os.Getenv(envSandbox); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s=%q", envSandbox, v)
		}
		c.Sandbox = b
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}
