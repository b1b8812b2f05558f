package store

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when neither the config file nor BASE_URL sets one.
const DefaultBaseURL = "https://farm-connect.amritagrotech.com/api"

type Config struct {
	BaseURL string `yaml:"base_url"`
	Stream  struct {
		Path             string `yaml:"path"`
		ReconnectDelayMs int    `yaml:"reconnect_delay_ms"`
	} `yaml:"stream"`
	Fetch struct {
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		PollSeconds       int     `yaml:"poll_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"fetch"`
	Session struct {
		Path         string `yaml:"path"`
		SupervisorID string `yaml:"supervisor_id"`
	} `yaml:"session"`
	Notifications struct {
		PushURL   string `yaml:"push_url"`
		ChannelID string `yaml:"channel_id"`
	} `yaml:"notifications"`
	Ledger struct {
		MaxRowsPerOrder int `yaml:"max_rows_per_order"`
	} `yaml:"ledger"`
	TripLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"triplog"`
}

func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Stream.ReconnectDelayMs) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Fetch.PollSeconds) * time.Second
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url '%s': %w", c.BaseURL, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid base_url '%s': scheme must be http or https", c.BaseURL)
	}
	if !strings.HasPrefix(c.Stream.Path, "/") {
		return fmt.Errorf("stream.path must start with '/', got '%s'", c.Stream.Path)
	}
	if c.Stream.ReconnectDelayMs <= 0 {
		return fmt.Errorf("stream.reconnect_delay_ms must be positive, got %d", c.Stream.ReconnectDelayMs)
	}
	if c.Fetch.PollSeconds < 0 {
		return fmt.Errorf("fetch.poll_seconds cannot be negative, got %d", c.Fetch.PollSeconds)
	}
	if c.Fetch.RequestsPerSecond < 0 {
		return fmt.Errorf("fetch.requests_per_second cannot be negative, got %.2f", c.Fetch.RequestsPerSecond)
	}
	if c.Ledger.MaxRowsPerOrder < 0 {
		return errors.New("ledger.max_rows_per_order cannot be negative")
	}
	if c.Notifications.PushURL != "" {
		if _, err := url.ParseRequestURI(c.Notifications.PushURL); err != nil {
			return fmt.Errorf("invalid notifications.push_url: %w", err)
		}
	}
	return nil
}

// applyDefaults fills unset fields. BASE_URL in the environment overrides the file.
func (c *Config) applyDefaults() {
	if v := strings.TrimSpace(os.Getenv("BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.Stream.Path == "" {
		c.Stream.Path = "/ws/harvest"
	}
	if c.Stream.ReconnectDelayMs == 0 {
		c.Stream.ReconnectDelayMs = 2000
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.RequestsPerSecond == 0 {
		c.Fetch.RequestsPerSecond = 2
	}
	if c.Session.Path == "" {
		c.Session.Path = "supervisor.db"
	}
	if v := strings.TrimSpace(os.Getenv("SUPERVISOR_ID")); v != "" {
		c.Session.SupervisorID = v
	}
	if c.Notifications.ChannelID == "" {
		c.Notifications.ChannelID = "harvest"
	}
	if c.TripLog.Dir == "" {
		c.TripLog.Dir = "logs/trips"
	}
}

// Default returns a validated configuration with every default applied.
func Default() (*Config, error) {
	var c Config
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// LoadConfig reads path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default()
	}
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
