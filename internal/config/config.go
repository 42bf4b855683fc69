package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schoolhub/internal/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all schoolhub configuration.
type Config struct {
	Name string `yaml:"name"`

	// Alert sheet links
	Alerts AlertsConfig `yaml:"alerts"`

	// Gemini assistant and image generator
	Assistant AssistantConfig `yaml:"assistant"`

	// HTTP surface
	Server ServerConfig `yaml:"server"`

	Admin AdminConfig `yaml:"admin"`

	Logging logging.Options `yaml:"logging"`

	envFile string
}

// AlertsConfig points at the Google Sheet that editors maintain.
type AlertsConfig struct {
	// CSVURL is the sheet's "Publish to web" CSV link. The app reads it.
	CSVURL string `yaml:"csv_url"`
	// EditURL is the sheet's share link. The admin page opens it.
	EditURL string `yaml:"edit_url"`
}

// AssistantConfig configures the hosted Gemini models.
type AssistantConfig struct {
	APIKey     string `yaml:"api_key"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`
	Timeout    string `yaml:"timeout"`
}

// ServerConfig configures `hub serve`.
type ServerConfig struct {
	Addr              string `yaml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	WriteTimeout      string `yaml:"write_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`

	// AssistantRate limits assistant calls per second across all clients.
	// Zero disables the limit.
	AssistantRate  float64 `yaml:"assistant_rate"`
	AssistantBurst int     `yaml:"assistant_burst"`

	Metrics bool `yaml:"metrics"`
}

// AdminConfig configures the admin page. An empty password disables it.
type AdminConfig struct {
	Password string `yaml:"password"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "HCSS Hub",

		Alerts: AlertsConfig{
			CSVURL:  "Add your published CSV link here",
			EditURL: "Add your sheet share link here",
		},

		Assistant: AssistantConfig{
			ChatModel:  "gemini-2.5-pro",
			ImageModel: "gemini-2.5-flash-image",
			Timeout:    "60s",
		},

		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: "5s",
			WriteTimeout:      "90s",
			ShutdownTimeout:   "10s",
			AssistantRate:     1,
			AssistantBurst:    5,
			Metrics:           true,
		},

		Logging: logging.Options{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file, then applies .env and
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	envFile := filepath.Join(filepath.Dir(path), ".env")
	loaded, err := LoadDotEnv(envFile)
	if err != nil {
		return nil, err
	}
	if loaded {
		cfg.envFile = envFile
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadDotEnv exports variables from a .env file without overriding ones
// already set and reports whether the file existed. A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// EnvFile returns the .env file Load applied, or "" if there was none.
func (c *Config) EnvFile() string { return c.envFile }

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HUB_ALERTS_CSV_URL"); v != "" {
		c.Alerts.CSVURL = v
	}
	if v := os.Getenv("HUB_ALERTS_EDIT_URL"); v != "" {
		c.Alerts.EditURL = v
	}

	// API_KEY is the name the hosted build injects; GEMINI_API_KEY wins.
	if key := os.Getenv("API_KEY"); key != "" {
		c.Assistant.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Assistant.APIKey = key
	}

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if addr := os.Getenv("HUB_ADDR"); addr != "" {
		c.Server.Addr = addr
	}

	if pw := os.Getenv("HUB_ADMIN_PASSWORD"); pw != "" {
		c.Admin.Password = pw
	}
	if level := os.Getenv("HUB_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Validate validates the configuration. An unset alert sheet is valid:
// the app then shows no alerts.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr %q: %w", c.Server.Addr, err))
	}
	if c.Server.AssistantRate < 0 {
		errs = append(errs, fmt.Errorf("server.assistant_rate must not be negative"))
	}
	if c.Server.AssistantBurst < 0 {
		errs = append(errs, fmt.Errorf("server.assistant_burst must not be negative"))
	}
	for name, v := range map[string]string{
		"assistant.timeout":          c.Assistant.Timeout,
		"server.read_header_timeout": c.Server.ReadHeaderTimeout,
		"server.write_timeout":       c.Server.WriteTimeout,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
	} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	return errors.Join(errs...)
}

func duration(v string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetAssistantTimeout returns the per-call Gemini timeout.
func (c *Config) GetAssistantTimeout() time.Duration {
	return duration(c.Assistant.Timeout, 60*time.Second)
}

// GetReadHeaderTimeout returns the server's header read timeout.
func (c *Config) GetReadHeaderTimeout() time.Duration {
	return duration(c.Server.ReadHeaderTimeout, 5*time.Second)
}

// GetWriteTimeout returns the server's response write timeout. It must
// outlast an image generation call.
func (c *Config) GetWriteTimeout() time.Duration {
	return duration(c.Server.WriteTimeout, 90*time.Second)
}

// GetShutdownTimeout returns how long `hub serve` waits for requests to drain.
func (c *Config) GetShutdownTimeout() time.Duration {
	return duration(c.Server.ShutdownTimeout, 10*time.Second)
}
