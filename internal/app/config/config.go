package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides api.password so it does not have to live in the file.
const PasswordEnv = "DATADISPLAY_PASSWORD"

type Config struct {
	API     APIConfig     `yaml:"api"`
	Policy  ports.Policy  `yaml:"policy"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
	Export  ExportConfig  `yaml:"export"`
}

type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// JournalConfig enables the on-disk record of received datapoints when Dir is set.
type JournalConfig struct {
	Dir string `yaml:"dir"`
}

type ExportConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	c.Policy = c.Policy.WithDefaults()
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080"
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = c.Policy.FetchTimeout
	}
	if pw := os.Getenv(PasswordEnv); pw != "" {
		c.API.Password = pw
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Export.Table == "" {
		c.Export.Table = "session_rows"
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host")
	}
	if c.Policy.BackoffMax < c.Policy.BackoffInitial {
		return fmt.Errorf("policy.backoff_max (%s) is below policy.backoff_initial (%s)", c.Policy.BackoffMax, c.Policy.BackoffInitial)
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	if c.Export.Table == "" {
		return fmt.Errorf("export.table is required")
	}
	return nil
}
