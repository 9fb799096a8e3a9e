package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"`
}

type LoggingCfg struct {
	RotationDays int `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type Config struct {
	// AllowedRoots confines destructive operations when non-empty
	AllowedRoots []string `yaml:"allowed_roots" json:"allowed_roots"`
	// ProtectedPaths extends the built-in protected set
	ProtectedPaths []string      `yaml:"protected_paths" json:"protected_paths"`
	JournalPath    string        `yaml:"journal_path" json:"journal_path"`
	Prometheus     PrometheusCfg `yaml:"prometheus" json:"prometheus"`
	Logging        LoggingCfg    `yaml:"logging" json:"logging"`
	// CatBufferLimit bounds buffered reads; streaming cat is unlimited
	CatBufferLimit int64 `yaml:"cat_buffer_limit_bytes" json:"cat_buffer_limit_bytes"`
}

var errInvalidRoot = errors.New("allowed root must be absolute")

// Default returns the configuration used when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	cleaned := make([]string, 0, len(c.AllowedRoots))
	for _, r := range c.AllowedRoots {
		cr, err := cleanAbsolute(r)
		if err != nil {
			return err
		}
		cleaned = append(cleaned, cr)
	}
	c.AllowedRoots = cleaned

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.JournalPath == "" {
		c.JournalPath = "/var/lib/fsbridge/operations.db"
	}
	if c.Logging.RotationDays <= 0 {
		c.Logging.RotationDays = 30
	}
	if c.CatBufferLimit <= 0 {
		c.CatBufferLimit = 8 * 1024 * 1024
	}
	// Prometheus.Port stays 0 unless configured: a short-lived CLI
	// invocation should not open a listener by default
}

func cleanAbsolute(p string) (string, error) {
	if p == "" {
		return "", errInvalidRoot
	}
	cp := filepath.Clean(p)
	if !filepath.IsAbs(cp) {
		return "", fmt.Errorf("%w: %s", errInvalidRoot, p)
	}
	return cp, nil
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
