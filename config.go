package pptgen

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the tunables of a rendering service instance.
type Config struct {
	Unsplash struct {
		// AccessKey may also come from the UNSPLASH_ACCESS_KEY
		// environment variable, which wins over the file.
		AccessKey string `yaml:"access_key"`
	} `yaml:"unsplash"`

	Images struct {
		Workers      int           `yaml:"workers"`
		FetchTimeout time.Duration `yaml:"fetch_timeout"`
		FallbackPath string        `yaml:"fallback_path"`
	} `yaml:"images"`

	Fit struct {
		TitleBudget  int `yaml:"title_budget"`
		BodyBudget   int `yaml:"body_budget"`
		MinFontScale int `yaml:"min_font_scale"`
	} `yaml:"fit"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Images.Workers = 4
	cfg.Images.FetchTimeout = 5 * time.Second
	fit := DefaultFitPolicy()
	cfg.Fit.TitleBudget = fit.TitleBudget
	cfg.Fit.BodyBudget = fit.BodyBudget
	cfg.Fit.MinFontScale = fit.MinFontScale
	cfg.applyEnv()
	return cfg
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// is an error; pass "" to use defaults only.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		c.Unsplash.AccessKey = key
	}
}

// Validate rejects configs that would misbehave at render time.
func (c *Config) Validate() error {
	if c.Images.Workers < 1 {
		return fmt.Errorf("config: images.workers must be >= 1, got %d", c.Images.Workers)
	}
	if c.Images.FetchTimeout <= 0 {
		return fmt.Errorf("config: images.fetch_timeout must be positive, got %s", c.Images.FetchTimeout)
	}
	if c.Fit.MinFontScale < 10 || c.Fit.MinFontScale > 100 {
		return fmt.Errorf("config: fit.min_font_scale must be in [10,100], got %d", c.Fit.MinFontScale)
	}
	if c.Fit.TitleBudget < 1 || c.Fit.BodyBudget < 1 {
		return fmt.Errorf("config: fit budgets must be >= 1")
	}
	return nil
}

// FitPolicy converts the config's fit section.
func (c *Config) FitPolicy() FitPolicy {
	return FitPolicy{
		TitleBudget:  c.Fit.TitleBudget,
		BodyBudget:   c.Fit.BodyBudget,
		MinFontScale: c.Fit.MinFontScale,
	}
}
