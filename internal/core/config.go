package core

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/avierra/taskwell/pkg/models"
)

// Config holds collaborator-facing settings read from .taskwellrc.
// The core operations never consult configuration; these values only shape
// the console, HTTP, and MCP surfaces.
type Config struct {
	DefaultPriority models.Priority
	DefaultCategory string
	HTTPAddr        string
	EventLogPath    string
	MaxOpenTasks    int
}

// ConfigLoader defines the interface for loading taskwell configuration.
type ConfigLoader interface {
	Load() (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper to read a YAML
// .taskwellrc file from the base directory.
type viperConfigLoader struct {
	basePath string
}

// NewConfigLoader creates a ConfigLoader that reads .taskwellrc relative to
// basePath. A missing file yields defaults rather than an error.
func NewConfigLoader(basePath string) ConfigLoader {
	return &viperConfigLoader{basePath: basePath}
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig(basePath string) *Config {
	return &Config{
		DefaultPriority: "",
		DefaultCategory: "",
		HTTPAddr:        ":8080",
		EventLogPath:    filepath.Join(basePath, "events.jsonl"),
		MaxOpenTasks:    25,
	}
}

// Load reads the .taskwellrc file from the base path using Viper. Missing
// keys fall back to defaults; an unset default priority stays unset.
func (cl *viperConfigLoader) Load() (*Config, error) {
	cfg := defaultConfig(cl.basePath)

	v := viper.New()
	v.SetConfigName(".taskwellrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cl.basePath)

	v.SetDefault("defaults.priority", string(cfg.DefaultPriority))
	v.SetDefault("defaults.category", cfg.DefaultCategory)
	v.SetDefault("http.addr", cfg.HTTPAddr)
	v.SetDefault("events.path", cfg.EventLogPath)
	v.SetDefault("alerts.max_open_tasks", cfg.MaxOpenTasks)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .taskwellrc: %w", err)
	}

	if raw := v.GetString("defaults.priority"); raw != "" {
		priority, err := NormalizePriority(raw)
		if err != nil {
			return nil, fmt.Errorf("reading .taskwellrc: defaults.priority: %w", err)
		}
		cfg.DefaultPriority = priority
	}
	if raw := v.GetString("defaults.category"); raw != "" {
		category, err := NormalizeCategory(raw)
		if err != nil {
			return nil, fmt.Errorf("reading .taskwellrc: defaults.category: %w", err)
		}
		cfg.DefaultCategory = category
	}
	cfg.HTTPAddr = v.GetString("http.addr")
	cfg.EventLogPath = v.GetString("events.path")
	cfg.MaxOpenTasks = v.GetInt("alerts.max_open_tasks")

	return cfg, nil
}
