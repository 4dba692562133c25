// Package config loads planner settings from <dataDir>/config.yaml and
// PLANNER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/stefanpenner/planner/pkg/filter"
	"github.com/stefanpenner/planner/pkg/store"
)

// EnvPrefix prefixes every environment override, e.g. PLANNER_BACKEND.
const EnvPrefix = "PLANNER"

// FileName is the config file inside the data directory.
const FileName = "config.yaml"

// Config represents the planner configuration
type Config struct {
	// Storage backend: "file" or "sqlite"
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Days a completed task stays visible under the completed filter
	RetentionDays int `yaml:"retention_days" mapstructure:"retention_days"`

	// Initial sort of the list
	Sort SortConfig `yaml:"sort" mapstructure:"sort"`

	// Delay after the last search keystroke before the list is filtered
	SearchDebounce time.Duration `yaml:"search_debounce" mapstructure:"search_debounce"`
}

// SortConfig holds the initial sort settings
type SortConfig struct {
	Field     string `yaml:"field" mapstructure:"field"`
	Direction string `yaml:"direction" mapstructure:"direction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	state := filter.DefaultState()
	return &Config{
		Backend:       store.BackendFile,
		RetentionDays: state.RetentionDays,
		Sort: SortConfig{
			Field:     string(state.SortField),
			Direction: string(state.Direction),
		},
		SearchDebounce: 300 * time.Millisecond,
	}
}

// Path returns the config file location for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Load reads defaults, then <dataDir>/config.yaml if present, then
// PLANNER_* environment variables, and validates the result.
func Load(dataDir string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("retention_days", def.RetentionDays)
	v.SetDefault("sort.field", def.Sort.Field)
	v.SetDefault("sort.direction", def.Sort.Direction)
	v.SetDefault("search_debounce", def.SearchDebounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := Path(dataDir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case store.BackendFile, store.BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("backend %q must be %s or %s", c.Backend, store.BackendFile, store.BackendSQLite))
	}
	if c.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("retention_days must not be negative"))
	}
	if _, ok := filter.ParseSortField(c.Sort.Field); !ok {
		errs = append(errs, fmt.Errorf("sort.field %q is not a sortable field", c.Sort.Field))
	}
	if _, ok := filter.ParseDirection(c.Sort.Direction); !ok {
		errs = append(errs, fmt.Errorf("sort.direction %q must be asc or desc", c.Sort.Direction))
	}
	if c.SearchDebounce < 0 {
		errs = append(errs, fmt.Errorf("search_debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// FilterState returns the initial filter state these settings describe.
func (c *Config) FilterState() filter.State {
	state := filter.DefaultState()
	state.RetentionDays = c.RetentionDays
	state.SortField, _ = filter.ParseSortField(c.Sort.Field)
	state.Direction, _ = filter.ParseDirection(c.Sort.Direction)
	return state
}

// WriteDefault writes a commented default configuration to path. An existing
// file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := `# Planner configuration

# Storage backend: "file" (markdown files, git friendly) or "sqlite"
backend: file

# Days a completed task stays visible under the "completed" filter.
# 0 keeps completed tasks visible forever.
retention_days: 30

# Initial sort. field: title, category, priority, status, tags, dueDate, createdAt
sort:
  field: createdAt
  direction: desc

# Wait this long after the last keystroke before searching
search_debounce: 300ms
`
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
