package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-payroll/payroll"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabasePath   string   `yaml:"DatabasePath"`
	Port           int      `yaml:"Port"`
	AllowedOrigins []string `yaml:"AllowedOrigins"`

	MonthClose MonthClose `yaml:"MonthClose"`

	// Defaults apply to workers that never saved their own settings
	Defaults Defaults `yaml:"Defaults"`
}

type MonthClose struct {
	Enabled       bool          `yaml:"Enabled"`
	CheckInterval time.Duration `yaml:"CheckInterval"`
}

// Defaults holds payroll settings as text so the file stays hand-editable.
type Defaults struct {
	ShiftStart  string `yaml:"ShiftStart"`
	ShiftEnd    string `yaml:"ShiftEnd"`
	BaseSalary  string `yaml:"BaseSalary"`
	WorkingDays int    `yaml:"WorkingDays"`
	Bonus       string `yaml:"Bonus"`
}

// DefaultPath is ~/.shift-payroll.yaml.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shift-payroll.yaml")
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for zeroed values
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MonthClose.CheckInterval == 0 {
		cfg.MonthClose.CheckInterval = time.Hour
	}

	// Expand ~ in database path
	if strings.HasPrefix(cfg.DatabasePath, "~/") {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, cfg.DatabasePath[2:])
	}

	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Default() *Config {
	return &Config{
		DatabasePath:   "payroll.db",
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		MonthClose: MonthClose{
			Enabled:       true,
			CheckInterval: time.Hour,
		},
		Defaults: Defaults{
			ShiftStart: "09:00",
			ShiftEnd:   "18:00",
		},
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &ValidationError{Field: "Port", Message: "Port must be between 1 and 65535"}
	}
	if c.MonthClose.Enabled && c.MonthClose.CheckInterval <= 0 {
		return &ValidationError{Field: "MonthClose.CheckInterval", Message: "Check interval must be positive"}
	}
	if c.Defaults.WorkingDays < 0 {
		return &ValidationError{Field: "Defaults.WorkingDays", Message: "Working days cannot be negative"}
	}
	if _, err := c.Defaults.Settings(); err != nil {
		return err
	}
	return nil
}

// Settings converts the defaults to payroll settings. The result may still
// be incomplete (no salary yet); the engine reports that as not computed.
func (d Defaults) Settings() (payroll.Settings, error) {
	s := payroll.Settings{WorkingDays: d.WorkingDays}

	if d.ShiftStart != "" || d.ShiftEnd != "" {
		start, err := payroll.ParseTimeOfDay(d.ShiftStart)
		if err != nil {
			return s, &ValidationError{Field: "Defaults.ShiftStart", Message: err.Error()}
		}
		end, err := payroll.ParseTimeOfDay(d.ShiftEnd)
		if err != nil {
			return s, &ValidationError{Field: "Defaults.ShiftEnd", Message: err.Error()}
		}
		s.Shift = &payroll.StandardShift{Start: start, End: end}
	}

	var err error
	if s.BaseSalary, err = parseAmount(d.BaseSalary); err != nil {
		return s, &ValidationError{Field: "Defaults.BaseSalary", Message: err.Error()}
	}
	if s.Bonus, err = parseAmount(d.Bonus); err != nil {
		return s, &ValidationError{Field: "Defaults.Bonus", Message: err.Error()}
	}
	return s, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}
