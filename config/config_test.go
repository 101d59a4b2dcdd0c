package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.yaml")
	data := `DatabasePath: ~/payroll/data.db
MonthClose:
  Enabled: false
Defaults:
  ShiftStart: "22:00"
  ShiftEnd: "06:00"
  BaseSalary: "50000"
  WorkingDays: 21
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "payroll", "data.db"), cfg.DatabasePath)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.MonthClose.Enabled)
	assert.Equal(t, time.Hour, cfg.MonthClose.CheckInterval)

	settings, err := cfg.Defaults.Settings()
	require.NoError(t, err)
	require.NotNil(t, settings.Shift)
	assert.Equal(t, "22:00-06:00", settings.Shift.String())
	assert.Equal(t, "50000", settings.BaseSalary.String())
	assert.True(t, settings.Bonus.IsZero())
	assert.NoError(t, settings.Validate())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.yaml")
	cfg := Default()
	cfg.Port = 9090
	cfg.MonthClose.CheckInterval = 15 * time.Minute
	cfg.Defaults.Bonus = "1000.50"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"missing database", func(c *Config) { c.DatabasePath = "" }, "DatabasePath"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "Port"},
		{"zero interval", func(c *Config) { c.MonthClose.CheckInterval = 0 }, "MonthClose.CheckInterval"},
		{"negative days", func(c *Config) { c.Defaults.WorkingDays = -1 }, "Defaults.WorkingDays"},
		{"bad shift", func(c *Config) { c.Defaults.ShiftEnd = "25:00" }, "Defaults.ShiftEnd"},
		{"bad salary", func(c *Config) { c.Defaults.BaseSalary = "lots" }, "Defaults.BaseSalary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDefaultsWithoutShift(t *testing.T) {
	settings, err := Defaults{}.Settings()
	require.NoError(t, err)
	assert.Nil(t, settings.Shift)
	assert.Error(t, settings.Validate(), "incomplete defaults are not computable")
}
