package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ridgeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
location:
  latitude: 36.2381
  longitude: 137.9642
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 36.2381, cfg.Location.Latitude)
	assert.Equal(t, 137.9642, cfg.Location.Longitude)
	assert.Equal(t, DateAuto, cfg.Date)
	assert.Equal(t, ModeBoth, cfg.Mode)
	assert.Equal(t, 2, cfg.Search.StepMinutes)
	assert.Equal(t, 120, cfg.Search.BudgetMinutes)
	assert.Equal(t, 20.0, cfg.Horizon.DistanceKm)
	assert.Equal(t, 2.0, cfg.Horizon.StepKm)
	assert.Equal(t, 100, cfg.Elevation.ChunkSize)
	assert.Equal(t, 10*time.Second, cfg.Elevation.Timeout())
	assert.Equal(t, 9, cfg.Display.UTCOffsetHours)
	assert.Equal(t, "almanac", cfg.Ephemeris)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
location:
  latitude: -33.8688
  longitude: 151.2093
date: "2023-10-25"
mode: sunset
search:
  step_minutes: 1
  budget_minutes: 90
horizon:
  distance_km: 30
  step_km: 1
display:
  utc_offset_hours: 11
ephemeris: meeus
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeSunset, cfg.Mode)
	assert.Equal(t, time.Minute, cfg.Search.Step())
	assert.Equal(t, 90*time.Minute, cfg.Search.Budget())
	assert.Equal(t, 30.0, cfg.Horizon.DistanceKm)
	assert.Equal(t, "meeus", cfg.Ephemeris)

	_, offset := time.Now().In(cfg.Display.Zone()).Zone()
	assert.Equal(t, 11*3600, offset)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
location:
  latitude: 36.2381
  longitude: 137.9642
`)
	t.Setenv("RIDGE_MODE", "sunrise")
	t.Setenv("RIDGE_SEARCH_STEP_MINUTES", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeSunrise, cfg.Mode)
	assert.Equal(t, 5, cfg.Search.StepMinutes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Location:  LocationConfig{Latitude: 36.2381, Longitude: 137.9642},
			Date:      DateAuto,
			Mode:      ModeBoth,
			Search:    SearchConfig{StepMinutes: 2, BudgetMinutes: 120},
			Horizon:   HorizonConfig{DistanceKm: 20, StepKm: 2},
			Elevation: ElevationConfig{TimeoutSeconds: 10, ChunkSize: 100},
			Display:   DisplayConfig{UTCOffsetHours: 9},
			Ephemeris: "almanac",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"valid", func(c *Config) {}, true},
		{"latitude too large", func(c *Config) { c.Location.Latitude = 91 }, false},
		{"longitude too small", func(c *Config) { c.Location.Longitude = -181 }, false},
		{"missing location", func(c *Config) { c.Location = LocationConfig{} }, false},
		{"bad mode", func(c *Config) { c.Mode = "noon" }, false},
		{"bad date", func(c *Config) { c.Date = "25-10-2023" }, false},
		{"explicit date", func(c *Config) { c.Date = "2023-10-25" }, true},
		{"zero step", func(c *Config) { c.Search.StepMinutes = 0 }, false},
		{"budget below step", func(c *Config) { c.Search.BudgetMinutes = 1 }, false},
		{"zero horizon step", func(c *Config) { c.Horizon.StepKm = 0 }, false},
		{"distance below step", func(c *Config) { c.Horizon.DistanceKm = 1 }, false},
		{"zero timeout", func(c *Config) { c.Elevation.TimeoutSeconds = 0 }, false},
		{"oversized chunk", func(c *Config) { c.Elevation.ChunkSize = 500 }, false},
		{"offset too far west", func(c *Config) { c.Display.UTCOffsetHours = -13 }, false},
		{"bad ephemeris", func(c *Config) { c.Ephemeris = "vsop87" }, false},
		{"meeus ephemeris", func(c *Config) { c.Ephemeris = "meeus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTargetDate(t *testing.T) {
	cfg := Config{Date: DateAuto, Display: DisplayConfig{UTCOffsetHours: 9}}

	// 23:30 UTC is already the next day at UTC+9.
	now := time.Date(2023, 10, 24, 23, 30, 0, 0, time.UTC)
	got, err := cfg.TargetDate(now)
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.October, got.Month())
	assert.Equal(t, 25, got.Day())
	assert.Equal(t, 0, got.Hour())

	cfg.Date = "2023-12-31"
	got, err = cfg.TargetDate(now)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Day())
	_, offset := got.Zone()
	assert.Equal(t, 9*3600, offset)
}
