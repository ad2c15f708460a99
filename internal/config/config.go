// Package config loads and validates the run configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ridgeline/internal/geo"
)

// Mode selects which events a run computes.
type Mode string

const (
	ModeSunrise Mode = "sunrise"
	ModeSunset  Mode = "sunset"
	ModeBoth    Mode = "both"
)

// DateAuto selects the current day in the display zone.
const DateAuto = "auto"

// Config holds all application configuration.
type Config struct {
	Location  LocationConfig  `mapstructure:"location"`
	Date      string          `mapstructure:"date"`
	Mode      Mode            `mapstructure:"mode"`
	Search    SearchConfig    `mapstructure:"search"`
	Horizon   HorizonConfig   `mapstructure:"horizon"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	Display   DisplayConfig   `mapstructure:"display"`
	Ephemeris string          `mapstructure:"ephemeris"`
	LogLevel  string          `mapstructure:"log_level"`
}

type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

type SearchConfig struct {
	StepMinutes   int `mapstructure:"step_minutes"`
	BudgetMinutes int `mapstructure:"budget_minutes"`
}

type HorizonConfig struct {
	DistanceKm float64 `mapstructure:"distance_km"`
	StepKm     float64 `mapstructure:"step_km"`
}

type ElevationConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ChunkSize      int    `mapstructure:"chunk_size"`
}

type DisplayConfig struct {
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`
}

// Step returns the scan step as a duration.
func (s SearchConfig) Step() time.Duration {
	return time.Duration(s.StepMinutes) * time.Minute
}

// Budget returns the scan budget as a duration.
func (s SearchConfig) Budget() time.Duration {
	return time.Duration(s.BudgetMinutes) * time.Minute
}

// Timeout returns the per-request elevation timeout.
func (e ElevationConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// Zone returns the display time zone.
func (d DisplayConfig) Zone() *time.Location {
	name := fmt.Sprintf("UTC%+d", d.UTCOffsetHours)
	return time.FixedZone(name, d.UTCOffsetHours*3600)
}

// Point returns the configured observer point.
func (l LocationConfig) Point() geo.Point {
	return geo.Point{Lat: l.Latitude, Lon: l.Longitude}
}

// TargetDate resolves the configured date in the display zone.
// "auto" (or empty) means today.
func (c *Config) TargetDate(now time.Time) (time.Time, error) {
	zone := c.Display.Zone()
	if c.Date == "" || c.Date == DateAuto {
		local := now.In(zone)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", c.Date, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or %q): %w", c.Date, DateAuto, err)
	}
	return parsed, nil
}

// Load reads configuration from defaults, an optional YAML file, and
// RIDGE_* environment variables, then validates it. Validation failures
// stop a run before any network or astronomical work begins.
func Load(path string) (*Config, error) {
	cfg, err := LoadUnvalidated(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated reads configuration without validating it, so callers
// can layer overrides (CLI flags) on top before calling Validate.
func LoadUnvalidated(path string) (*Config, error) {
	v := viper.New()

	// Defaults. Location defaults to 0,0 which validation rejects, so it
	// is effectively required input; the zero default keeps the keys
	// visible to AutomaticEnv.
	v.SetDefault("location.latitude", 0.0)
	v.SetDefault("location.longitude", 0.0)
	v.SetDefault("date", DateAuto)
	v.SetDefault("mode", string(ModeBoth))
	v.SetDefault("search.step_minutes", 2)
	v.SetDefault("search.budget_minutes", 120)
	v.SetDefault("horizon.distance_km", 20.0)
	v.SetDefault("horizon.step_km", 2.0)
	v.SetDefault("elevation.url", "https://api.open-elevation.com/api/v1/lookup")
	v.SetDefault("elevation.timeout_seconds", 10)
	v.SetDefault("elevation.chunk_size", 100)
	v.SetDefault("display.utc_offset_hours", 9)
	v.SetDefault("ephemeris", "almanac")
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("ridgeline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment: RIDGE_LOCATION_LATITUDE etc.
	v.SetEnvPrefix("RIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if !geo.ValidLat(c.Location.Latitude) {
		return fmt.Errorf("location.latitude %.4f out of range [-90, 90]", c.Location.Latitude)
	}
	if !geo.ValidLon(c.Location.Longitude) {
		return fmt.Errorf("location.longitude %.4f out of range [-180, 180]", c.Location.Longitude)
	}
	if c.Location.Latitude == 0 && c.Location.Longitude == 0 {
		return fmt.Errorf("location.latitude and location.longitude are required")
	}

	switch c.Mode {
	case ModeSunrise, ModeSunset, ModeBoth:
	default:
		return fmt.Errorf("mode %q invalid (want sunrise, sunset, or both)", c.Mode)
	}

	if _, err := c.TargetDate(time.Now()); err != nil {
		return err
	}

	if c.Search.StepMinutes <= 0 {
		return fmt.Errorf("search.step_minutes must be positive, got %d", c.Search.StepMinutes)
	}
	if c.Search.BudgetMinutes < c.Search.StepMinutes {
		return fmt.Errorf("search.budget_minutes (%d) must be at least one step (%d)",
			c.Search.BudgetMinutes, c.Search.StepMinutes)
	}
	if c.Horizon.StepKm <= 0 {
		return fmt.Errorf("horizon.step_km must be positive, got %g", c.Horizon.StepKm)
	}
	if c.Horizon.DistanceKm < c.Horizon.StepKm {
		return fmt.Errorf("horizon.distance_km (%g) must be at least one step (%g)",
			c.Horizon.DistanceKm, c.Horizon.StepKm)
	}
	if c.Elevation.TimeoutSeconds <= 0 {
		return fmt.Errorf("elevation.timeout_seconds must be positive, got %d", c.Elevation.TimeoutSeconds)
	}
	if c.Elevation.ChunkSize <= 0 || c.Elevation.ChunkSize > 100 {
		return fmt.Errorf("elevation.chunk_size must be in [1, 100], got %d", c.Elevation.ChunkSize)
	}
	if c.Display.UTCOffsetHours < -12 || c.Display.UTCOffsetHours > 14 {
		return fmt.Errorf("display.utc_offset_hours %d out of range [-12, 14]", c.Display.UTCOffsetHours)
	}

	switch strings.ToLower(c.Ephemeris) {
	case "almanac", "meeus":
	default:
		return fmt.Errorf("ephemeris %q invalid (want almanac or meeus)", c.Ephemeris)
	}

	return nil
}
