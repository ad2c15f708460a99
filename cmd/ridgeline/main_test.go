package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ridgeline/internal/config"
	"github.com/litescript/ridgeline/internal/ephem"
	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/horizon"
	"github.com/litescript/ridgeline/internal/logging"
	"github.com/litescript/ridgeline/internal/search"
)

// polarNightSun is an ephemeris provider for a day the sun never rises.
type polarNightSun struct{}

func (polarNightSun) Name() string { return "polar-night" }

func (polarNightSun) SunPosition(site geo.Site, t time.Time) (azDeg, altDeg float64) {
	return 180, -10
}

func (polarNightSun) Rising(site geo.Site, date time.Time) (time.Time, error) {
	return time.Time{}, ephem.ErrNeverUp
}

func (polarNightSun) Setting(site geo.Site, date time.Time) (time.Time, error) {
	return time.Time{}, ephem.ErrNeverUp
}

// flatHorizonSource always reports a clear 0° horizon.
type flatHorizonSource struct{}

func (flatHorizonSource) Angle(ctx context.Context, azimuthDeg float64) (horizon.Result, error) {
	return horizon.Result{Provenance: horizon.Complete}, nil
}

func TestRunHeadless_PolarNightIsNotFatal(t *testing.T) {
	cfg := &config.Config{
		Mode:    config.ModeBoth,
		Display: config.DisplayConfig{UTCOffsetHours: 1},
	}
	zone := cfg.Display.Zone()
	site := geo.Site{Point: geo.Point{Lat: 78.22, Lon: 15.65}}
	date := time.Date(2023, 12, 21, 0, 0, 0, 0, zone)

	searcher := search.NewSearcher(polarNightSun{}, flatHorizonSource{}, site, 0, 0, nil)

	var buf bytes.Buffer
	err := runHeadless(context.Background(), cfg, searcher, site, date, zone, logging.Discard(), &buf)
	if err != nil {
		t.Fatalf("runHeadless() error = %v, want nil: polar night is an answer, not a failure", err)
	}

	out := buf.String()
	if strings.Count(out, "no event") != 2 {
		t.Errorf("report should carry a no-event line per mode:\n%s", out)
	}
	for _, name := range []string{"sunrise", "sunset"} {
		if !strings.Contains(out, name) {
			t.Errorf("report missing %s row:\n%s", name, out)
		}
	}
	if !strings.Contains(out, ephem.ErrNeverUp.Error()) {
		t.Errorf("report missing the no-event reason:\n%s", out)
	}
}

func TestApplyOverrides(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Location: config.LocationConfig{Latitude: 36.2381, Longitude: 137.9642},
			Date:     config.DateAuto,
			Mode:     config.ModeBoth,
			LogLevel: "info",
		}
	}

	// Flags not passed leave the file values alone, whatever the globals hold.
	lat, lon, dateStr, modeStr, logLevel = 10, 20, "2024-01-01", "sunset", "debug"
	cfg := base()
	applyOverrides(cfg, map[string]bool{})
	if cfg.Location.Latitude != 36.2381 || cfg.Location.Longitude != 137.9642 {
		t.Errorf("unset flags must not override: %+v", cfg.Location)
	}
	if cfg.Date != config.DateAuto || cfg.Mode != config.ModeBoth || cfg.LogLevel != "info" {
		t.Errorf("unset flags must not override: date=%q mode=%q level=%q", cfg.Date, cfg.Mode, cfg.LogLevel)
	}

	// An explicitly passed zero coordinate is a real override.
	lat = 0
	cfg = base()
	applyOverrides(cfg, map[string]bool{"lat": true, "mode": true})
	if cfg.Location.Latitude != 0 {
		t.Errorf("explicit -lat 0 should override, got %v", cfg.Location.Latitude)
	}
	if cfg.Location.Longitude != 137.9642 {
		t.Errorf("-lon unset should stay, got %v", cfg.Location.Longitude)
	}
	if cfg.Mode != config.ModeSunset {
		t.Errorf("mode = %q, want sunset", cfg.Mode)
	}
}
