// Package ephem provides solar ephemeris data for the horizon search.
package ephem

import (
	"errors"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/ridgeline/internal/geo"
)

// Domain errors for standard event lookups. Both are terminal for the
// requested mode: the sun never crosses the sea-level horizon that day.
var (
	// ErrAlwaysUp means the sun stays above the horizon all day (polar day).
	ErrAlwaysUp = errors.New("sun is above the horizon all day")

	// ErrNeverUp means the sun stays below the horizon all day (polar night).
	ErrNeverUp = errors.New("sun is below the horizon all day")
)

// Provider defines a solar ephemeris source.
//
// Rising and Setting return the standard (sea-level horizon) event instants
// in UTC, refined onto the geometric altitude-0 crossing of the provider's
// own sun model so they compare consistently against scan-time altitudes.
// The date argument carries the target calendar day in the observer's
// display zone; callers anchor setting lookups at local noon and rising
// lookups at local midnight so the correct one of a day's possible events is
// selected unambiguously.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// SunPosition returns the sun's azimuth (degrees clockwise from true
	// north, [0,360)) and altitude (degrees, [-90,90]) at time t.
	SunPosition(site geo.Site, t time.Time) (azDeg, altDeg float64)

	// Rising returns the standard rising instant for the date, or
	// ErrAlwaysUp/ErrNeverUp.
	Rising(site geo.Site, date time.Time) (time.Time, error)

	// Setting returns the standard setting instant for the date, or
	// ErrAlwaysUp/ErrNeverUp.
	Setting(site geo.Site, date time.Time) (time.Time, error)
}

// Mode represents which ephemeris implementation to use.
type Mode int

const (
	ModeAlmanac Mode = iota // Low-precision Astronomical Almanac series (default)
	ModeMeeus               // Meeus apparent solar position
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAlmanac:
		return "almanac"
	case ModeMeeus:
		return "meeus"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string, defaulting to the almanac series.
func ParseMode(s string) Mode {
	switch s {
	case "meeus":
		return ModeMeeus
	default:
		return ModeAlmanac
	}
}

// ForMode returns the provider for a mode.
func ForMode(m Mode) Provider {
	if m == ModeMeeus {
		return NewMeeusProvider()
	}
	return NewAlmanacProvider()
}

// standardEvents returns the sea-level rising and setting instants for the
// site on the calendar day named by date (in date's own location). Zero
// times signal that the event does not occur that day.
func standardEvents(site geo.Site, date time.Time) (rise, set time.Time) {
	y, m, d := date.Date()
	return sunrise.SunriseSunset(site.Point.Lat, site.Point.Lon, y, m, d)
}

// refineWindow bounds how far the geometric crossing can sit from the
// refraction-corrected seed instant.
const refineWindow = 30 * time.Minute

// refineToGeometric moves a refraction-corrected event instant onto the
// geometric horizon crossing (altitude 0) of the provider's own sun model,
// so the instant is consistent with every altitude comparison made during
// the scan. The result sits on the above-horizon side of the crossing,
// within one second of it. Falls back to the seed if the window does not
// bracket a crossing.
func refineToGeometric(p Provider, site geo.Site, seed time.Time, rising bool) time.Time {
	// The refracted event trails the geometric crossing at sunset and leads
	// it at sunrise.
	var above, below time.Time
	if rising {
		below = seed
		above = seed.Add(refineWindow)
	} else {
		above = seed.Add(-refineWindow)
		below = seed
	}

	altAt := func(t time.Time) float64 {
		_, alt := p.SunPosition(site, t)
		return alt
	}

	if altAt(above) <= 0 || altAt(below) > 0 {
		return seed
	}

	for gap := below.Sub(above); gap > time.Second || gap < -time.Second; gap = below.Sub(above) {
		mid := above.Add(gap / 2)
		if altAt(mid) > 0 {
			above = mid
		} else {
			below = mid
		}
	}

	return above
}

// classifyPolar resolves a missing standard event into ErrAlwaysUp or
// ErrNeverUp using the provider's own sun altitude at local noon.
func classifyPolar(p Provider, site geo.Site, date time.Time) error {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
	if _, alt := p.SunPosition(site, noon); alt > 0 {
		return ErrAlwaysUp
	}
	return ErrNeverUp
}
