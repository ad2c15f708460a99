package ephem

import (
	"time"

	"github.com/litescript/ridgeline/internal/astro"
	"github.com/litescript/ridgeline/internal/geo"
)

// AlmanacProvider computes sun positions from the simplified Astronomical
// Almanac series in internal/astro. Accuracy is ~0.01°, comfortably inside
// one scan step of solar motion.
type AlmanacProvider struct{}

// NewAlmanacProvider creates the default ephemeris provider.
func NewAlmanacProvider() *AlmanacProvider {
	return &AlmanacProvider{}
}

// Name implements Provider.
func (p *AlmanacProvider) Name() string {
	return "almanac"
}

// SunPosition implements Provider.
func (p *AlmanacProvider) SunPosition(site geo.Site, t time.Time) (azDeg, altDeg float64) {
	obs := astro.Observer{LatDeg: site.Point.Lat, LonDeg: site.Point.Lon}
	return astro.SunHorizontal(obs, t)
}

// Rising implements Provider.
func (p *AlmanacProvider) Rising(site geo.Site, date time.Time) (time.Time, error) {
	rise, _ := standardEvents(site, date)
	if rise.IsZero() {
		return time.Time{}, classifyPolar(p, site, date)
	}
	return refineToGeometric(p, site, rise, true), nil
}

// Setting implements Provider.
func (p *AlmanacProvider) Setting(site geo.Site, date time.Time) (time.Time, error) {
	_, set := standardEvents(site, date)
	if set.IsZero() {
		return time.Time{}, classifyPolar(p, site, date)
	}
	return refineToGeometric(p, site, set, false), nil
}
