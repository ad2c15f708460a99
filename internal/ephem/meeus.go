package ephem

import (
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"
	"github.com/mooncaker816/learnmeeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/litescript/ridgeline/internal/astro"
	"github.com/litescript/ridgeline/internal/geo"
)

// MeeusProvider computes sun positions from the Meeus apparent solar
// ephemeris. Slightly better positional accuracy than the almanac series;
// standard rise/set anchors are shared between the two providers.
type MeeusProvider struct{}

// NewMeeusProvider creates a Meeus-based ephemeris provider.
func NewMeeusProvider() *MeeusProvider {
	return &MeeusProvider{}
}

// Name implements Provider.
func (p *MeeusProvider) Name() string {
	return "meeus"
}

// SunPosition implements Provider.
func (p *MeeusProvider) SunPosition(site geo.Site, t time.Time) (azDeg, altDeg float64) {
	jd := julian.TimeToJD(t.UTC())

	var ra unit.RA
	var dec unit.Angle
	ra, dec = solar.ApparentEquatorial(jd)

	obs := astro.Observer{LatDeg: site.Point.Lat, LonDeg: site.Point.Lon}
	return astro.EquatorialToHorizontal(ra.Deg(), dec.Deg(), obs, t)
}

// Rising implements Provider.
func (p *MeeusProvider) Rising(site geo.Site, date time.Time) (time.Time, error) {
	rise, _ := standardEvents(site, date)
	if rise.IsZero() {
		return time.Time{}, classifyPolar(p, site, date)
	}
	return refineToGeometric(p, site, rise, true), nil
}

// Setting implements Provider.
func (p *MeeusProvider) Setting(site geo.Site, date time.Time) (time.Time, error) {
	_, set := standardEvents(site, date)
	if set.IsZero() {
		return time.Time{}, classifyPolar(p, site, date)
	}
	return refineToGeometric(p, site, set, false), nil
}
