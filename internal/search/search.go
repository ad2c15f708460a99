// Package search locates terrain-corrected sunrise and sunset instants.
//
// Both searches share one shape: anchor at the standard (sea-level) event,
// then step the sun against the terrain horizon: backward in time for
// sunset, forward for sunrise. The asymmetry is deliberate: the backward
// sunset scan reports one step forward from the last still-hidden sample,
// while the forward sunrise scan lands on the first visible sample directly.
//
// The scan reports the first hidden→visible crossing in scan direction.
// Terrain with multiple peaks along the sun's path can occlude the sun more
// than once; tracking every crossing is a policy decision deferred for now.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ridgeline/internal/ephem"
	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/horizon"
	"github.com/litescript/ridgeline/internal/logging"
)

// Default scan tunables.
const (
	DefaultStep   = 2 * time.Minute
	DefaultBudget = 120 * time.Minute
)

// Provenance records how a result was obtained. A fallback answer is valid
// but degraded; callers must be able to tell it apart from a corrected one.
type Provenance int

const (
	Corrected        Provenance = iota // Terrain crossing located by the scan
	AlreadyBelow                       // Sun below the mathematical horizon at the first sample
	StandardFallback                   // Budget exhausted; standard event time returned
)

// String returns the provenance name.
func (p Provenance) String() string {
	switch p {
	case Corrected:
		return "corrected"
	case AlreadyBelow:
		return "already-below"
	case StandardFallback:
		return "standard-fallback"
	default:
		return "?"
	}
}

// Step is one sampled instant of a scan.
type Step struct {
	Time              time.Time
	AzimuthDeg        float64
	AltitudeDeg       float64
	HorizonDeg        float64
	HorizonProvenance horizon.Provenance
}

// Result is a terrain-corrected event.
type Result struct {
	Time       time.Time // Corrected instant (UTC)
	Standard   time.Time // Standard sea-level event the scan anchored on (UTC)
	Provenance Provenance
	Steps      []Step // Scan trace in scan order
}

// HorizonSource yields the terrain horizon angle for an azimuth. An error
// means the lookup was cancelled, not that the terrain was unresolvable;
// degraded lookups come back as flat-fallback results instead.
type HorizonSource interface {
	Angle(ctx context.Context, azimuthDeg float64) (horizon.Result, error)
}

// Searcher runs terrain-aware event searches for one site.
type Searcher struct {
	ephem   ephem.Provider
	horizon HorizonSource
	site    geo.Site
	step    time.Duration
	budget  time.Duration
	log     *logging.Logger

	// OnStep, when set, observes each scan step as it happens.
	OnStep func(Step)
}

// NewSearcher creates a searcher. step and budget fall back to the defaults
// when non-positive.
func NewSearcher(provider ephem.Provider, hs HorizonSource, site geo.Site, step, budget time.Duration, log *logging.Logger) *Searcher {
	if step <= 0 {
		step = DefaultStep
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Searcher{
		ephem:   provider,
		horizon: hs,
		site:    site,
		step:    step,
		budget:  budget,
		log:     log,
	}
}

// Sunset returns the terrain-corrected setting instant for the calendar day
// named by date. The standard setting lookup is anchored at local noon.
//
// The scan walks backward from the standard setting instant. While the sun
// sits at or below the terrain horizon it is still hidden; the first sample
// found above the horizon marks the visible side of the boundary, and the
// corrected sunset is one step forward from it. If the first sample is
// already above the horizon the standard instant itself is reported: terrain
// does not occlude the event.
func (s *Searcher) Sunset(ctx context.Context, date time.Time) (Result, error) {
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())

	anchor, err := s.ephem.Setting(s.site, noon)
	if err != nil {
		return Result{}, fmt.Errorf("standard setting: %w", err)
	}
	s.log.Debug("standard setting %v, scanning backward", anchor)

	return s.scan(ctx, anchor, -s.step)
}

// Sunrise returns the terrain-corrected rising instant for the calendar day
// named by date. The standard rising lookup is anchored at local midnight.
//
// The scan walks forward from the standard rising instant and reports the
// first sample above the terrain horizon directly.
func (s *Searcher) Sunrise(ctx context.Context, date time.Time) (Result, error) {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	anchor, err := s.ephem.Rising(s.site, midnight)
	if err != nil {
		return Result{}, fmt.Errorf("standard rising: %w", err)
	}
	s.log.Debug("standard rising %v, scanning forward", anchor)

	return s.scan(ctx, anchor, s.step)
}

// scan steps from anchor in increments of step (negative for the backward
// sunset scan) until the sun clears the terrain horizon or the budget runs
// out.
func (s *Searcher) scan(ctx context.Context, anchor time.Time, step time.Duration) (Result, error) {
	res := Result{Standard: anchor}

	backward := step < 0
	elapsed := time.Duration(0)
	budgetStep := step
	if budgetStep < 0 {
		budgetStep = -budgetStep
	}

	for current := anchor; elapsed <= s.budget; current = current.Add(step) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		az, alt := s.ephem.SunPosition(s.site, current)

		// A first sample below the mathematical horizon means the event is
		// already past regardless of terrain; this is distinct from being
		// merely hidden behind a ridge (altitude 0 vs a negative horizon
		// angle can both satisfy the hidden comparison).
		if elapsed == 0 && alt < 0 {
			res.Time = current
			res.Provenance = AlreadyBelow
			s.log.Info("sun already below the horizon at the first sample")
			return res, nil
		}

		hz, err := s.horizon.Angle(ctx, az)
		if err != nil {
			return res, err
		}
		s.record(&res, Step{
			Time:              current,
			AzimuthDeg:        az,
			AltitudeDeg:       alt,
			HorizonDeg:        hz.AngleDeg,
			HorizonProvenance: hz.Provenance,
		})

		if alt > hz.AngleDeg {
			// Visible. Scanning backward, the hidden→visible boundary sits
			// one step ahead of this sample; unless this is the anchor
			// itself, in which case terrain never hid the standard event.
			res.Provenance = Corrected
			if backward && elapsed > 0 {
				res.Time = current.Add(-step)
			} else {
				res.Time = current
			}
			s.log.Debug("crossing found at %v (az %.1f°, alt %.2f°, horizon %.2f°)",
				res.Time, az, alt, hz.AngleDeg)
			return res, nil
		}

		elapsed += budgetStep
	}

	// Degenerate case: no crossing inside the window. The standard instant
	// is a valid, degraded answer, flagged so it is never mistaken for
	// "terrain had no effect".
	res.Time = anchor
	res.Provenance = StandardFallback
	s.log.Warn("no crossing within %v, falling back to standard event", s.budget)
	return res, nil
}

// record appends a step to the trace and notifies any observer.
func (s *Searcher) record(res *Result, step Step) {
	res.Steps = append(res.Steps, step)
	if s.OnStep != nil {
		s.OnStep(step)
	}
}
