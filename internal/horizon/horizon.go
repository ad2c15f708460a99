// Package horizon estimates the angular height of terrain along an azimuth.
package horizon

import (
	"context"
	"math"

	"github.com/litescript/ridgeline/internal/elevation"
	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/logging"
)

// Provenance records how an angle was obtained, so degraded lookups are
// distinguishable from a genuinely flat horizon.
type Provenance int

const (
	Complete     Provenance = iota // Every sample along the ray resolved
	Partial                        // Some samples missing, peak over the rest
	FlatFallback                   // No usable samples; 0° assumed
)

// String returns the provenance name.
func (p Provenance) String() string {
	switch p {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	case FlatFallback:
		return "flat-fallback"
	default:
		return "?"
	}
}

// Result is the horizon angle for one azimuth as seen from the observer.
// The angle may be negative: terrain below the observer still defines the
// ray's horizon.
type Result struct {
	AngleDeg   float64
	Provenance Provenance
}

// Sample is one terrain point along an azimuth ray.
type Sample struct {
	DistanceKm float64
	ElevationM float64
}

// PeakAngle reduces samples to the highest angle-of-elevation relative to an
// observer at obsElevM. Uses the flat-Earth approximation
// atan((elev-obsElev)/dist), valid at the configured search radii (≤ ~50 km).
// The reduction is a plain maximum and therefore order-independent.
// Returns false when there are no samples.
func PeakAngle(obsElevM float64, samples []Sample) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}

	peak := math.Inf(-1)
	for _, s := range samples {
		relHeight := s.ElevationM - obsElevM
		angle := radToDeg(math.Atan(relHeight / (s.DistanceKm * 1000)))
		if angle > peak {
			peak = angle
		}
	}

	return peak, true
}

// Estimator computes horizon angles for one observation site.
type Estimator struct {
	site          geo.Site
	elevations    elevation.Provider
	maxDistanceKm float64
	stepKm        float64
	log           *logging.Logger
}

// NewEstimator creates an estimator sampling rays out to maxDistanceKm in
// stepKm increments.
func NewEstimator(site geo.Site, elevations elevation.Provider, maxDistanceKm, stepKm float64, log *logging.Logger) *Estimator {
	if log == nil {
		log = logging.Discard()
	}
	return &Estimator{
		site:          site,
		elevations:    elevations,
		maxDistanceKm: maxDistanceKm,
		stepKm:        stepKm,
		log:           log,
	}
}

// Angle returns the horizon angle along azimuthDeg.
//
// Provider failures degrade to a flat-fallback result; a cancelled context
// is not a degraded lookup and comes back as an error instead.
//
// The profile is recomputed per call: the sun's azimuth shifts continuously,
// so correctness never depends on reusing a profile between timestamps.
func (e *Estimator) Angle(ctx context.Context, azimuthDeg float64) (Result, error) {
	distances := e.sampleDistances()
	if len(distances) == 0 {
		return Result{AngleDeg: 0, Provenance: FlatFallback}, nil
	}

	points := make([]geo.Point, len(distances))
	for i, d := range distances {
		points[i] = geo.Destination(e.site.Point, azimuthDeg, d)
	}

	resolved, err := e.elevations.Elevations(ctx, points)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		e.log.Warn("horizon ray at %.1f° unresolved: %v", azimuthDeg, err)
		return Result{AngleDeg: 0, Provenance: FlatFallback}, nil
	}
	if len(resolved) != len(points) {
		e.log.Warn("horizon ray at %.1f°: %d samples for %d points", azimuthDeg, len(resolved), len(points))
		return Result{AngleDeg: 0, Provenance: FlatFallback}, nil
	}

	samples := make([]Sample, 0, len(distances))
	for i, s := range resolved {
		if !s.Valid {
			continue
		}
		samples = append(samples, Sample{DistanceKm: distances[i], ElevationM: s.ElevationM})
	}

	peak, ok := PeakAngle(e.site.ElevationM, samples)
	if !ok {
		// Conservative default: treat an unreadable ray as a flat horizon
		// rather than aborting the search.
		return Result{AngleDeg: 0, Provenance: FlatFallback}, nil
	}

	prov := Complete
	if len(samples) < len(distances) {
		prov = Partial
	}

	return Result{AngleDeg: peak, Provenance: prov}, nil
}

// sampleDistances generates stepKm, 2*stepKm, ... ≤ maxDistanceKm.
func (e *Estimator) sampleDistances() []float64 {
	if e.stepKm <= 0 || e.maxDistanceKm <= 0 {
		return nil
	}

	var distances []float64
	// Tolerance absorbs accumulated float error at the far edge.
	for d := e.stepKm; d <= e.maxDistanceKm+1e-9; d += e.stepKm {
		distances = append(distances, d)
	}
	return distances
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
