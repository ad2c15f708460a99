// Package elevation resolves ground elevations for batches of coordinates.
package elevation

import (
	"context"

	"github.com/litescript/ridgeline/internal/geo"
)

// Sample is the elevation result for one input coordinate. Valid is false
// when the provider could not resolve the point; callers skip such samples
// rather than failing.
type Sample struct {
	ElevationM float64
	Valid      bool
}

// Provider resolves ground elevation for an ordered batch of points.
// Implementations must return one sample per input point, in input order,
// degrading unresolvable points to Valid:false instead of failing the call.
type Provider interface {
	Elevations(ctx context.Context, points []geo.Point) ([]Sample, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, points []geo.Point) ([]Sample, error)

// Elevations implements Provider.
func (f ProviderFunc) Elevations(ctx context.Context, points []geo.Point) ([]Sample, error) {
	return f(ctx, points)
}

// ObserverElevation resolves the elevation of a single point, for anchoring
// an observation site. Returns 0 and false when the provider cannot resolve
// it; the caller decides whether a sea-level assumption is acceptable.
func ObserverElevation(ctx context.Context, p Provider, pt geo.Point) (float64, bool) {
	samples, err := p.Elevations(ctx, []geo.Point{pt})
	if err != nil || len(samples) != 1 || !samples[0].Valid {
		return 0, false
	}
	return samples[0].ElevationM, true
}
