// Package report renders search results for headless output, as a text
// table or JSON. Times are shown in the configured display zone.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/horizon"
	"github.com/litescript/ridgeline/internal/search"
)

const timeLayout = "15:04:05"

// ProvenanceNoEvent marks a mode whose event does not occur on the date
// (polar day or night). It is an answer, not an error.
const ProvenanceNoEvent = "no-event"

// Event is the JSON-serializable form of one corrected event.
type Event struct {
	Name          string    `json:"name"`
	Standard      time.Time `json:"standard"`
	Corrected     time.Time `json:"corrected"`
	DeltaMinutes  float64   `json:"delta_minutes"`
	Provenance    string    `json:"provenance"`
	StepsSampled  int       `json:"steps_sampled"`
	FlatFallbacks int       `json:"horizon_flat_fallbacks"`
	Reason        string    `json:"reason,omitempty"`
}

// Twilight carries the civil twilight bounds for the day.
type Twilight struct {
	Dawn time.Time `json:"dawn"`
	Dusk time.Time `json:"dusk"`
}

// Report is the full output of one run.
type Report struct {
	Date      string    `json:"date"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation_m"`
	Events    []Event   `json:"events"`
	Twilight  *Twilight `json:"twilight,omitempty"`
}

// New builds a report shell for a site and date. Events are added with
// AddEvent; twilight with AddTwilight.
func New(site geo.Site, date time.Time, zone *time.Location) *Report {
	return &Report{
		Date:      date.In(zone).Format("2006-01-02"),
		Latitude:  site.Lat,
		Longitude: site.Lon,
		Elevation: site.ElevationM,
	}
}

// AddEvent converts a search result into a report event.
func (r *Report) AddEvent(name string, res search.Result) {
	flat := 0
	for _, s := range res.Steps {
		if s.HorizonProvenance == horizon.FlatFallback {
			flat++
		}
	}
	r.Events = append(r.Events, Event{
		Name:          name,
		Standard:      res.Standard.UTC(),
		Corrected:     res.Time.UTC(),
		DeltaMinutes:  res.Time.Sub(res.Standard).Minutes(),
		Provenance:    res.Provenance.String(),
		StepsSampled:  len(res.Steps),
		FlatFallbacks: flat,
	})
}

// AddNoEvent records a mode whose event never happens on the date, such as
// sunset during polar day. The run carries on with its other modes.
func (r *Report) AddNoEvent(name, reason string) {
	r.Events = append(r.Events, Event{
		Name:       name,
		Provenance: ProvenanceNoEvent,
		Reason:     reason,
	})
}

// AddTwilight records the civil twilight bounds for the site and date.
// Twilight is informational and stays uncorrected for terrain.
func (r *Report) AddTwilight(site geo.Site, date time.Time) error {
	obs := astral.Observer{
		Latitude:  site.Lat,
		Longitude: site.Lon,
		Elevation: site.ElevationM,
	}

	dawn, err := astral.Dawn(obs, date, astral.DepressionCivil)
	if err != nil {
		return fmt.Errorf("civil dawn: %w", err)
	}
	dusk, err := astral.Dusk(obs, date, astral.DepressionCivil)
	if err != nil {
		return fmt.Errorf("civil dusk: %w", err)
	}

	r.Twilight = &Twilight{Dawn: dawn.UTC(), Dusk: dusk.UTC()}
	return nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the report as a human-readable table.
func (r *Report) WriteText(w io.Writer, zone *time.Location) {
	fmt.Fprintf(w, "Ridgeline %s @ %.4f, %.4f (%.0fm)\n", r.Date, r.Latitude, r.Longitude, r.Elevation)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	if len(r.Events) == 0 {
		fmt.Fprintln(w, "No events computed")
	} else {
		fmt.Fprintf(w, "%-10s %-10s %-10s %8s  %-18s %6s\n",
			"Event", "Standard", "Corrected", "Delta", "Provenance", "Steps")
		fmt.Fprintln(w, strings.Repeat("─", 72))

		for _, e := range r.Events {
			if e.Provenance == ProvenanceNoEvent {
				fmt.Fprintf(w, "%-10s no event: %s\n", e.Name, e.Reason)
				continue
			}
			fmt.Fprintf(w, "%-10s %-10s %-10s %+7.1fm  %-18s %6d\n",
				e.Name,
				e.Standard.In(zone).Format(timeLayout),
				e.Corrected.In(zone).Format(timeLayout),
				e.DeltaMinutes,
				e.Provenance,
				e.StepsSampled,
			)
		}
	}

	if r.Twilight != nil {
		fmt.Fprintf(w, "\nCivil twilight: %s – %s\n",
			r.Twilight.Dawn.In(zone).Format(timeLayout),
			r.Twilight.Dusk.In(zone).Format(timeLayout))
	}

	for _, e := range r.Events {
		if e.FlatFallbacks > 0 {
			fmt.Fprintf(w, "\nNote: %d of %d horizon samples fell back to a flat horizon\n",
				e.FlatFallbacks, e.StepsSampled)
			break
		}
	}
}

// WriteTrace writes the per-step scan trace of one result.
func WriteTrace(w io.Writer, name string, res search.Result, zone *time.Location) {
	fmt.Fprintf(w, "%s scan trace (%d steps)\n", name, len(res.Steps))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "%-10s %8s %8s %8s  %-14s\n", "Time", "Azimuth", "Alt", "Horizon", "Horizon src")

	for _, s := range res.Steps {
		fmt.Fprintf(w, "%-10s %7.2f° %+7.2f° %+7.2f°  %-14s\n",
			s.Time.In(zone).Format(timeLayout),
			s.AzimuthDeg,
			s.AltitudeDeg,
			s.HorizonDeg,
			s.HorizonProvenance.String(),
		)
	}
}
