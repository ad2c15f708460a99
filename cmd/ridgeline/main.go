// Command ridgeline computes terrain-corrected sunrise and sunset times.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ridgeline/internal/config"
	"github.com/litescript/ridgeline/internal/elevation"
	"github.com/litescript/ridgeline/internal/ephem"
	"github.com/litescript/ridgeline/internal/geo"
	"github.com/litescript/ridgeline/internal/horizon"
	"github.com/litescript/ridgeline/internal/logging"
	"github.com/litescript/ridgeline/internal/report"
	"github.com/litescript/ridgeline/internal/search"
	"github.com/litescript/ridgeline/internal/ui"
)

// CLI flags; unset flags leave the config value alone.
var (
	configPath string
	lat        float64
	lon        float64
	dateStr    string
	modeStr    string
	jsonOut    bool
	traceOut   bool
	tuiMode    bool
	logLevel   string
)

func main() {
	flag.StringVar(&configPath, "config", "", "Config file path (default: ridgeline.yaml if present)")
	flag.Float64Var(&lat, "lat", 0, "Observer latitude in degrees")
	flag.Float64Var(&lon, "lon", 0, "Observer longitude in degrees")
	flag.StringVar(&dateStr, "date", "", "Target date YYYY-MM-DD, or auto for today")
	flag.StringVar(&modeStr, "mode", "", "Events to compute: sunrise, sunset, or both")
	flag.BoolVar(&jsonOut, "json", false, "Emit JSON instead of the text table")
	flag.BoolVar(&traceOut, "trace", false, "Print the per-step scan trace")
	flag.BoolVar(&tuiMode, "tui", false, "Watch the scan live in a terminal UI")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config, layers flag overrides on top, and validates
// the merged result. Only flags the user actually passed override the file;
// flag.Visit reports exactly those, so 0 is a usable coordinate.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadUnvalidated(configPath)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	applyOverrides(cfg, set)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, set map[string]bool) {
	if set["lat"] {
		cfg.Location.Latitude = lat
	}
	if set["lon"] {
		cfg.Location.Longitude = lon
	}
	if set["date"] {
		cfg.Date = dateStr
	}
	if set["mode"] {
		cfg.Mode = config.Mode(modeStr)
	}
	if set["log-level"] {
		cfg.LogLevel = logLevel
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	date, err := cfg.TargetDate(time.Now())
	if err != nil {
		return err
	}
	zone := cfg.Display.Zone()

	provider := ephem.ForMode(ephem.ParseMode(cfg.Ephemeris))
	logger.Debug("Ephemeris backend: %s", provider.Name())

	client := elevation.NewClient(
		elevation.WithURL(cfg.Elevation.URL),
		elevation.WithTimeout(cfg.Elevation.Timeout()),
		elevation.WithChunkSize(cfg.Elevation.ChunkSize),
		elevation.WithLogger(logger.With("elevation")),
	)

	pt := cfg.Location.Point()
	obsElev, ok := elevation.ObserverElevation(ctx, client, pt)
	if !ok {
		logger.Warn("Observer elevation unresolved, assuming sea level")
		obsElev = 0
	}
	site := geo.Site{Point: pt, ElevationM: obsElev}
	logger.Info("Site %.4f, %.4f at %.0fm, date %s",
		site.Lat, site.Lon, site.ElevationM, date.Format("2006-01-02"))

	estimator := horizon.NewEstimator(site, client,
		cfg.Horizon.DistanceKm, cfg.Horizon.StepKm, logger.With("horizon"))
	searcher := search.NewSearcher(provider, estimator, site,
		cfg.Search.Step(), cfg.Search.Budget(), logger.With("search"))

	if tuiMode && term.IsTerminal(int(os.Stdout.Fd())) {
		return runTUI(ctx, cfg, searcher, site, date, zone)
	}
	return runHeadless(ctx, cfg, searcher, site, date, zone, logger, os.Stdout)
}

// eventRun pairs an event name with the search that computes it.
type eventRun struct {
	name string
	run  func(context.Context, time.Time) (search.Result, error)
}

func eventsFor(cfg *config.Config, s *search.Searcher) []eventRun {
	var runs []eventRun
	if cfg.Mode == config.ModeSunrise || cfg.Mode == config.ModeBoth {
		runs = append(runs, eventRun{"sunrise", s.Sunrise})
	}
	if cfg.Mode == config.ModeSunset || cfg.Mode == config.ModeBoth {
		runs = append(runs, eventRun{"sunset", s.Sunset})
	}
	return runs
}

func runHeadless(ctx context.Context, cfg *config.Config, searcher *search.Searcher,
	site geo.Site, date time.Time, zone *time.Location, logger *logging.Logger, w io.Writer) error {

	rep := report.New(site, date, zone)
	var traces []struct {
		name string
		res  search.Result
	}

	for _, ev := range eventsFor(cfg, searcher) {
		res, err := ev.run(ctx, date)
		if err != nil {
			// Polar day/night is a terminal no-event answer for this mode,
			// not a failure of the run; the other mode still gets computed.
			if reason, ok := noEventReason(err); ok {
				logger.Info("%s: %v", ev.name, err)
				rep.AddNoEvent(ev.name, reason)
				continue
			}
			return fmt.Errorf("%s: %w", ev.name, err)
		}
		rep.AddEvent(ev.name, res)
		traces = append(traces, struct {
			name string
			res  search.Result
		}{ev.name, res})
	}

	if err := rep.AddTwilight(site, date); err != nil {
		logger.Warn("Twilight unavailable: %v", err)
	}

	if jsonOut {
		return rep.WriteJSON(w)
	}

	rep.WriteText(w, zone)
	if traceOut {
		for _, tr := range traces {
			fmt.Fprintln(w)
			report.WriteTrace(w, tr.name, tr.res, zone)
		}
	}
	return nil
}

// noEventReason maps the ephemeris polar errors to a report reason.
func noEventReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ephem.ErrAlwaysUp):
		return ephem.ErrAlwaysUp.Error(), true
	case errors.Is(err, ephem.ErrNeverUp):
		return ephem.ErrNeverUp.Error(), true
	default:
		return "", false
	}
}

func runTUI(ctx context.Context, cfg *config.Config, searcher *search.Searcher,
	site geo.Site, date time.Time, zone *time.Location) error {

	model := ui.New(site, date.Format("2006-01-02"), zone)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for _, ev := range eventsFor(cfg, searcher) {
			name := ev.name
			searcher.OnStep = func(s search.Step) {
				p.Send(ui.StepMsg{Event: name, Step: s})
			}
			res, err := ev.run(ctx, date)
			if err != nil {
				p.Send(ui.ScanErrorMsg{Event: name, Err: err})
				continue
			}
			p.Send(ui.ResultMsg{Event: name, Result: res})
		}
		p.Send(ui.DoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
