// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Live scan TUI, civil twilight in reports, Meeus ephemeris backend
// 0.2.0 - Terrain horizon profiles via Open-Elevation, graceful degradation
// 0.1.0 - Initial release: standard sunrise/sunset, backward/forward scan, JSON export
