// Package msgs provides the telemetry message schemas.
package msgs

// Telemetry is published by the panel for remote monitors,
// every message is wrapped in a Typed envelope.
//
// Producer: linepanel
// Consumer: linemon, browsers
