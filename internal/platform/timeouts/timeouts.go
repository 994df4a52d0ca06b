// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// ScenarioStep caps a single scenario step, including the enumeration it
// triggers.
const ScenarioStep = 10 * time.Second

// TelemetryShutdown limits how long pending spans may take to flush when a
// command exits.
const TelemetryShutdown = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
