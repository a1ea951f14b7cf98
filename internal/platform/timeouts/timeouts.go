// Package timeouts defines shared timeout constants used across hubbble.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// APIRequest caps a single call from the web service to the portal API.
const APIRequest = 30 * time.Second

// PortalRedirect is how long the wizard success screen stays up before the
// browser is sent back to the dashboard.
const PortalRedirect = 1500 * time.Millisecond
