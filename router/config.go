package router

import "time"

// Config collects the declarative knobs for the default middleware chain.
type Config struct {
	// Timeout bounds request handling; expired requests get the timeout
	// status and body from http.TimeoutHandler.
	Timeout time.Duration
	// QuietdownRoutes lists paths excluded from request logging, typically
	// probe endpoints polled by orchestrators.
	QuietdownRoutes []string
	// HideHeaders lists header names whose values are redacted in request
	// logs, such as api keys and auth tokens.
	HideHeaders []string
	// CORS configures cross-origin handling; CORS headers are only emitted
	// when at least one origin is configured.
	CORS CORSConfig
}

// CORSConfig declares the allowed cross-origin surface.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}
