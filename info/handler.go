// Package info exposes build metadata, health probes, and the OpenAPI
// documentation endpoints: the raw JSON document plus HTML viewers for
// SwaggerUI, Redoc, RapiDoc, and Scalar.
package info

import (
	"errors"
	"html/template"
	"time"

	"github.com/drblury/itemapi/probe"
	"github.com/drblury/itemapi/responder"
)

// VersionProvider returns the payload exposed by the version endpoint.
type VersionProvider func() any

// SwaggerProvider returns the raw OpenAPI document rendered by the
// documentation endpoints.
type SwaggerProvider func() ([]byte, error)

// Option configures an InfoHandler via functional options.
type Option func(*InfoHandler)

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

const defaultProbeTimeout = 2 * time.Second

// InfoHandler serves the auxiliary endpoints around the items API: status,
// probes, version metadata, and OpenAPI documentation.
type InfoHandler struct {
	*responder.Responder
	baseURL         string
	versionProvider VersionProvider
	swaggerProvider SwaggerProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewInfoHandler constructs an InfoHandler with sensible defaults.
func NewInfoHandler(opts ...Option) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.New(),
		versionProvider: func() any {
			return map[string]string{}
		},
		swaggerProvider: func() ([]byte, error) {
			return nil, errors.New("api swagger provider not configured")
		},
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithResponder replaces the responder used to craft JSON responses.
func WithResponder(r *responder.Responder) Option {
	return func(ih *InfoHandler) {
		if r != nil {
			ih.Responder = r
		}
	}
}

// WithBaseURL sets the URL prefix injected into the rendered documentation
// pages when the OpenAPI document is served from another host.
func WithBaseURL(baseURL string) Option {
	return func(ih *InfoHandler) {
		ih.baseURL = baseURL
	}
}

// WithVersionProvider swaps the default build metadata provider.
func WithVersionProvider(provider VersionProvider) Option {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.versionProvider = provider
		}
	}
}

// WithSwaggerProvider sets the source of the OpenAPI JSON document.
func WithSwaggerProvider(provider SwaggerProvider) Option {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.swaggerProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks with the supplied functions.
func WithLivenessChecks(checks ...ProbeFunc) Option {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks with the supplied functions.
func WithReadinessChecks(checks ...ProbeFunc) Option {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

func (ih *InfoHandler) templateData() map[string]any {
	specURL := "/api-docs/openapi.json"
	if ih.baseURL != "" {
		specURL = ih.baseURL + specURL
	}
	return map[string]any{
		"BaseURL": ih.baseURL,
		"SpecURL": specURL,
	}
}

func uiTemplate(ui UIType) *template.Template {
	if tmpl, ok := uiTemplates[ui]; ok {
		return tmpl
	}
	return nil
}
