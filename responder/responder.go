// Package responder centralises JSON rendering, structured error payloads,
// and logging for the API handlers. Errors are rendered as RFC 9457 problem
// documents carrying a ULID trace id that also appears in the log record.
package responder

import (
	"fmt"
	"log/slog"
	"net/http"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// ErrorClassifierFunc inspects an error and returns the HTTP status that
// should be used for the response. The boolean reports whether the error was
// classified; unclassified errors fall through to the internal server
// error handler.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// Option configures optional collaborators of a Responder.
type Option func(*Responder)

type statusMeta struct {
	typeURI  string
	title    string
	logLevel slog.Level
	logMsg   string
}

// StatusMetadata customises how a particular HTTP status code is logged and
// represented in problem payloads.
type StatusMetadata struct {
	TypeURI  string
	Title    string
	LogLevel slog.Level
	LogMsg   string
}

// Responder renders success and error responses for HTTP handlers.
type Responder struct {
	log             *slog.Logger
	statusMetadata  map[int]statusMeta
	errorClassifier ErrorClassifierFunc
}

// New constructs a Responder with the default status metadata and the global
// slog logger.
func New(opts ...Option) *Responder {
	r := &Responder{
		log:            slog.Default(),
		statusMetadata: defaultStatusMetadata(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects the slog logger used for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier installs the classifier used by HandleErrors to derive
// status codes from domain errors.
func WithErrorClassifier(classifier ErrorClassifierFunc) Option {
	return func(r *Responder) {
		r.errorClassifier = classifier
	}
}

// WithStatusMetadata overrides the metadata used for one HTTP status code.
func WithStatusMetadata(status int, meta StatusMetadata) Option {
	return func(r *Responder) {
		if r.statusMetadata == nil {
			r.statusMetadata = make(map[int]statusMeta)
		}
		r.statusMetadata[status] = normalizeStatusMeta(status, statusMeta{
			typeURI:  meta.TypeURI,
			title:    meta.Title,
			logLevel: meta.LogLevel,
			logMsg:   meta.LogMsg,
		})
	}
}

// Logger returns the slog logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

func (r *Responder) classifyError(err error) (int, bool) {
	if r.errorClassifier == nil {
		return 0, false
	}
	return r.errorClassifier(err)
}

// Lookup misses and auth failures are expected traffic, so they log below
// error level; only unexplained failures log as errors.
func defaultStatusMetadata() map[int]statusMeta {
	levels := map[int]slog.Level{
		http.StatusInternalServerError: slog.LevelError,
		http.StatusBadRequest:          slog.LevelWarn,
		http.StatusUnauthorized:        slog.LevelWarn,
		http.StatusConflict:            slog.LevelWarn,
		http.StatusMethodNotAllowed:    slog.LevelWarn,
		http.StatusNotFound:            slog.LevelInfo,
	}

	metas := make(map[int]statusMeta, len(levels))
	for status, level := range levels {
		metas[status] = statusMeta{
			typeURI:  fmt.Sprintf("%s/%d", statusDocBaseURL, status),
			title:    http.StatusText(status),
			logLevel: level,
			logMsg:   http.StatusText(status),
		}
	}
	return metas
}
