// Package router assembles the HTTP middleware chain for the API: OpenAPI
// request validation, CORS, request timeouts, and request logging with header
// redaction, wrapped around a standard library ServeMux.
package router
