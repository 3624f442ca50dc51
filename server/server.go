// Package server wires the item handlers, info endpoints, auth gate, and
// middleware chain into one http.Handler.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/itemapi/config"
	"github.com/drblury/itemapi/info"
	"github.com/drblury/itemapi/items"
	"github.com/drblury/itemapi/openapi"
	"github.com/drblury/itemapi/probe"
	"github.com/drblury/itemapi/responder"
	"github.com/drblury/itemapi/router"
	"github.com/drblury/itemapi/store"
	"github.com/drblury/itemapi/version"
)

// Requests that outlive this deadline are cut off with a 503 so graceful
// shutdown cannot hang on a stuck client.
const requestTimeout = 10 * time.Second

// New builds the complete API handler. The store is shared: the item routes
// mutate it and the readiness probe inspects it. Documentation routes are
// registered for every environment except production.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) http.Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	if st == nil {
		st = store.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	resp := responder.New(
		responder.WithLogger(logger),
		responder.WithErrorClassifier(items.ErrorClassifier),
	)

	itemHandler := items.NewItemHandler(
		items.WithResponder(resp),
		items.WithStore(st),
		items.WithAPIKey(cfg.APIKey),
		items.WithAPIName(version.Current().Name),
	)

	infoHandler := info.NewInfoHandler(
		info.WithResponder(resp),
		info.WithVersionProvider(func() any { return version.Current() }),
		info.WithSwaggerProvider(openapi.JSON),
		info.WithReadinessChecks(storeProbe(st)),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", itemHandler.GetRoot)
	mux.HandleFunc("GET /version", infoHandler.GetVersion)
	mux.HandleFunc("GET /item", itemHandler.GetItem)
	mux.HandleFunc("GET /items", itemHandler.ListItems)
	mux.HandleFunc("POST /items", itemHandler.CreateItem)

	// The mux resolves the verb before the key check, so a GET against these
	// patterns is a 405 even without a credential.
	mux.Handle("DELETE /admin/remove/{name}", itemHandler.RequireAPIKey(http.HandlerFunc(itemHandler.RemoveItem)))
	mux.Handle("DELETE /admin/clear_items", itemHandler.RequireAPIKey(http.HandlerFunc(itemHandler.ClearItems)))

	mux.HandleFunc("GET /status", infoHandler.GetStatus)
	mux.HandleFunc("GET /healthz", infoHandler.GetHealthz)
	mux.HandleFunc("GET /readyz", infoHandler.GetReadyz)

	if cfg.Env != config.Production {
		mux.HandleFunc("GET /doc", infoHandler.OpenAPIUI(info.UISwaggerUI))
		mux.HandleFunc("GET /redoc", infoHandler.OpenAPIUI(info.UIRedoc))
		mux.HandleFunc("GET /rapidoc", infoHandler.OpenAPIUI(info.UIRapiDoc))
		mux.HandleFunc("GET /scalar", infoHandler.OpenAPIUI(info.UIScalar))
		mux.HandleFunc("GET /api-docs/openapi.json", infoHandler.GetOpenAPIJSON)
	}

	return router.New(mux,
		router.WithLogger(logger),
		router.WithSwagger(openapi.Document()),
		router.WithValidationErrorHandler(func(w http.ResponseWriter, message string, statusCode int) {
			resp.HandleAPIError(w, nil, statusCode, errors.New(message), "request validation failed")
		}),
		router.WithConfig(router.Config{
			Timeout:         requestTimeout,
			QuietdownRoutes: []string{"/status", "/healthz", "/readyz"},
			HideHeaders:     []string{items.APIKeyHeader},
		}),
	)
}

func storeProbe(st *store.Store) probe.Func {
	return probe.NewPingProbe("store", func(ctx context.Context) error {
		if st == nil {
			return errors.New("store is not initialised")
		}
		st.Len()
		return nil
	})
}
