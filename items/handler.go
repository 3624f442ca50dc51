// Package items implements the request handlers for the item CRUD surface
// and the API-key gate protecting the admin routes. Handlers are stateless:
// every side effect goes through the store.
package items

import (
	"errors"
	"net/http"

	"github.com/drblury/itemapi/responder"
	"github.com/drblury/itemapi/store"
)

// ErrEmptyName reports a create request whose name is empty after trimming.
var ErrEmptyName = errors.New("item name must not be empty")

// Option configures an ItemHandler via functional options.
type Option func(*ItemHandler)

// ItemHandler serves the item routes against a shared store.
type ItemHandler struct {
	*responder.Responder
	store   *store.Store
	apiKey  string
	apiName string
}

// NewItemHandler constructs an ItemHandler. Without options it gets a fresh
// empty store and a responder wired with the domain error classifier.
func NewItemHandler(opts ...Option) *ItemHandler {
	h := &ItemHandler{
		Responder: responder.New(responder.WithErrorClassifier(ErrorClassifier)),
		store:     store.New(),
		apiName:   "itemapi",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithResponder replaces the responder used to craft JSON responses. The
// responder should carry ErrorClassifier (or a superset) so domain errors map
// to their status codes.
func WithResponder(r *responder.Responder) Option {
	return func(h *ItemHandler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// WithStore shares an existing store with the handler.
func WithStore(s *store.Store) Option {
	return func(h *ItemHandler) {
		if s != nil {
			h.store = s
		}
	}
}

// WithAPIKey sets the shared secret required by the admin routes.
func WithAPIKey(key string) Option {
	return func(h *ItemHandler) {
		h.apiKey = key
	}
}

// WithAPIName sets the service name reported by the root endpoint.
func WithAPIName(name string) Option {
	return func(h *ItemHandler) {
		if name != "" {
			h.apiName = name
		}
	}
}

// Store returns the store backing this handler.
func (h *ItemHandler) Store() *store.Store {
	return h.store
}

// ErrorClassifier maps domain errors onto HTTP status codes for the
// responder. Duplicate names and ids are conflicts, missing items are 404s,
// and invalid input is a bad request.
func ErrorClassifier(err error) (int, bool) {
	switch {
	case errors.Is(err, store.ErrDuplicateName), errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, true
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, store.ErrInvalidID), errors.Is(err, ErrEmptyName):
		return http.StatusBadRequest, true
	default:
		return 0, false
	}
}
