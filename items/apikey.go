package items

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// APIKeyHeader is the request header carrying the admin credential.
const APIKeyHeader = "api-key"

// RequireAPIKey guards next behind the configured shared secret. The key is
// compared in constant time so response timing reveals nothing about the
// secret. Method dispatch happens in the mux before this runs, so a wrong
// verb gets a 405 whether or not the caller holds a key.
func (h *ItemHandler) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" {
			h.HandleUnauthorizedError(w, r, errors.New("missing api-key header"))
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
			h.HandleUnauthorizedError(w, r, errors.New("invalid API key"), r.Method+" "+r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}
