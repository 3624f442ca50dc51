package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/drblury/itemapi/config"
	"github.com/drblury/itemapi/items"
	"github.com/drblury/itemapi/jsonutil"
	"github.com/drblury/itemapi/store"
	"github.com/drblury/itemapi/version"
)

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, store.New(), logger)
}

func do(t *testing.T, h http.Handler, method, target, body, apiKey string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set(items.APIKeyHeader, apiKey)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_ItemLifecycle(t *testing.T) {
	srv := newTestServer(t, config.Default())

	rec := do(t, srv, http.MethodPost, "/items", `{"name":"esgrove"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created store.Item
	if err := jsonutil.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created item: %v", err)
	}
	if created.Name != "esgrove" || created.ID < store.MinItemID {
		t.Fatalf("unexpected created item: %+v", created)
	}

	rec = do(t, srv, http.MethodGet, "/item?name=esgrove", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/items", `{"name":"esgrove"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodDelete, "/admin/remove/esgrove", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("remove without key: expected 401, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodDelete, "/admin/remove/esgrove", "", config.DefaultAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove with key: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/item?name=esgrove", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("fetch after remove: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_ListItems(t *testing.T) {
	srv := newTestServer(t, config.Default())

	for _, name := range []string{"zebra", "alpha", "mango"} {
		rec := do(t, srv, http.MethodPost, "/items", fmt.Sprintf(`{"name":%q}`, name), "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d", name, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodGet, "/items", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body items.ItemListResponse
	if err := jsonutil.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if body.NumItems != 3 {
		t.Fatalf("expected 3 items, got %d", body.NumItems)
	}
	want := []string{"alpha", "mango", "zebra"}
	for i, name := range want {
		if body.Names[i] != name {
			t.Fatalf("expected sorted names %v, got %v", want, body.Names)
		}
	}
}

func TestServer_ClearItems(t *testing.T) {
	srv := newTestServer(t, config.Default())

	for i := 0; i < 5; i++ {
		rec := do(t, srv, http.MethodPost, "/items", fmt.Sprintf(`{"name":"item-%d"}`, i), "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, rec.Code)
		}
	}

	rec := do(t, srv, http.MethodDelete, "/admin/clear_items", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("clear without key: expected 401, got %d", rec.Code)
	}

	rec = do(t, srv, http.MethodDelete, "/admin/clear_items", "", config.DefaultAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear with key: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var msg items.MessageResponse
	if err := jsonutil.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Message != "Removed 5 items" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	rec = do(t, srv, http.MethodGet, "/items", "", "")
	var body items.ItemListResponse
	if err := jsonutil.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if body.NumItems != 0 {
		t.Fatalf("expected empty store after clear, got %d items", body.NumItems)
	}
}

func TestServer_AdminMethodDispatch(t *testing.T) {
	srv := newTestServer(t, config.Default())

	// Method resolution happens before the key check, so the wrong verb is a
	// 405 regardless of the credential.
	for _, key := range []string{"", config.DefaultAPIKey} {
		rec := do(t, srv, http.MethodGet, "/admin/remove/esgrove", "", key)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("key=%q: expected 405, got %d: %s", key, rec.Code, rec.Body.String())
		}

		rec = do(t, srv, http.MethodPost, "/admin/clear_items", "", key)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("key=%q: expected 405, got %d: %s", key, rec.Code, rec.Body.String())
		}
	}
}

func TestServer_RequestValidation(t *testing.T) {
	srv := newTestServer(t, config.Default())

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/items", `{"name":`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/items", `{"id":1234}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("id below range", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/items", `{"name":"esgrove","id":42}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing query parameter", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/item", "", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestServer_Version(t *testing.T) {
	srv := newTestServer(t, config.Default())

	rec := do(t, srv, http.MethodGet, "/version", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body version.Info
	if err := jsonutil.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if body.Name == "" {
		t.Fatal("expected version name to be set")
	}
	if !strings.HasPrefix(body.GoVersion, "go") {
		t.Fatalf("unexpected go version %q", body.GoVersion)
	}
}

func TestServer_DocsRoutes(t *testing.T) {
	docRoutes := []string{"/doc", "/redoc", "/rapidoc", "/scalar", "/api-docs/openapi.json"}

	t.Run("available outside production", func(t *testing.T) {
		srv := newTestServer(t, config.Default())
		for _, route := range docRoutes {
			rec := do(t, srv, http.MethodGet, route, "", "")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", route, rec.Code)
			}
		}
	})

	t.Run("hidden in production", func(t *testing.T) {
		srv := newTestServer(t, &config.Config{APIKey: config.DefaultAPIKey, Env: config.Production})
		for _, route := range docRoutes {
			rec := do(t, srv, http.MethodGet, route, "", "")
			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s: expected 404 in production, got %d", route, rec.Code)
			}
		}
	})
}

func TestServer_Probes(t *testing.T) {
	srv := newTestServer(t, config.Default())

	for route, want := range map[string]string{
		"/status":  "HEALTHY",
		"/healthz": "ok",
		"/readyz":  "ready",
	} {
		rec := do(t, srv, http.MethodGet, route, "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", route, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("%s: expected body to mention %q, got %q", route, want, rec.Body.String())
		}
	}
}

func TestServer_ConcurrentCreateSameName(t *testing.T) {
	const workers = 100

	srv := newTestServer(t, config.Default())

	var wg sync.WaitGroup
	codes := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rec := do(t, srv, http.MethodPost, "/items", `{"name":"esgrove"}`, "")
			codes[idx] = rec.Code
		}(i)
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	if created != 1 || conflicted != workers-1 {
		t.Fatalf("expected 1 created and %d conflicts, got %d and %d", workers-1, created, conflicted)
	}
}
