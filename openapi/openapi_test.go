package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/drblury/itemapi/jsonutil"
)

func TestDocumentIsValid(t *testing.T) {
	doc := Document()

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document failed validation: %v", err)
	}
}

func TestDocumentIsRoutable(t *testing.T) {
	// The request validator indexes the document with the same router, so
	// an unroutable document would break every request.
	if _, err := legacy.NewRouter(Document()); err != nil {
		t.Fatalf("failed to index document: %v", err)
	}
}

func TestDocumentPaths(t *testing.T) {
	doc := Document()

	expected := []string{
		"/",
		"/version",
		"/item",
		"/items",
		"/admin/remove/{name}",
		"/admin/clear_items",
	}
	for _, path := range expected {
		if doc.Paths.Value(path) == nil {
			t.Fatalf("expected path %s to be documented", path)
		}
	}

	if doc.Paths.Len() != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), doc.Paths.Len())
	}
}

func TestAdminOperationsRequireAPIKey(t *testing.T) {
	doc := Document()

	scheme := doc.Components.SecuritySchemes[securitySchemeName]
	if scheme == nil || scheme.Value == nil {
		t.Fatal("expected the api_key security scheme to be declared")
	}
	if scheme.Value.Type != "apiKey" || scheme.Value.Name != APIKeyHeader {
		t.Fatalf("unexpected security scheme %+v", scheme.Value)
	}

	for _, path := range []string{"/admin/remove/{name}", "/admin/clear_items"} {
		op := doc.Paths.Value(path).Delete
		if op == nil {
			t.Fatalf("expected a DELETE operation on %s", path)
		}
		if op.Security == nil || len(*op.Security) == 0 {
			t.Fatalf("expected %s to declare security", path)
		}
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := jsonutil.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("rendered document is not valid json: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", decoded["openapi"])
	}
	if !strings.Contains(string(data), "\n") {
		t.Fatal("expected indented output")
	}
}
