// Package openapi declares the API contract as an OpenAPI 3 document. The
// document is served at /api-docs/openapi.json, rendered by the HTML doc
// viewers, and used by the router to validate incoming requests.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/itemapi/jsonutil"
	"github.com/drblury/itemapi/store"
	"github.com/drblury/itemapi/version"
)

const securitySchemeName = "api_key"

// APIKeyHeader is the header carrying the admin credential.
const APIKeyHeader = "api-key"

// Document builds the OpenAPI description of the items API.
func Document() *openapi3.T {
	info := version.Current()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       info.Name,
			Description: "Run REST API for an in-memory collection of named items.",
			Version:     info.Version,
		},
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				securitySchemeName: &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{
						Type: "apiKey",
						Name: APIKeyHeader,
						In:   "header",
					},
				},
			},
		},
		Paths: paths(),
	}
	return doc
}

// JSON serialises the document for the /api-docs/openapi.json endpoint.
func JSON() ([]byte, error) {
	data, err := Document().MarshalJSON()
	if err != nil {
		return nil, err
	}
	// Round-trip through jsonutil for stable, indented output.
	var v any
	if err := jsonutil.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return jsonutil.MarshalIndent(v, "", "  ")
}

func paths() *openapi3.Paths {
	paths := openapi3.NewPaths()
	paths.Set("/", &openapi3.PathItem{Get: rootOp()})
	paths.Set("/version", &openapi3.PathItem{Get: versionOp()})
	paths.Set("/item", &openapi3.PathItem{Get: queryItemOp()})
	paths.Set("/items", &openapi3.PathItem{Get: listItemsOp(), Post: createItemOp()})
	paths.Set("/admin/remove/{name}", &openapi3.PathItem{Delete: removeItemOp()})
	paths.Set("/admin/clear_items", &openapi3.PathItem{Delete: clearItemsOp()})
	return paths
}

func rootOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "root",
		Summary:     "Return API name with the current date and time",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("API name with current datetime", messageSchema())),
		),
	}
}

func versionOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "version",
		Summary:     "Return version and build information",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Version information", versionSchema())),
		),
	}
}

func queryItemOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "queryItem",
		Summary:     "Get item info by name",
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{
				Value: openapi3.NewQueryParameter("name").
					WithRequired(true).
					WithSchema(openapi3.NewStringSchema().WithMinLength(1)),
			},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Found existing item", itemSchema())),
			openapi3.WithStatus(404, problemResponse("Item does not exist")),
		),
	}
}

func listItemsOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "listItems",
		Summary:     "List all item names",
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Item names with total count", itemListSchema())),
		),
	}
}

func createItemOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "createItem",
		Summary:     "Create a new item",
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(createItemSchema()),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, jsonResponse("New item created", itemSchema())),
			openapi3.WithStatus(409, problemResponse("Item name or id already exists")),
			openapi3.WithStatus(400, problemResponse("Malformed or invalid request body")),
		),
	}
}

func removeItemOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "removeItem",
		Summary:     "Remove the item with the given name",
		Security:    adminSecurity(),
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{
				Value: openapi3.NewPathParameter("name").
					WithRequired(true).
					WithSchema(openapi3.NewStringSchema()),
			},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Item removed", itemSchema())),
			openapi3.WithStatus(404, problemResponse("Item does not exist")),
			openapi3.WithStatus(401, problemResponse("Missing or invalid API key")),
		),
	}
}

func clearItemsOp() *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "clearItems",
		Summary:     "Remove all items",
		Security:    adminSecurity(),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, jsonResponse("Report number of items deleted", messageSchema())),
			openapi3.WithStatus(401, problemResponse("Missing or invalid API key")),
		),
	}
}

func adminSecurity() *openapi3.SecurityRequirements {
	return openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate(securitySchemeName))
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchema(schema),
	}
}

func problemResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithContent(openapi3.NewContentWithSchema(problemSchema(), []string{"application/problem+json"})),
	}
}

func itemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithRequired([]string{"id", "name"})
}

func createItemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("id", openapi3.NewInt64Schema().
			WithMin(store.MinItemID).
			WithMax(store.MaxItemID)).
		WithRequired([]string{"name"})
}

func itemListSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("num_items", openapi3.NewInt64Schema()).
		WithProperty("names", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithRequired([]string{"num_items", "names"})
}

func messageSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithRequired([]string{"message"})
}

func versionSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, field := range []string{"name", "version", "deploy_tag", "build_time", "branch", "commit", "go_version"} {
		schema = schema.WithProperty(field, openapi3.NewStringSchema())
	}
	return schema
}

func problemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewInt64Schema()).
		WithProperty("detail", openapi3.NewStringSchema()).
		WithProperty("instance", openapi3.NewStringSchema()).
		WithProperty("traceId", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewStringSchema())
}