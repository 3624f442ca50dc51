package info

import (
	"embed"
	"html/template"
)

// UIType selects which OpenAPI documentation viewer a route renders.
type UIType string

const (
	UISwaggerUI UIType = "swaggerui"
	UIRedoc     UIType = "redoc"
	UIRapiDoc   UIType = "rapidoc"
	UIScalar    UIType = "scalar"
)

//go:embed assets/*.html
var assetFS embed.FS

var uiTemplates = map[UIType]*template.Template{
	UISwaggerUI: mustParseAsset("swaggerui"),
	UIRedoc:     mustParseAsset("redoc"),
	UIRapiDoc:   mustParseAsset("rapidoc"),
	UIScalar:    mustParseAsset("scalar"),
}

func mustParseAsset(name string) *template.Template {
	return template.Must(template.ParseFS(assetFS, "assets/"+name+".html"))
}
