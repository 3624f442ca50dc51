package info

import (
	"fmt"
	"net/http"
)

// GetStatus returns a simple health payload that can be used for lightweight diagnostics.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz implements the liveness probe recommended for Kubernetes.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe recommended for Kubernetes.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured VersionProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.versionProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON streams the configured OpenAPI JSON document to the caller.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	bytes, err := ih.swaggerProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load swagger spec")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(bytes); err != nil {
		ih.Logger().Error("failed to write swagger response", "error", err)
	}
}

// OpenAPIUI returns a handler rendering the documentation viewer for the
// given UI. Each UI is mounted on its own route, so one handler instance can
// serve several viewers at once.
func (ih *InfoHandler) OpenAPIUI(ui UIType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl := uiTemplate(ui)
		if tmpl == nil {
			err := fmt.Errorf("no template for documentation UI %q", ui)
			ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render openapi template")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		if err := tmpl.Execute(w, ih.templateData()); err != nil {
			ih.Logger().Error("failed to render openapi template", "error", err, "ui", string(ui))
		}
	}
}
