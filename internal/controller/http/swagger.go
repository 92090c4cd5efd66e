package http

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/httpx/response"
)

const swaggerUITemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - API Documentation</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
    <style>
        html { box-sizing: border-box; overflow-y: scroll; }
        *, *:before, *:after { box-sizing: inherit; }
        body { margin: 0; background: #fafafa; }
        .swagger-ui .topbar { display: none; }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            SwaggerUIBundle({
                url: "{{.SpecURL}}",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout",
                defaultModelsExpandDepth: 1,
                defaultModelExpandDepth: 1,
                docExpansion: "list",
                filter: true,
                showExtensions: true,
                showCommonExtensions: true
            });
        };
    </script>
</body>
</html>`

// SwaggerHandler serves Swagger UI and the OpenAPI document
type SwaggerHandler struct {
	title   string
	specURL string
	spec    []byte
}

// NewSwaggerHandler creates a new Swagger handler for a YAML OpenAPI document
func NewSwaggerHandler(title string, spec []byte) *SwaggerHandler {
	return &SwaggerHandler{
		title:   title,
		specURL: "/docs/openapi.yaml",
		spec:    spec,
	}
}

// RegisterRoutes registers Swagger routes
func (h *SwaggerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/docs", h.UI())
	r.Get("/docs/", http.RedirectHandler("/docs", http.StatusMovedPermanently).ServeHTTP)
	r.Get("/docs/openapi.yaml", h.Spec())
	r.Get("/docs/openapi.json", h.SpecJSON())
}

// UI serves the Swagger UI HTML page
func (h *SwaggerHandler) UI() http.HandlerFunc {
	tmpl := template.Must(template.New("swagger").Parse(swaggerUITemplate))
	data := struct {
		Title   string
		SpecURL string
	}{
		Title:   h.title,
		SpecURL: h.specURL,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "failed to render template", http.StatusInternalServerError)
		}
	}
}

// Spec serves the OpenAPI document as YAML
func (h *SwaggerHandler) Spec() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(h.spec)
	}
}

// SpecJSON serves the OpenAPI document converted to JSON
func (h *SwaggerHandler) SpecJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc map[string]interface{}
		if err := yaml.Unmarshal(h.spec, &doc); err != nil {
			response.InternalError(w, "invalid OpenAPI document")
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		response.OK(w, doc)
	}
}
