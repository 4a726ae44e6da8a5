package handlers

import (
	"html/template"
	"net/http"
)

// DocsPath is where the API reference is served.
const DocsPath = "/docs"

// DocsHandler serves the OpenAPI reference rendered by Stoplight Elements.
// Colours follow the same palette roles as the storefront themes, switched
// by the reader's colour scheme preference.
type DocsHandler struct {
	title    string
	specPath string
}

// NewDocsHandler creates a new documentation handler.
func NewDocsHandler(title, specPath string) *DocsHandler {
	return &DocsHandler{title: title, specPath: specPath}
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <meta name="referrer" content="same-origin">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <link href="https://unpkg.com/@stoplight/elements@8/styles.min.css" rel="stylesheet">
    <script src="https://unpkg.com/@stoplight/elements@8/web-components.min.js" crossorigin="anonymous"></script>
    <style>
      @media (prefers-color-scheme: dark) {
        html { color-scheme: dark; }
        body { background-color: #1c1b22; }
        .sl-elements {
          --color-canvas: #1c1b22;
          --color-canvas-100: #1c1b22;
          --color-canvas-200: #26252d;
          --color-text: #f4f1ea;
          --color-text-heading: #ffffff;
          --color-border: #3a3842;
        }
      }
    </style>
  </head>
  <body style="height: 100vh; margin: 0;">
    <elements-api apiDescriptionUrl="{{.SpecPath}}" router="hash" layout="sidebar" tryItCredentialsPolicy="same-origin"></elements-api>
  </body>
</html>
`))

// ServeHTTP serves the documentation page.
func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = docsTemplate.Execute(w, struct{ Title, SpecPath string }{h.title, h.specPath})
}
