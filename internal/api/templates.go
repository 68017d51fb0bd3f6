package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates loads every page. Pages are looked up by file name.
func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
