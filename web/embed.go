package web

import (
	"embed"
	"html/template"

	"github.com/dustin/go-humanize"
)

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// ParseTemplates parses every embedded page template.
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(TemplatesFS, "templates/*.html")
}
