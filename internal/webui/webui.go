// Package webui bundles the site's HTML templates and static assets
// into the binary so the server ships as a single artifact.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
)

//go:embed templates/*.html static/*
var assets embed.FS

// funcMap holds the helpers the templates rely on.
var funcMap = template.FuncMap{
	"price": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
}

// Templates parses the embedded HTML templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("webui: parse templates: %w", err)
	}
	return tmpl, nil
}

// StaticFS returns the embedded static asset tree.
func StaticFS() (fs.FS, error) {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, fmt.Errorf("webui: static fs: %w", err)
	}
	return sub, nil
}
