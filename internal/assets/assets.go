// Package assets provides the embedded static files served next to rendered
// pages: the component stylesheet and the favicon.
//
// The theme palettes are not part of these files. They are generated from the
// design tokens and prepended to base.css when /themes.css is served.
package assets

import (
	"embed"
	"io/fs"
	"mime"
	"path/filepath"
	"strings"
)

// StaticFS embeds the static/ directory.
//
//go:embed all:static
var StaticFS embed.FS

// BaseStylesheet is the path of the component stylesheet within GetStaticFS.
const BaseStylesheet = "css/base.css"

// GetStaticFS returns a sub-filesystem rooted at "static/" for easier access.
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}

// BaseCSS returns the component stylesheet.
func BaseCSS() ([]byte, error) {
	return fs.ReadFile(StaticFS, "static/"+BaseStylesheet)
}

// GetContentType returns the MIME type for a given file path based on extension.
func GetContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}

	switch strings.ToLower(ext) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml; charset=utf-8"
	case ".ico":
		return "image/x-icon"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// ListAssets returns every embedded path relative to static/.
func ListAssets() ([]string, error) {
	var assets []string
	err := fs.WalkDir(StaticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			assets = append(assets, strings.TrimPrefix(path, "static/"))
		}
		return nil
	})
	return assets, err
}
