package middleware

import (
	"net/http"
	"path"
	"strings"
)

// incompressible lists extensions of files that are already compressed.
var incompressible = map[string]bool{
	".png":   true,
	".jpg":   true,
	".jpeg":  true,
	".webp":  true,
	".gif":   true,
	".woff2": true,
	".ico":   true,
}

// SkipCompressionForBinary wraps a compression middleware so that requests
// for already-compressed assets and HEAD requests bypass it.
func SkipCompressionForBinary(compressionHandler func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		compressedHandler := compressionHandler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || incompressible[strings.ToLower(path.Ext(r.URL.Path))] {
				next.ServeHTTP(w, r)
				return
			}
			compressedHandler.ServeHTTP(w, r)
		})
	}
}
