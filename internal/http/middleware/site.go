package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jmylchreest/blockfront/internal/observability"
	"github.com/jmylchreest/blockfront/internal/site"
)

// LocaleCookie names the cookie that pins a visitor's locale.
const LocaleCookie = "NEXT_LOCALE"

// SiteResolver stores the site serving the request host in the context.
func SiteResolver(dir *site.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := dir.ForHost(r.Host)
			ctx := site.WithSite(r.Context(), st)
			ctx = observability.ContextWithSite(ctx, st.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// localeExempt lists path prefixes that are never localised.
var localeExempt = []string{
	"/api/",
	"/static/",
	"/docs",
	"/openapi",
	"/schemas/",
	"/health",
	"/livez",
	"/readyz",
	"/themes.css",
	"/sitemap.xml",
	"/robots.txt",
	"/favicon.svg",
}

// Locale resolves the request locale. A path that starts with a supported
// locale segment has the segment stripped and the locale stored in the
// context; the routes below only ever see unprefixed paths. An unprefixed
// GET is redirected with 307 to the locale named by the NEXT_LOCALE cookie,
// or failing that the best Accept-Language match, when that locale is not
// the default. Everything else continues in the default locale.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := site.FromContext(r.Context())
		if st == nil || isLocaleExempt(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if locale, rest, ok := splitLocale(st, r.URL.Path); ok {
			next.ServeHTTP(w, withLocale(r, locale, rest))
			return
		}

		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			if preferred := preferredLocale(st, r); !st.IsDefaultLocale(preferred) {
				w.Header().Add("Vary", "Accept-Language, Cookie")
				http.Redirect(w, r, LocalizedURL(st, preferred, r.URL), http.StatusTemporaryRedirect)
				return
			}
		}
		next.ServeHTTP(w, withLocale(r, st.DefaultLocale, ""))
	})
}

// RequestLocale returns the locale chosen by the Locale middleware.
func RequestLocale(ctx context.Context) string {
	if l := observability.LocaleFromContext(ctx); l != "" {
		return l
	}
	if st := site.FromContext(ctx); st != nil {
		return st.DefaultLocale
	}
	return ""
}

// preferredLocale applies the cookie first, then Accept-Language. A cookie
// naming the default locale also counts, so a visitor can opt out of the
// Accept-Language redirect.
func preferredLocale(st *site.Site, r *http.Request) string {
	if c, err := r.Cookie(LocaleCookie); err == nil {
		if l, ok := st.Locale(c.Value); ok {
			return l
		}
	}
	return st.MatchLocale(r.Header.Get("Accept-Language"))
}

// splitLocale returns the locale segment of path and the path without it.
func splitLocale(st *site.Site, path string) (string, string, bool) {
	seg, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if seg == "" {
		return "", "", false
	}
	l, ok := st.Locale(seg)
	if !ok {
		return "", "", false
	}
	return l, "/" + rest, true
}

// withLocale stores locale in the request context and, when path is not
// empty, rewrites the request path to it.
func withLocale(r *http.Request, locale, path string) *http.Request {
	r = r.WithContext(observability.ContextWithLocale(r.Context(), locale))
	if path == "" {
		return r
	}
	u := *r.URL
	u.Path = path
	u.RawPath = ""
	r.URL = &u
	return r
}

func isLocaleExempt(path string) bool {
	for _, p := range localeExempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// LocalizedURL returns u with its path moved under locale for st.
func LocalizedURL(st *site.Site, locale string, u *url.URL) string {
	out := st.Path(locale, u.Path)
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}
