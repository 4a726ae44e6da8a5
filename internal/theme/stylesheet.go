package theme

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Palette maps a role (background, foreground, primary, ...) to a CSS value.
type Palette map[string]string

// Stylesheet renders one rule block per theme, keyed by the marker attribute:
//
//	[data-theme="dark"] {
//	  --theme-background: #101010;
//	}
//
// Themes are emitted in canonical order and roles alphabetically so the output
// is stable for caching. Themes without a palette are skipped.
func Stylesheet(palettes map[Theme]Palette) []byte {
	var buf bytes.Buffer
	for _, t := range all {
		palette, ok := palettes[t]
		if !ok || len(palette) == 0 {
			continue
		}
		roles := make([]string, 0, len(palette))
		for role := range palette {
			roles = append(roles, role)
		}
		sort.Strings(roles)

		fmt.Fprintf(&buf, "[%s=%q] {\n", MarkerAttribute, string(t))
		for _, role := range roles {
			fmt.Fprintf(&buf, "  --theme-%s: %s;\n", cssIdent(role), palette[role])
		}
		buf.WriteString("}\n")
	}
	return buf.Bytes()
}

func cssIdent(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '_' || r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	return b.String()
}
