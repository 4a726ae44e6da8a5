package registry

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/blockfront/internal/theme"
)

// Token is one named design value offered in the editor's style pickers.
type Token struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// DesignTokenSet is the editor's design token catalogue plus the per-theme
// CSS palettes served in the stylesheet.
type DesignTokenSet struct {
	Colors        []Token `json:"colors,omitempty" yaml:"colors"`
	Spacing       []Token `json:"spacing,omitempty" yaml:"spacing"`
	FontFamily    []Token `json:"fontFamily,omitempty" yaml:"fontFamily"`
	FontSize      []Token `json:"fontSize,omitempty" yaml:"fontSize"`
	FontWeight    []Token `json:"fontWeight,omitempty" yaml:"fontWeight"`
	LineHeight    []Token `json:"lineHeight,omitempty" yaml:"lineHeight"`
	LetterSpacing []Token `json:"letterSpacing,omitempty" yaml:"letterSpacing"`
	BorderRadius  []Token `json:"borderRadius,omitempty" yaml:"borderRadius"`
	BoxShadow     []Token `json:"boxShadow,omitempty" yaml:"boxShadow"`

	Themes map[string]map[string]string `json:"-" yaml:"themes"`
}

// LoadDesignTokens decodes a YAML token document. Unknown keys are rejected.
func LoadDesignTokens(r io.Reader) (DesignTokenSet, error) {
	var set DesignTokenSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		if err == io.EOF {
			return DesignTokenSet{}, nil
		}
		return DesignTokenSet{}, fmt.Errorf("decoding design tokens: %w", err)
	}
	if set.Themes != nil {
		themes := make(map[string]map[string]string, len(set.Themes))
		for name, roles := range set.Themes {
			t, err := theme.Parse(name)
			if err != nil {
				return DesignTokenSet{}, fmt.Errorf("design tokens: %w", err)
			}
			if t == "" {
				return DesignTokenSet{}, fmt.Errorf("design tokens: theme with empty name")
			}
			if _, dup := themes[t.String()]; dup {
				return DesignTokenSet{}, fmt.Errorf("design tokens: theme %s is listed more than once", t)
			}
			themes[t.String()] = roles
		}
		set.Themes = themes
	}
	return set, nil
}

// Merge returns s with override applied. Tokens are matched by name within
// each category; overridden tokens keep their position and new ones are
// appended. Theme palettes are merged role by role.
func (s DesignTokenSet) Merge(override DesignTokenSet) DesignTokenSet {
	out := DesignTokenSet{
		Colors:        mergeTokens(s.Colors, override.Colors),
		Spacing:       mergeTokens(s.Spacing, override.Spacing),
		FontFamily:    mergeTokens(s.FontFamily, override.FontFamily),
		FontSize:      mergeTokens(s.FontSize, override.FontSize),
		FontWeight:    mergeTokens(s.FontWeight, override.FontWeight),
		LineHeight:    mergeTokens(s.LineHeight, override.LineHeight),
		LetterSpacing: mergeTokens(s.LetterSpacing, override.LetterSpacing),
		BorderRadius:  mergeTokens(s.BorderRadius, override.BorderRadius),
		BoxShadow:     mergeTokens(s.BoxShadow, override.BoxShadow),
	}
	if len(s.Themes) > 0 || len(override.Themes) > 0 {
		out.Themes = make(map[string]map[string]string, len(s.Themes))
		for _, src := range []map[string]map[string]string{s.Themes, override.Themes} {
			for name, roles := range src {
				dst := out.Themes[name]
				if dst == nil {
					dst = make(map[string]string, len(roles))
					out.Themes[name] = dst
				}
				for role, value := range roles {
					dst[role] = value
				}
			}
		}
	}
	return out
}

func mergeTokens(base, override []Token) []Token {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make([]Token, 0, len(base)+len(override))
	index := make(map[string]int, len(base))
	for _, t := range base {
		index[t.Name] = len(out)
		out = append(out, t)
	}
	for _, t := range override {
		if i, ok := index[t.Name]; ok {
			out[i] = t
			continue
		}
		index[t.Name] = len(out)
		out = append(out, t)
	}
	return out
}

// Palettes converts the theme section into stylesheet input.
func (s DesignTokenSet) Palettes() map[theme.Theme]theme.Palette {
	out := make(map[theme.Theme]theme.Palette, len(s.Themes))
	for name, roles := range s.Themes {
		t := theme.Theme(name)
		if !t.Valid() {
			continue
		}
		out[t] = theme.Palette(roles)
	}
	return out
}
