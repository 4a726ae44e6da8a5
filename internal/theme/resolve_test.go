package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Totality(t *testing.T) {
	explicits := append([]Theme{""}, All()...)
	ambients := []*Scope{nil}
	for _, a := range All() {
		ambients = append(ambients, Root(a))
	}

	for _, explicit := range explicits {
		for _, inherit := range []bool{true, false} {
			for _, ambient := range ambients {
				got := Resolve(explicit, inherit, ambient)
				assert.True(t, got.Theme.Valid(),
					"explicit=%q inherit=%v ambient=%v resolved to %q", explicit, inherit, ambient.Theme(), got.Theme)
			}
		}
	}
}

func TestResolve_Rules(t *testing.T) {
	tests := []struct {
		name      string
		explicit  Theme
		inherit   bool
		ambient   *Scope
		want      Theme
		inherited bool
	}{
		{
			name:      "inherit wins over explicit when ambient present",
			explicit:  Light,
			inherit:   true,
			ambient:   Root(Dark),
			want:      Dark,
			inherited: true,
		},
		{
			name:     "explicit wins without inherit",
			explicit: Accent,
			inherit:  false,
			ambient:  Root(Dark),
			want:     Accent,
		},
		{
			name:      "ambient fallback without inherit or explicit",
			inherit:   false,
			ambient:   Root(Gradient),
			want:      Gradient,
			inherited: true,
		},
		{
			name:    "bottom default",
			inherit: false,
			want:    Light,
		},
		{
			name:    "inherit requested but no ambient falls to default",
			inherit: true,
			want:    Light,
		},
		{
			name:     "inherit requested but no ambient uses explicit",
			explicit: TransparentDark,
			inherit:  true,
			want:     TransparentDark,
		},
		{
			name:      "unknown explicit is treated as absent",
			explicit:  Theme("sepia"),
			ambient:   Root(Accent),
			want:      Accent,
			inherited: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.explicit, tt.inherit, tt.ambient)
			assert.Equal(t, tt.want, got.Theme)
			assert.Equal(t, tt.inherited, got.Inherited())
		})
	}
}

func TestResolve_Source(t *testing.T) {
	assert.Equal(t, SourceDefault, Resolve("", false, nil).Source)
	assert.Equal(t, SourceExplicit, Resolve(Dark, false, nil).Source)
	assert.Equal(t, SourceInherited, Resolve("", false, Root(Dark)).Source)
	assert.Equal(t, "inherited", SourceInherited.String())
}

func TestParse(t *testing.T) {
	got, err := Parse(" Transparent-Dark ")
	require.NoError(t, err)
	assert.Equal(t, TransparentDark, got)

	got, err = Parse("")
	require.NoError(t, err)
	assert.Equal(t, Theme(""), got)

	_, err = Parse("neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transparent-light")
}

func TestAll_IsExactlySixContractValues(t *testing.T) {
	assert.Equal(t,
		[]string{"light", "dark", "accent", "gradient", "transparent-light", "transparent-dark"},
		Names(),
	)

	themes := All()
	themes[0] = Dark
	assert.Equal(t, Light, All()[0], "All must return a copy")
}
