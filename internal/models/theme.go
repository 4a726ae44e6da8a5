package models

// Theme describes one of the fixed themes for the editor and the API.
type Theme struct {
	// ID is the value of the data-theme attribute.
	ID string `json:"id"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Dark is true for themes meant for light text on a dark ground.
	Dark bool `json:"dark"`

	// Palette holds the role colors emitted as --theme-* custom properties.
	Palette map[string]string `json:"palette,omitempty"`
}

// ThemeListResponse is the API response for listing themes.
type ThemeListResponse struct {
	Themes  []Theme `json:"themes"`
	Default string  `json:"default"`
}

// ThemeResolution is the outcome of resolving a component's theme.
type ThemeResolution struct {
	Theme string `json:"theme"`
	// Source is "explicit", "inherited" or "default".
	Source string `json:"source"`
	// Boundary is true when the component opens its own provider and carries
	// the data-theme attribute.
	Boundary bool `json:"boundary"`
}
