package catalog

import (
	"github.com/jmylchreest/blockfront/internal/registry"
	"github.com/jmylchreest/blockfront/internal/theme"
)

// Background types offered by sections and banners.
const (
	BackgroundNone    = "none"
	BackgroundImage   = "image"
	BackgroundVideo   = "video"
	BackgroundYouTube = "youtube"
)

var imageTypes = []string{"jpeg", "jpg", "png", "webp", "svg", "avif"}

// themeInputs are the inputs every themeable component carries.
func themeInputs(inheritDefault bool) []registry.Input {
	return []registry.Input{
		{
			Name:         "theme",
			FriendlyName: "Theme",
			Type:         registry.TypeString,
			Enum:         theme.Names(),
			HelperText:   "Colour scheme for this block and everything inside it",
		},
		{
			Name:         "inheritTheme",
			FriendlyName: "Inherit theme",
			Type:         registry.TypeBoolean,
			DefaultValue: inheritDefault,
			HelperText:   "Use the surrounding theme instead of the one chosen here",
		},
	}
}

// backgroundInputs are the background selector and its conditional fields.
func backgroundInputs() []registry.Input {
	return []registry.Input{
		{
			Name:         "backgroundType",
			FriendlyName: "Background",
			Type:         registry.TypeString,
			Enum:         []string{BackgroundNone, BackgroundImage, BackgroundVideo, BackgroundYouTube},
			DefaultValue: BackgroundNone,
		},
		{
			Name:             "backgroundImage",
			FriendlyName:     "Background image",
			Type:             registry.TypeFile,
			AllowedFileTypes: imageTypes,
			ShowIf:           registry.FieldEquals("backgroundType", BackgroundImage),
		},
		{
			Name:             "backgroundVideo",
			FriendlyName:     "Background video",
			Type:             registry.TypeFile,
			AllowedFileTypes: []string{"mp4", "webm"},
			ShowIf:           registry.FieldEquals("backgroundType", BackgroundVideo),
		},
		{
			Name:         "youtubeId",
			FriendlyName: "YouTube video ID",
			Type:         registry.TypeString,
			HelperText:   "The 11 character ID from the video URL",
			ShowIf:       registry.FieldEquals("backgroundType", BackgroundYouTube),
		},
		{
			Name:         "overlayOpacity",
			FriendlyName: "Overlay opacity",
			Type:         registry.TypeNumber,
			DefaultValue: 0.4,
			Min:          registry.Float(0),
			Max:          registry.Float(1),
			Step:         registry.Float(0.05),
			Advanced:     true,
			ShowIf:       registry.Not(registry.FieldEquals("backgroundType", BackgroundNone)),
		},
	}
}

func withInputs(groups ...[]registry.Input) []registry.Input {
	var out []registry.Input
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func themed(c registry.Component, inheritDefault bool) registry.Component {
	c.Themeable = true
	c.InheritThemeDefault = inheritDefault
	c.Inputs = withInputs(c.Inputs, themeInputs(inheritDefault))
	return c
}

func children(message string, allowed ...string) *registry.ChildRequirements {
	return &registry.ChildRequirements{Message: message, Allowed: allowed}
}

func linkInputs() []registry.Input {
	return []registry.Input{
		{Name: "href", FriendlyName: "Link", Type: registry.TypeString, Required: true},
		{Name: "openInNewTab", FriendlyName: "Open in new tab", Type: registry.TypeBoolean, DefaultValue: false},
	}
}
