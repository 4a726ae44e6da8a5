package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

func layoutComponents() []registry.Component {
	return []registry.Component{
		themed(registry.Component{
			Name:            "Section",
			FriendlyName:    "Section",
			Description:     "Full width page band with an optional background",
			CanHaveChildren: true,
			DefaultStyles:   map[string]string{"paddingTop": "64px", "paddingBottom": "64px"},
			Inputs: withInputs([]registry.Input{
				{Name: "maxWidth", FriendlyName: "Content width", Type: registry.TypeString, Enum: []string{"narrow", "default", "wide", "full"}, DefaultValue: "default"},
				{Name: "anchor", FriendlyName: "Anchor ID", Type: registry.TypeString, Advanced: true},
			}, backgroundInputs()),
		}, false),
		{
			Name:            "Container",
			FriendlyName:    "Container",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "maxWidth", FriendlyName: "Max width", Type: registry.TypeNumber, DefaultValue: 1200.0, Min: registry.Float(320), Max: registry.Float(1920), Step: registry.Float(10)},
			},
		},
		{
			Name:            "Columns",
			FriendlyName:    "Columns",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "columns", FriendlyName: "Columns", Type: registry.TypeNumber, DefaultValue: 2.0, Min: registry.Float(1), Max: registry.Float(6), Step: registry.Float(1)},
				{Name: "gap", FriendlyName: "Gap", Type: registry.TypeNumber, DefaultValue: 24.0, Min: registry.Float(0), Max: registry.Float(96), Step: registry.Float(4)},
				{Name: "stackOnMobile", FriendlyName: "Stack on mobile", Type: registry.TypeBoolean, DefaultValue: true},
				{Name: "reverseOnMobile", FriendlyName: "Reverse on mobile", Type: registry.TypeBoolean, DefaultValue: false, ShowIf: registry.FieldTruthy("stackOnMobile")},
			},
		},
		{
			Name:            "Grid",
			FriendlyName:    "Grid",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "columnsDesktop", FriendlyName: "Desktop columns", Type: registry.TypeNumber, DefaultValue: 3.0, Min: registry.Float(1), Max: registry.Float(6), Step: registry.Float(1)},
				{Name: "columnsTablet", FriendlyName: "Tablet columns", Type: registry.TypeNumber, DefaultValue: 2.0, Min: registry.Float(1), Max: registry.Float(4), Step: registry.Float(1)},
				{Name: "columnsMobile", FriendlyName: "Mobile columns", Type: registry.TypeNumber, DefaultValue: 1.0, Min: registry.Float(1), Max: registry.Float(2), Step: registry.Float(1)},
				{Name: "gap", FriendlyName: "Gap", Type: registry.TypeNumber, DefaultValue: 24.0, Min: registry.Float(0), Max: registry.Float(96), Step: registry.Float(4)},
			},
		},
		{
			Name:         "Spacer",
			FriendlyName: "Spacer",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "height", FriendlyName: "Height", Type: registry.TypeNumber, DefaultValue: 48.0, Min: registry.Float(0), Max: registry.Float(400), Step: registry.Float(8)},
			},
		},
		themed(registry.Component{
			Name:         "Divider",
			FriendlyName: "Divider",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "style", FriendlyName: "Style", Type: registry.TypeString, Enum: []string{"solid", "dashed", "dotted"}, DefaultValue: "solid"},
			},
		}, true),
		themed(registry.Component{
			Name:            "ThemeProvider",
			FriendlyName:    "Theme wrapper",
			Description:     "Applies a theme to everything placed inside it",
			CanHaveChildren: true,
		}, false),
		themed(registry.Component{
			Name:            "Hero",
			FriendlyName:    "Hero",
			CanHaveChildren: true,
			DefaultStyles:   map[string]string{"minHeight": "60vh"},
			Inputs: withInputs([]registry.Input{
				{Name: "eyebrow", FriendlyName: "Eyebrow", Type: registry.TypeString},
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, Required: true, DefaultValue: "Find your stillness"},
				{Name: "subtitle", FriendlyName: "Subtitle", Type: registry.TypeLongText},
				{Name: "alignment", FriendlyName: "Alignment", Type: registry.TypeString, Enum: []string{"left", "center", "right"}, DefaultValue: "center"},
				{Name: "height", FriendlyName: "Height", Type: registry.TypeString, Enum: []string{"auto", "medium", "tall", "screen"}, DefaultValue: "tall"},
			}, backgroundInputs()),
		}, false),
		themed(registry.Component{
			Name:            "Banner",
			FriendlyName:    "Banner",
			CanHaveChildren: true,
			Inputs: withInputs([]registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString},
				{Name: "text", FriendlyName: "Text", Type: registry.TypeRichText},
				{Name: "dismissible", FriendlyName: "Dismissible", Type: registry.TypeBoolean, DefaultValue: false},
			}, backgroundInputs()),
		}, false),
		themed(registry.Component{
			Name:            "SplitBanner",
			FriendlyName:    "Split banner",
			Description:     "Image on one side, content on the other",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "image", FriendlyName: "Image", Type: registry.TypeFile, AllowedFileTypes: imageTypes, Required: true},
				{Name: "imageAlt", FriendlyName: "Image alt text", Type: registry.TypeString},
				{Name: "imagePosition", FriendlyName: "Image position", Type: registry.TypeString, Enum: []string{"left", "right"}, DefaultValue: "left"},
				{Name: "ratio", FriendlyName: "Split", Type: registry.TypeString, Enum: []string{"50-50", "40-60", "60-40"}, DefaultValue: "50-50"},
			},
		}, false),
	}
}
