package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

func uiComponents() []registry.Component {
	return []registry.Component{
		themed(registry.Component{
			Name:         "Heading",
			FriendlyName: "Heading",
			Inputs: []registry.Input{
				{Name: "text", FriendlyName: "Text", Type: registry.TypeString, Required: true, DefaultValue: "Heading"},
				{Name: "level", FriendlyName: "Level", Type: registry.TypeString, Enum: []string{"h1", "h2", "h3", "h4", "h5", "h6"}, DefaultValue: "h2"},
				{Name: "align", FriendlyName: "Alignment", Type: registry.TypeString, Enum: []string{"left", "center", "right"}, DefaultValue: "left"},
			},
		}, true),
		themed(registry.Component{
			Name:         "RichText",
			FriendlyName: "Rich text",
			Inputs: []registry.Input{
				{Name: "text", FriendlyName: "Text", Type: registry.TypeRichText, DefaultValue: "<p>Write something calm.</p>"},
			},
		}, true),
		{
			Name:         "Image",
			FriendlyName: "Image",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "image", FriendlyName: "Image", Type: registry.TypeFile, AllowedFileTypes: imageTypes, Required: true},
				{Name: "altText", FriendlyName: "Alt text", Type: registry.TypeString, HelperText: "Describe the image for screen readers"},
				{Name: "aspectRatio", FriendlyName: "Aspect ratio", Type: registry.TypeNumber, DefaultValue: 0.5625, Min: registry.Float(0.1), Max: registry.Float(4), Step: registry.Float(0.01)},
				{Name: "lazy", FriendlyName: "Lazy load", Type: registry.TypeBoolean, DefaultValue: true, Advanced: true},
			},
		},
		{
			Name:         "Video",
			FriendlyName: "Video",
			Inputs: []registry.Input{
				{Name: "video", FriendlyName: "Video file", Type: registry.TypeFile, AllowedFileTypes: []string{"mp4", "webm"}, Required: true},
				{Name: "poster", FriendlyName: "Poster image", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "autoplay", FriendlyName: "Autoplay", Type: registry.TypeBoolean, DefaultValue: false},
				{Name: "muted", FriendlyName: "Muted", Type: registry.TypeBoolean, DefaultValue: true, ShowIf: registry.Not(registry.FieldTruthy("autoplay"))},
				{Name: "loop", FriendlyName: "Loop", Type: registry.TypeBoolean, DefaultValue: false},
			},
		},
		{
			Name:         "YouTubeEmbed",
			FriendlyName: "YouTube video",
			Inputs: []registry.Input{
				{Name: "youtubeId", FriendlyName: "Video ID", Type: registry.TypeString, Required: true},
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, HelperText: "Used for accessibility and the video schema"},
				{Name: "start", FriendlyName: "Start at (seconds)", Type: registry.TypeNumber, DefaultValue: 0.0, Min: registry.Float(0), Step: registry.Float(1)},
			},
		},
		themed(registry.Component{
			Name:              "Accordion",
			FriendlyName:      "Accordion",
			CanHaveChildren:   true,
			ChildRequirements: children("Only accordion items can go in an accordion", "AccordionItem"),
			Inputs: []registry.Input{
				{Name: "allowMultiple", FriendlyName: "Allow several open", Type: registry.TypeBoolean, DefaultValue: false},
			},
		}, false),
		themed(registry.Component{
			Name:            "AccordionItem",
			FriendlyName:    "Accordion item",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, Required: true, DefaultValue: "Question"},
				{Name: "open", FriendlyName: "Open by default", Type: registry.TypeBoolean, DefaultValue: false},
			},
		}, true),
		themed(registry.Component{
			Name:              "Tabs",
			FriendlyName:      "Tabs",
			CanHaveChildren:   true,
			ChildRequirements: children("Only tabs can go in a tab set", "Tab"),
		}, false),
		themed(registry.Component{
			Name:            "Tab",
			FriendlyName:    "Tab",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "label", FriendlyName: "Label", Type: registry.TypeString, Required: true, DefaultValue: "Tab"},
			},
		}, true),
		themed(registry.Component{
			Name:         "Tile",
			FriendlyName: "Tile",
			Inputs: withInputs([]registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, Required: true},
				{Name: "text", FriendlyName: "Text", Type: registry.TypeLongText},
				{Name: "image", FriendlyName: "Image", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
			}, linkInputs()),
		}, false),
		themed(registry.Component{
			Name:              "TileGrid",
			FriendlyName:      "Tile grid",
			CanHaveChildren:   true,
			ChildRequirements: children("Only tiles can go in a tile grid", "Tile"),
			Inputs: []registry.Input{
				{Name: "columns", FriendlyName: "Columns", Type: registry.TypeNumber, DefaultValue: 3.0, Min: registry.Float(1), Max: registry.Float(4), Step: registry.Float(1)},
			},
		}, false),
		themed(registry.Component{
			Name:            "Card",
			FriendlyName:    "Card",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString},
				{Name: "image", FriendlyName: "Image", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "elevated", FriendlyName: "Shadow", Type: registry.TypeBoolean, DefaultValue: true},
			},
		}, false),
		themed(registry.Component{
			Name:              "Carousel",
			FriendlyName:      "Carousel",
			CanHaveChildren:   true,
			ChildRequirements: children("Only slides can go in a carousel", "CarouselSlide"),
			Inputs: []registry.Input{
				{Name: "autoplay", FriendlyName: "Autoplay", Type: registry.TypeBoolean, DefaultValue: false},
				{Name: "interval", FriendlyName: "Interval (seconds)", Type: registry.TypeNumber, DefaultValue: 6.0, Min: registry.Float(2), Max: registry.Float(30), Step: registry.Float(1), ShowIf: registry.FieldTruthy("autoplay")},
				{Name: "showDots", FriendlyName: "Show dots", Type: registry.TypeBoolean, DefaultValue: true},
			},
		}, false),
		themed(registry.Component{
			Name:            "CarouselSlide",
			FriendlyName:    "Slide",
			CanHaveChildren: true,
			Inputs:          backgroundInputs(),
		}, true),
		themed(registry.Component{
			Name:         "Testimonial",
			FriendlyName: "Testimonial",
			Inputs: []registry.Input{
				{Name: "quote", FriendlyName: "Quote", Type: registry.TypeLongText, Required: true},
				{Name: "author", FriendlyName: "Author", Type: registry.TypeString},
				{Name: "role", FriendlyName: "Role", Type: registry.TypeString},
				{Name: "avatar", FriendlyName: "Photo", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "rating", FriendlyName: "Rating", Type: registry.TypeNumber, Min: registry.Float(1), Max: registry.Float(5), Step: registry.Float(1)},
			},
		}, false),
		themed(registry.Component{
			Name:         "Badge",
			FriendlyName: "Badge",
			NoWrap:       true,
			Inputs: []registry.Input{
				{Name: "text", FriendlyName: "Text", Type: registry.TypeString, Required: true, DefaultValue: "New"},
			},
		}, true),
		themed(registry.Component{
			Name:         "ProductTile",
			FriendlyName: "Product tile",
			Description:  "A product card filled from the store",
			Inputs: []registry.Input{
				{Name: "handle", FriendlyName: "Product handle", Type: registry.TypeString, Required: true},
				{Name: "showPrice", FriendlyName: "Show price", Type: registry.TypeBoolean, DefaultValue: true},
				{Name: "ctaText", FriendlyName: "Button label", Type: registry.TypeString, DefaultValue: "View"},
			},
		}, false),
		themed(registry.Component{
			Name:         "CollectionGrid",
			FriendlyName: "Collection grid",
			Inputs: []registry.Input{
				{Name: "handle", FriendlyName: "Collection handle", Type: registry.TypeString, Required: true},
				{Name: "limit", FriendlyName: "Products", Type: registry.TypeNumber, DefaultValue: 8.0, Min: registry.Float(1), Max: registry.Float(48), Step: registry.Float(1)},
				{Name: "columns", FriendlyName: "Columns", Type: registry.TypeNumber, DefaultValue: 4.0, Min: registry.Float(1), Max: registry.Float(6), Step: registry.Float(1)},
			},
		}, false),
	}
}
