package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

func navigationComponents() []registry.Component {
	return []registry.Component{
		themed(registry.Component{
			Name:            "Header",
			FriendlyName:    "Header",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "logo", FriendlyName: "Logo", Type: registry.TypeFile, AllowedFileTypes: imageTypes},
				{Name: "logoAlt", FriendlyName: "Logo alt text", Type: registry.TypeString},
				{Name: "sticky", FriendlyName: "Sticky", Type: registry.TypeBoolean, DefaultValue: true},
				{Name: "transparentOnTop", FriendlyName: "Transparent over hero", Type: registry.TypeBoolean, DefaultValue: false},
			},
		}, false),
		themed(registry.Component{
			Name:              "NavigationMenu",
			FriendlyName:      "Navigation menu",
			CanHaveChildren:   true,
			ChildRequirements: children("Only navigation items can go in a menu", "NavigationItem"),
		}, true),
		themed(registry.Component{
			Name:            "NavigationItem",
			FriendlyName:    "Navigation item",
			CanHaveChildren: true,
			Inputs: withInputs([]registry.Input{
				{Name: "label", FriendlyName: "Label", Type: registry.TypeString, Required: true},
			}, linkInputs(), []registry.Input{
				{
					Name:         "children",
					FriendlyName: "Submenu",
					Type:         registry.TypeList,
					SubFields: []registry.Input{
						{Name: "label", FriendlyName: "Label", Type: registry.TypeString, Required: true},
						{Name: "href", FriendlyName: "Link", Type: registry.TypeString, Required: true},
					},
				},
			}),
		}, true),
		themed(registry.Component{
			Name:            "Footer",
			FriendlyName:    "Footer",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "copyright", FriendlyName: "Copyright line", Type: registry.TypeString},
				{
					Name:         "social",
					FriendlyName: "Social links",
					Type:         registry.TypeList,
					SubFields: []registry.Input{
						{Name: "network", FriendlyName: "Network", Type: registry.TypeString, Enum: []string{"instagram", "facebook", "youtube", "spotify", "linkedin"}},
						{Name: "url", FriendlyName: "URL", Type: registry.TypeString, Required: true},
					},
				},
			},
		}, false),
		themed(registry.Component{
			Name:            "FooterColumn",
			FriendlyName:    "Footer column",
			CanHaveChildren: true,
			Inputs: []registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString},
				{
					Name:         "links",
					FriendlyName: "Links",
					Type:         registry.TypeList,
					SubFields: []registry.Input{
						{Name: "label", FriendlyName: "Label", Type: registry.TypeString, Required: true},
						{Name: "href", FriendlyName: "Link", Type: registry.TypeString, Required: true},
					},
				},
			},
		}, true),
		themed(registry.Component{
			Name:         "Breadcrumbs",
			FriendlyName: "Breadcrumbs",
			Inputs: []registry.Input{
				{Name: "includeHome", FriendlyName: "Include home", Type: registry.TypeBoolean, DefaultValue: true},
				{Name: "emitSchema", FriendlyName: "Emit structured data", Type: registry.TypeBoolean, DefaultValue: true, Advanced: true},
			},
		}, true),
		themed(registry.Component{
			Name:         "LocaleSwitcher",
			FriendlyName: "Language switcher",
			Inputs: []registry.Input{
				{Name: "display", FriendlyName: "Display", Type: registry.TypeString, Enum: []string{"code", "name"}, DefaultValue: "name"},
			},
		}, true),
	}
}
