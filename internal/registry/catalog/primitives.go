package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

// coreButton hides the editor's built-in button so only the themed Button
// below is offered.
func coreButton() registry.Component {
	return registry.Component{
		Name:               "Core:Button",
		Override:           true,
		HideFromInsertMenu: true,
	}
}

func buttonComponent() registry.Component {
	return themed(registry.Component{
		Name:         "Button",
		FriendlyName: "Button",
		Description:  "A call to action link styled as a button",
		NoWrap:       true,
		Inputs: withInputs([]registry.Input{
			{Name: "text", FriendlyName: "Label", Type: registry.TypeString, DefaultValue: "Learn more", Required: true},
			{Name: "variant", FriendlyName: "Variant", Type: registry.TypeString, Enum: []string{"primary", "secondary", "outline", "ghost"}, DefaultValue: "primary"},
			{Name: "size", FriendlyName: "Size", Type: registry.TypeString, Enum: []string{"sm", "md", "lg"}, DefaultValue: "md"},
			{Name: "fullWidth", FriendlyName: "Full width", Type: registry.TypeBoolean, DefaultValue: false, Advanced: true},
		}, linkInputs()),
	}, true)
}
