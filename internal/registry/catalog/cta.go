package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

func ctaComponents() []registry.Component {
	return []registry.Component{
		{
			Name:              "ButtonGroup",
			FriendlyName:      "Button group",
			CanHaveChildren:   true,
			ChildRequirements: children("Only buttons can go in a button group", "Button"),
			Inputs: []registry.Input{
				{Name: "align", FriendlyName: "Alignment", Type: registry.TypeString, Enum: []string{"left", "center", "right"}, DefaultValue: "left"},
			},
		},
		themed(registry.Component{
			Name:         "CTABanner",
			FriendlyName: "Call to action banner",
			Inputs: withInputs([]registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, Required: true, DefaultValue: "Begin your practice"},
				{Name: "text", FriendlyName: "Text", Type: registry.TypeLongText},
				{Name: "buttonText", FriendlyName: "Button label", Type: registry.TypeString, DefaultValue: "Get started"},
			}, linkInputs(), backgroundInputs()),
		}, false),
		themed(registry.Component{
			Name:         "NewsletterSignup",
			FriendlyName: "Newsletter signup",
			Inputs: []registry.Input{
				{Name: "title", FriendlyName: "Title", Type: registry.TypeString, DefaultValue: "Stay in touch"},
				{Name: "placeholder", FriendlyName: "Placeholder", Type: registry.TypeString, DefaultValue: "Email address"},
				{Name: "buttonText", FriendlyName: "Button label", Type: registry.TypeString, DefaultValue: "Subscribe"},
				{Name: "formAction", FriendlyName: "Form action URL", Type: registry.TypeString, Required: true, Advanced: true},
				{Name: "consentText", FriendlyName: "Consent text", Type: registry.TypeRichText},
			},
		}, false),
		themed(registry.Component{
			Name:            "Link",
			FriendlyName:    "Link",
			CanHaveChildren: true,
			NoWrap:          true,
			Inputs: withInputs([]registry.Input{
				{Name: "text", FriendlyName: "Text", Type: registry.TypeString},
			}, linkInputs()),
		}, true),
	}
}
