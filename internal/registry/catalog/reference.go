package catalog

import "github.com/jmylchreest/blockfront/internal/registry"

// designKitOverview renders every theme side by side for designers. It is
// registered but offered in no insert menu.
func designKitOverview() registry.Component {
	return registry.Component{
		Name:         "DesignKitOverview",
		FriendlyName: "Design kit overview",
		Inputs: []registry.Input{
			{Name: "showTokens", FriendlyName: "Show tokens", Type: registry.TypeBoolean, DefaultValue: true},
		},
	}
}
