package registry

// Manifest is everything the editor integration needs to offer this site's
// components.
type Manifest struct {
	Components     []Component    `json:"components"`
	InsertMenus    []InsertMenu   `json:"insertMenus"`
	EditorSettings EditorSettings `json:"editorSettings"`
}

// EditorSettings carries the design token configuration.
type EditorSettings struct {
	DesignTokensOptional bool           `json:"designTokensOptional"`
	DesignTokens         DesignTokenSet `json:"designTokens"`
}
