package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrDuplicateComponent is returned when a name is registered twice
	// without Override.
	ErrDuplicateComponent = errors.New("component already registered")
	// ErrUnknownComponent is returned for names that were never registered.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrHiddenComponent is returned when a hidden component is added to a menu.
	ErrHiddenComponent = errors.New("component is hidden from insert menus")
	// ErrInvalidComponent wraps descriptor validation failures.
	ErrInvalidComponent = errors.New("invalid component")
)

// menuOrder is the order insert menus appear in the manifest.
var menuOrder = []string{MenuLayout, MenuUI, MenuCTA, MenuNavigation, MenuSEO}

// Registry holds component descriptors in registration order.
type Registry struct {
	mu             sync.RWMutex
	order          []string
	components     map[string]Component
	menus          map[string][]string
	tokens         DesignTokenSet
	tokensOptional bool
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		components: make(map[string]Component),
		menus:      make(map[string][]string),
	}
}

// Register adds c. A name that is already taken is replaced only when c has
// Override set; the replacement keeps the original position. Overriding with
// a hidden descriptor removes the name from every insert menu.
func (r *Registry) Register(c Component) error {
	if err := c.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[c.Name]; exists {
		if !c.Override {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.Name)
		}
		r.components[c.Name] = c
		if c.HideFromInsertMenu {
			r.removeFromMenusLocked(c.Name)
		}
		return nil
	}

	r.components[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

// RegisterAll registers cs in order. Every descriptor is attempted; the
// failures are joined.
func (r *Registry) RegisterAll(cs []Component) error {
	var errs []error
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the effective descriptor for name.
func (r *Registry) Lookup(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Components returns all effective descriptors in registration order.
func (r *Registry) Components() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Component, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.components[name])
	}
	return out
}

// Len returns the number of distinct registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// AddToMenu appends names to menu. Names already in the menu are skipped.
// Nothing is added if any name is unknown or hidden.
func (r *Registry) AddToMenu(menu string, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		c, ok := r.components[name]
		if !ok {
			return fmt.Errorf("menu %s: %w: %s", menu, ErrUnknownComponent, name)
		}
		if c.HideFromInsertMenu {
			return fmt.Errorf("menu %s: %w: %s", menu, ErrHiddenComponent, name)
		}
	}
	items := r.menus[menu]
	for _, name := range names {
		if !slices.Contains(items, name) {
			items = append(items, name)
		}
	}
	r.menus[menu] = items
	return nil
}

func (r *Registry) removeFromMenusLocked(name string) {
	for menu, items := range r.menus {
		r.menus[menu] = slices.DeleteFunc(items, func(n string) bool { return n == name })
	}
}

// Menus returns the non-empty insert menus, known menus first in a fixed
// order and any others after them in name order.
func (r *Registry) Menus() []InsertMenu {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.menus))
	for name := range r.menus {
		if !slices.Contains(menuOrder, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = append(slices.Clone(menuOrder), names...)

	out := make([]InsertMenu, 0, len(names))
	for _, name := range names {
		items := r.menus[name]
		if len(items) == 0 {
			continue
		}
		out = append(out, InsertMenu{Name: name, Items: slices.Clone(items)})
	}
	return out
}

// MenusFor returns the menus that list name.
func (r *Registry) MenusFor(name string) []string {
	var out []string
	for _, m := range r.Menus() {
		if slices.Contains(m.Items, name) {
			out = append(out, m.Name)
		}
	}
	return out
}

// SetDesignTokens replaces the design token set.
func (r *Registry) SetDesignTokens(tokens DesignTokenSet, optional bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = tokens
	r.tokensOptional = optional
}

// DesignTokens returns the design token set and whether it is optional.
func (r *Registry) DesignTokens() (DesignTokenSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tokens, r.tokensOptional
}

// EffectiveInputs returns the inputs of name that are visible for values.
func (r *Registry) EffectiveInputs(name string, values Values) ([]Input, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}
	return c.VisibleInputs(values), nil
}

// Manifest snapshots the registry for the editor.
func (r *Registry) Manifest() Manifest {
	tokens, optional := r.DesignTokens()
	return Manifest{
		Components:  r.Components(),
		InsertMenus: r.Menus(),
		EditorSettings: EditorSettings{
			DesignTokensOptional: optional,
			DesignTokens:         tokens,
		},
	}
}
