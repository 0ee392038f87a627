package dashboard

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// PageHook lets packages register pages during init().
type PageHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []PageHook
)

// RegisterPageHook registers a hook executed against new registries.
func RegisterPageHook(h PageHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry implements PageRegistry with hook + manifest support.
type Registry struct {
	mu     sync.RWMutex
	pages  map[string]PageDefinition
	routes map[string]string
}

// NewRegistry builds a registry seeded with the embedded page manifest and
// applies global hooks.
func NewRegistry() (*Registry, error) {
	reg := NewEmptyRegistry()
	doc, err := DefaultManifest()
	if err != nil {
		return nil, err
	}
	if err := reg.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewEmptyRegistry builds a registry without any pages.
func NewEmptyRegistry() *Registry {
	return &Registry{
		pages:  map[string]PageDefinition{},
		routes: map[string]string{},
	}
}

// ApplyHooks executes registered page hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a page definition, binding its column renderers. A page
// with an existing code replaces the previous definition.
func (r *Registry) Register(def PageDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("page code is required")
	}
	if def.Entity == "" {
		return fmt.Errorf("page %s entity is required", def.Code)
	}
	if def.Route == "" {
		def.Route = "/" + def.Code
	}
	if !strings.HasPrefix(def.Route, "/") {
		return fmt.Errorf("page %s route must start with /", def.Code)
	}
	columns, err := BindRenderers(def.Columns)
	if err != nil {
		return err
	}
	def.Columns = columns
	if def.Title == "" {
		def.Title = strings.ToUpper(def.Code[:1]) + strings.ReplaceAll(def.Code[1:], "-", " ")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.routes[def.Route]; ok && owner != def.Code {
		return fmt.Errorf("route %s already served by page %s", def.Route, owner)
	}
	if prev, ok := r.pages[def.Code]; ok {
		delete(r.routes, prev.Route)
	}
	r.pages[def.Code] = def
	r.routes[def.Route] = def.Code
	return nil
}

// Page fetches a page definition by code.
func (r *Registry) Page(code string) (PageDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.pages[code]
	return def, ok
}

// PageByRoute fetches the page served at route.
func (r *Registry) PageByRoute(route string) (PageDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.routes[route]
	if !ok {
		return PageDefinition{}, false
	}
	return r.pages[code], true
}

// Pages returns all registered pages ordered by position.
func (r *Registry) Pages() []PageDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]PageDefinition, 0, len(r.pages))
	for _, def := range r.pages {
		defs = append(defs, def)
	}
	slices.SortFunc(defs, func(a, b PageDefinition) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.Code, b.Code)
	})
	return defs
}
