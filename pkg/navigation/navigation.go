package navigation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-seo-dashboard/components/dashboard"
)

// MenuBuilder ensures dashboard entries exist within a host navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures the sidebar link of one dashboard page.
type MenuItem struct {
	Code     string
	Label    string
	Route    string
	Icon     string
	Position int
}

// PageLister lists the pages of the dashboard. *dashboard.Service satisfies it.
type PageLister interface {
	Pages(viewer dashboard.ViewerContext) []dashboard.PageSummary
}

// Config wires the dashboard pages into a sidebar menu.
type Config struct {
	MenuCode    string
	MenuBuilder MenuBuilder
	Pages       PageLister
	BasePath    string
}

// Sidebar seeds a host menu with one entry per dashboard page.
type Sidebar struct {
	cfg Config
}

// New creates a Sidebar helper.
func New(cfg Config) (*Sidebar, error) {
	if cfg.Pages == nil {
		return nil, errors.New("navigation: page lister is required")
	}
	if cfg.MenuBuilder == nil {
		cfg.MenuBuilder = NewMenu()
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "seo.main"
	}
	return &Sidebar{cfg: cfg}, nil
}

// Items returns the menu entries for viewer, ordered by position.
func (s *Sidebar) Items(viewer dashboard.ViewerContext) []MenuItem {
	pages := s.cfg.Pages.Pages(viewer)
	items := make([]MenuItem, len(pages))
	for i, page := range pages {
		items[i] = MenuItem{
			Code:     page.Code,
			Label:    page.Title,
			Route:    s.route(page.Route),
			Icon:     page.Icon,
			Position: page.Position,
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items
}

// Bootstrap ensures every page has a menu entry, labelled for viewer.
func (s *Sidebar) Bootstrap(ctx context.Context, viewer dashboard.ViewerContext) error {
	for _, item := range s.Items(viewer) {
		if err := s.cfg.MenuBuilder.EnsureMenuItem(ctx, s.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("navigation: ensure %s: %w", item.Code, err)
		}
	}
	return nil
}

// Builder returns the menu builder the sidebar seeds.
func (s *Sidebar) Builder() MenuBuilder {
	return s.cfg.MenuBuilder
}

func (s *Sidebar) route(route string) string {
	if s.cfg.BasePath == "" {
		return route
	}
	if route == "/" {
		return s.cfg.BasePath
	}
	return s.cfg.BasePath + route
}

// Menu is an in-memory MenuBuilder keyed by menu code. Ensuring an item
// twice replaces the previous entry with the same code.
type Menu struct {
	mu    sync.RWMutex
	menus map[string][]MenuItem
}

// NewMenu creates an empty menu.
func NewMenu() *Menu {
	return &Menu{menus: map[string][]MenuItem{}}
}

func (m *Menu) EnsureMenuItem(_ context.Context, menuCode string, item MenuItem) error {
	if item.Code == "" {
		return errors.New("navigation: menu item code is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.menus[menuCode]
	for i, existing := range items {
		if existing.Code == item.Code {
			items[i] = item
			return nil
		}
	}
	m.menus[menuCode] = append(items, item)
	return nil
}

// Items returns a copy of the entries registered under menuCode.
func (m *Menu) Items(menuCode string) []MenuItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MenuItem(nil), m.menus[menuCode]...)
}
