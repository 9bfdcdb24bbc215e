package ui

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionVehicles   Section = "vehicles"
	SectionDeliveries Section = "deliveries"
	SectionRoutes     Section = "routes"
	SectionSettings   Section = "settings"
)

const (
	themeKey   = "theme"
	sectionKey = "section"
)

type NavItem struct {
	Section Section
	Label   string
}

// Navigation lists the sections in display order.
var Navigation = []NavItem{
	{SectionDashboard, "Dashboard"},
	{SectionVehicles, "Veículos"},
	{SectionDeliveries, "Entregas"},
	{SectionRoutes, "Rotas"},
	{SectionSettings, "Configurações"},
}

type NavEntry struct {
	NavItem
	Active bool
}

// ViewState holds the theme and the active section, persisted in Storage.
type ViewState struct {
	mu     sync.RWMutex
	store  Storage
	theme  Theme
	active Section
}

func NewViewState(store Storage) *ViewState {
	return &ViewState{store: store, theme: ThemeLight, active: SectionDashboard}
}

// LoadTheme restores the saved theme, defaulting to light.
func (v *ViewState) LoadTheme() Theme {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.theme = ThemeLight
	if t, ok := v.store.Get(themeKey); ok && Theme(t) == ThemeDark {
		v.theme = ThemeDark
	}
	return v.theme
}

// ToggleTheme flips the theme and persists it.
func (v *ViewState) ToggleTheme() (Theme, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := ThemeDark
	if v.theme == ThemeDark {
		next = ThemeLight
	}
	v.theme = next
	if err := v.store.Set(themeKey, string(next)); err != nil {
		return next, fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}

func (v *ViewState) Theme() Theme {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.theme
}

// RootClass is the class applied to the document root, e.g. "dark-mode".
func (v *ViewState) RootClass() string {
	return string(v.Theme()) + "-mode"
}

// ThemeIcon names the toggle icon: the sun switches back to light.
func (v *ViewState) ThemeIcon() string {
	if v.Theme() == ThemeDark {
		return "sun"
	}
	return "moon"
}

func lookupSection(s Section) (NavItem, bool) {
	for _, item := range Navigation {
		if item.Section == s {
			return item, true
		}
	}
	return NavItem{}, false
}

// LoadNavigation restores the saved section, defaulting to the dashboard.
func (v *ViewState) LoadNavigation() Section {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.active = SectionDashboard
	if s, ok := v.store.Get(sectionKey); ok {
		if _, known := lookupSection(Section(s)); known {
			v.active = Section(s)
		}
	}
	return v.active
}

// Select activates s and deactivates every other section.
func (v *ViewState) Select(s Section) error {
	if _, ok := lookupSection(s); !ok {
		return fmt.Errorf("unknown section %q", s)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = s
	if err := v.store.Set(sectionKey, string(s)); err != nil {
		return fmt.Errorf("save section: %w", err)
	}
	return nil
}

func (v *ViewState) Active() Section {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

// HeaderLabel is the label of the active section.
func (v *ViewState) HeaderLabel() string {
	item, _ := lookupSection(v.Active())
	return item.Label
}

func (v *ViewState) Nav() []NavEntry {
	active := v.Active()
	out := make([]NavEntry, 0, len(Navigation))
	for _, item := range Navigation {
		out = append(out, NavEntry{NavItem: item, Active: item.Section == active})
	}
	return out
}

// Clock drives the header's wall-clock label.
type Clock struct {
	Now      func() time.Time
	Interval time.Duration
}

const ClockLayout = "15:04:05"

// DefaultClockInterval is how often the header label refreshes.
const DefaultClockInterval = time.Second

func (c Clock) interval() time.Duration {
	if c.Interval <= 0 {
		return DefaultClockInterval
	}
	return c.Interval
}

// Run calls fn with the current time label immediately and then every
// interval until ctx is done.
func (c Clock) Run(ctx context.Context, fn func(label string)) {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	fn(now().Format(ClockLayout))

	ticker := time.NewTicker(c.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(now().Format(ClockLayout))
		}
	}
}
