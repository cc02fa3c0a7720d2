// Package view holds the per-visitor view state of the portfolio page and the
// timers that drive it.
package view

import (
	"maps"
	"time"
)

// Theme is the color scheme of the page.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between dark and light.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// State is a snapshot of one view. Transitions return a new State and never
// modify the receiver.
type State struct {
	ActiveSection Section
	Theme         Theme
	IsLoading     bool
	CurrentTime   time.Time
	Skills        map[string]int
}

// NewState returns the defaults a view is mounted with.
func NewState(now time.Time, skills map[string]int) State {
	return State{
		ActiveSection: SectionHome,
		Theme:         ThemeDark,
		IsLoading:     true,
		CurrentTime:   now,
		Skills:        maps.Clone(skills),
	}
}

// WithSection makes sec the visible section. Invalid sections leave the
// state unchanged.
func (s State) WithSection(sec Section) State {
	if !sec.Valid() {
		return s
	}
	s.ActiveSection = sec
	return s
}

func (s State) ToggleTheme() State {
	s.Theme = s.Theme.Toggle()
	return s
}

// Loaded clears the loading flag.
func (s State) Loaded() State {
	s.IsLoading = false
	return s
}

func (s State) WithTime(t time.Time) State {
	s.CurrentTime = t
	return s
}

// Is reports whether sec is the visible section.
func (s State) Is(sec Section) bool {
	return s.ActiveSection == sec
}
