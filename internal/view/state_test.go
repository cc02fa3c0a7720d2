package view

import (
	"testing"
	"time"
)

func TestNewStateDefaults(t *testing.T) {
	now := time.Date(2025, 3, 7, 9, 5, 3, 0, time.UTC)
	skills := map[string]int{"docker": 92}
	s := NewState(now, skills)
	if s.ActiveSection != SectionHome || s.Theme != ThemeDark || !s.IsLoading || !s.CurrentTime.Equal(now) {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	skills["docker"] = 1
	if s.Skills["docker"] != 92 {
		t.Fatal("state shares the caller's skills map")
	}
}

func TestTransitionsArePure(t *testing.T) {
	s := NewState(time.Unix(0, 0), nil)

	next := s.WithSection(SectionSkills)
	if s.ActiveSection != SectionHome {
		t.Fatal("WithSection modified the receiver")
	}
	if !next.Is(SectionSkills) {
		t.Fatalf("active = %v, want skills", next.ActiveSection)
	}
	if again := next.WithSection(SectionSkills); again.ActiveSection != next.ActiveSection {
		t.Fatal("repeating a section changed the state")
	}
	if bad := next.WithSection(Section(99)); bad.ActiveSection != SectionSkills {
		t.Fatal("invalid section replaced the active one")
	}

	light := s.ToggleTheme()
	if s.Theme != ThemeDark || light.Theme != ThemeLight || light.ToggleTheme().Theme != ThemeDark {
		t.Fatal("theme toggle is wrong")
	}

	loaded := s.Loaded()
	if !s.IsLoading || loaded.IsLoading {
		t.Fatal("Loaded is wrong")
	}

	later := time.Unix(10, 0)
	if ticked := s.WithTime(later); !ticked.CurrentTime.Equal(later) || !s.CurrentTime.Equal(time.Unix(0, 0)) {
		t.Fatal("WithTime is wrong")
	}
}
