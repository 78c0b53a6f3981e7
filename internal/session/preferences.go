package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/utils"
)

// Preferences returns a copy of the current preferences.
func (s *Session) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.prefs
	p.PinnedPeople = slices.Clone(s.prefs.PinnedPeople)
	return p
}

// Update applies fn to a copy of the preferences, persists it, and only then
// makes it current.
func (s *Session) Update(fn func(*models.Preferences)) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs
	next.PinnedPeople = slices.Clone(s.prefs.PinnedPeople)
	fn(&next)
	models.ApplyDefaultPreferences(&next)

	if err := models.ValidatePreferences(next); err != nil {
		return s.prefs, err
	}
	if !utils.ValidateTimezone(next.Timezone) {
		return s.prefs, fmt.Errorf("invalid timezone %q", next.Timezone)
	}
	if err := s.store.SavePreferences(next); err != nil {
		return s.prefs, fmt.Errorf("save preferences: %w", err)
	}
	s.prefs = next
	return next, nil
}

func (s *Session) SetViewMode(mode string) error {
	_, err := s.Update(func(p *models.Preferences) { p.ViewMode = mode })
	return err
}

func (s *Session) SetOriginFilter(origin string) error {
	_, err := s.Update(func(p *models.Preferences) { p.OriginFilter = origin })
	return err
}

// SetSelectedPerson selects a person; an empty name clears the selection.
func (s *Session) SetSelectedPerson(name string) error {
	_, err := s.Update(func(p *models.Preferences) { p.SelectedPerson = strings.TrimSpace(name) })
	return err
}

func (s *Session) SetNotes(notes string) error {
	_, err := s.Update(func(p *models.Preferences) { p.Notes = notes })
	return err
}

// Pin adds name to the pinned list. Pinning an already pinned name is a no-op.
func (s *Session) Pin(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("person name cannot be empty")
	}
	_, err := s.Update(func(p *models.Preferences) {
		if !slices.Contains(p.PinnedPeople, name) {
			p.PinnedPeople = append(p.PinnedPeople, name)
		}
	})
	return err
}

func (s *Session) Unpin(name string) error {
	_, err := s.Update(func(p *models.Preferences) {
		p.PinnedPeople = slices.DeleteFunc(p.PinnedPeople, func(n string) bool { return n == name })
	})
	return err
}

// TogglePin pins or unpins name and reports whether it is now pinned.
func (s *Session) TogglePin(name string) (bool, error) {
	if s.Preferences().IsPinned(name) {
		return false, s.Unpin(name)
	}
	return true, s.Pin(name)
}
