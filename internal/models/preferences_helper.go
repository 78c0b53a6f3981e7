package models

import (
	"fmt"

	"github.com/julianstephens/mantenix/internal/constants"
)

// MapToPreferences converts stored key-value settings into Preferences.
// Pinned people are stored separately and are not part of the map.
func MapToPreferences(data map[string]string) Preferences {
	prefs := Preferences{}
	for key, value := range data {
		switch key {
		case constants.SettingViewMode:
			prefs.ViewMode = value
		case constants.SettingOriginFilter:
			prefs.OriginFilter = value
		case constants.SettingSelectedPerson:
			prefs.SelectedPerson = value
		case constants.SettingNotes:
			prefs.Notes = value
		case constants.SettingTimezone:
			prefs.Timezone = value
		}
	}
	return prefs
}

// PreferencesToMap converts Preferences to the key-value form stored in the settings table.
func PreferencesToMap(prefs Preferences) map[string]string {
	return map[string]string{
		constants.SettingViewMode:       prefs.ViewMode,
		constants.SettingOriginFilter:   prefs.OriginFilter,
		constants.SettingSelectedPerson: prefs.SelectedPerson,
		constants.SettingNotes:          prefs.Notes,
		constants.SettingTimezone:       prefs.Timezone,
	}
}

// ApplyDefaultPreferences fills in missing preference values.
func ApplyDefaultPreferences(prefs *Preferences) {
	if prefs.ViewMode == "" {
		prefs.ViewMode = constants.DefaultViewMode
	}
	if prefs.OriginFilter == "" {
		prefs.OriginFilter = constants.DefaultOriginFilter
	}
	if prefs.Timezone == "" {
		prefs.Timezone = constants.DefaultTimezone
	}
	if prefs.PinnedPeople == nil {
		prefs.PinnedPeople = []string{}
	}
}

// ValidatePreferences rejects unknown view modes and origin filters.
func ValidatePreferences(prefs Preferences) error {
	switch prefs.ViewMode {
	case "", constants.ViewModeList, constants.ViewModeKanban, constants.ViewModeCalendar:
	default:
		return fmt.Errorf("invalid view mode %q", prefs.ViewMode)
	}
	switch prefs.OriginFilter {
	case "", constants.FilterAll, string(OriginAgenda), string(OriginRegular):
	default:
		return fmt.Errorf("invalid origin filter %q", prefs.OriginFilter)
	}
	return nil
}
