package constants

const (
	// Preference keys persisted in the local store
	SettingViewMode       = "view_mode"
	SettingOriginFilter   = "origin_filter"
	SettingSelectedPerson = "selected_person"
	SettingNotes          = "notes"
	SettingTimezone       = "timezone"

	// View modes
	ViewModeList     = "list"
	ViewModeKanban   = "kanban"
	ViewModeCalendar = "calendar"

	// Default preference values
	DefaultViewMode     = ViewModeList
	DefaultOriginFilter = "all"
	DefaultTimezone     = "Local" // Use system local timezone by default

	// FilterAll disables a filter dimension.
	FilterAll = "all"
)
