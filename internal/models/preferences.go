package models

// Preferences is the client-local view state. It is read once when a session
// starts and written back on every change.
type Preferences struct {
	ViewMode       string   `json:"viewMode"`
	OriginFilter   string   `json:"originFilter"`
	SelectedPerson string   `json:"selectedPerson"`
	PinnedPeople   []string `json:"pinnedPeople"`
	Notes          string   `json:"notes"`
	Timezone       string   `json:"timezone"`
}

// IsPinned reports whether name is in the pinned list.
func (p Preferences) IsPinned(name string) bool {
	for _, n := range p.PinnedPeople {
		if n == name {
			return true
		}
	}
	return false
}
