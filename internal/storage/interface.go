package storage

import "github.com/julianstephens/mantenix/internal/models"

// Provider persists the client-local preferences.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Preferences
	GetPreferences() (models.Preferences, error)
	SavePreferences(models.Preferences) error

	// Pinned people, in pin order
	GetPinned() ([]string, error)
	AddPinned(name string) error
	// RemovePinned reports whether name was pinned.
	RemovePinned(name string) (bool, error)

	// Utils
	SchemaVersion() (current, latest int, err error)
	GetConfigPath() string
}
