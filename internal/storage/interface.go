package storage

import "errors"

var (
	// ErrNotInitialized is returned by Load when the backing store was never created.
	ErrNotInitialized = errors.New("storage not initialized, run 'hogar init' first")
	// ErrNotLoaded is returned when an entry is read or written before Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a labelled, last-write-wins record store. Each label holds the
// full JSON value of one collection.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	Get(label string) ([]byte, bool, error)
	Put(label string, value []byte) error
	// PutAll writes every entry in one transition.
	PutAll(entries map[string][]byte) error

	// Utils
	GetConfigPath() string
}
