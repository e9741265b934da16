package types

// Preferences is a named, durable mapping of string keys to string values.
// It is the substrate a DataStore persists into; each partition is backed
// by one Preferences instance.
//
// Implementations must be safe for concurrent use.
type Preferences interface {
	// Name returns the name the preferences were opened with.
	Name() string

	// GetString returns the value for key. ok is false when the key is absent.
	GetString(key string) (value string, ok bool, err error)

	// All returns a copy of every entry.
	All() (map[string]string, error)

	// Edit starts a batch of changes that is applied by Commit.
	Edit() Editor
}

// Editor accumulates changes to a Preferences instance.
//
// Commit applies the whole batch atomically or not at all. A Clear in the
// batch is applied before any PutString or Remove, regardless of the order
// the calls were made in.
type Editor interface {
	PutString(key, value string) Editor
	Remove(key string) Editor
	Clear() Editor
	Commit() error
}
