package datastore

import (
	"io"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// ClassSuffix is appended to a key to form the key of its type tag entry
const ClassSuffix = "-Class"

// DataStore is the storage abstraction for application objects.
type DataStore interface {
	// Save stores obj under key, replacing any previous value for key in
	// either partition. A nil obj deletes the key.
	Save(key string, obj types.CoreObject) error

	// Get returns the object stored under key. Absent keys fail with
	// errors.ErrNotFound; entries that exist but cannot be reconstructed
	// fail with an error for which IsCorrupt reports true.
	Get(key string) (types.CoreObject, error)

	// Clear removes every entry of the session partition.
	Clear() error

	// Dump writes the raw entries of both partitions to w, persistent
	// partition first.
	Dump(w io.Writer) error
}

// Status classifies the outcome of a lookup
type Status int

const (
	// StatusNotFound means the key is absent from both partitions
	StatusNotFound Status = iota
	// StatusFound means the object was reconstructed
	StatusFound
	// StatusCorrupt means a value exists but its type tag is missing,
	// names an unknown type, or the payload does not decode
	StatusCorrupt
	// StatusUnavailable means the substrate could not be read
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not-found"
	case StatusFound:
		return "found"
	case StatusCorrupt:
		return "corrupt"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result is the detailed outcome of a lookup.
type Result struct {
	Object    types.CoreObject
	Status    Status
	Partition types.Partition
	TypeName  string
	Err       error
}

// IsCorrupt reports whether err means an entry exists but cannot be
// reconstructed. Callers typically treat it like a missing entry and
// rebuild the state, but may want to report it.
func IsCorrupt(err error) bool {
	switch errors.GetErrorCode(err) {
	case errors.ErrMissingTypeTag, errors.ErrUnknownType, errors.ErrDecode:
		return true
	default:
		return false
	}
}
