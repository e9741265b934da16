package types

import (
	"io/fs"
)

// FS is the filesystem interface required by file-backed storage
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error

	// Rename must replace newpath atomically when it already exists
	Rename(oldpath, newpath string) error
}

// Pather provides the directories coredroid reads and writes
type Pather interface {
	// DataDir returns the XDG data directory for coredroid
	DataDir() string

	// ConfigDir returns the XDG config directory for coredroid
	ConfigDir() string

	// StateDir returns the XDG state directory for coredroid
	StateDir() string
}
