package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/coredroid/pkg/filesystem"
	"github.com/arthur-debert/coredroid/pkg/prefs"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// Backend opens Preferences on one storage backend
type Backend struct {
	Name string

	// Open returns one Preferences per name. All of them share a single
	// underlying store: one filesystem or one database.
	Open func(t *testing.T, names ...string) []types.Preferences
}

// OpenOne opens a single Preferences
func (b Backend) OpenOne(t *testing.T, name string) types.Preferences {
	t.Helper()
	return b.Open(t, name)[0]
}

// OpenPair opens a session and a persistent Preferences with the default names
func (b Backend) OpenPair(t *testing.T) (session, persistent types.Preferences) {
	t.Helper()
	ps := b.Open(t, "AppState", "PersistentPrefs")
	return ps[0], ps[1]
}

// Backends returns the memory, XML (on an in-memory filesystem) and
// SQLite (in a temp dir) backends
func Backends() []Backend {
	return []Backend{
		{
			Name: "memory",
			Open: func(t *testing.T, names ...string) []types.Preferences {
				out := make([]types.Preferences, len(names))
				for i, name := range names {
					out[i] = prefs.NewMemory(name)
				}
				return out
			},
		},
		{
			Name: "xml",
			Open: func(t *testing.T, names ...string) []types.Preferences {
				fs := filesystem.NewMemFS()
				out := make([]types.Preferences, len(names))
				for i, name := range names {
					p, err := prefs.OpenXML(fs, "/data/shared_prefs", name)
					require.NoError(t, err)
					out[i] = p
				}
				return out
			},
		},
		{
			Name: "sqlite",
			Open: func(t *testing.T, names ...string) []types.Preferences {
				db, err := prefs.OpenSQLite(filepath.Join(t.TempDir(), "preferences.sqlite"))
				require.NoError(t, err)
				t.Cleanup(func() { _ = db.Close() })

				out := make([]types.Preferences, len(names))
				for i, name := range names {
					out[i] = db.Partition(name)
				}
				return out
			},
		},
	}
}
