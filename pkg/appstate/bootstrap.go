package appstate

import (
	"path/filepath"
	"time"

	"github.com/arthur-debert/coredroid/pkg/config"
	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/logging"
	"github.com/arthur-debert/coredroid/pkg/prefs"
	"github.com/arthur-debert/coredroid/pkg/registry"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// Bootstrap opens the backend selected by cfg for both partitions and
// returns the resulting State. Call Close on the State at shutdown.
func Bootstrap(cfg *config.Config, p types.Pather, fsys types.FS, reg *registry.Types) (*State, error) {
	log := logging.GetLogger("appstate")
	defer logging.LogDuration(time.Now(), "bootstrap")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sc := cfg.Store
	dataDir := DataDir(cfg, p)

	s := &State{types: reg, backend: sc.Backend}
	var session, persistent types.Preferences

	switch sc.Backend {
	case config.BackendMemory:
		session = prefs.NewMemory(sc.SessionName)
		persistent = prefs.NewMemory(sc.PersistentName)

	case config.BackendXML:
		x, err := prefs.OpenXML(fsys, dataDir, sc.SessionName)
		if err != nil {
			return nil, err
		}
		session = x
		x, err = prefs.OpenXML(fsys, dataDir, sc.PersistentName)
		if err != nil {
			return nil, err
		}
		persistent = x

	case config.BackendSQLite:
		path := sc.SQLiteFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dataDir, path)
		}
		db, err := prefs.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db)
		session = db.Partition(sc.SessionName)
		persistent = db.Partition(sc.PersistentName)

	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown store backend %q", sc.Backend)
	}

	s.store = datastore.New(session, persistent, reg)

	log.Debug().
		Str("backend", sc.Backend).
		Str("dataDir", dataDir).
		Str("session", sc.SessionName).
		Str("persistent", sc.PersistentName).
		Msg("Application state ready")
	return s, nil
}

// DataDir returns the directory the store keeps its files in: the
// configured data_dir, or the XDG data directory when unset.
func DataDir(cfg *config.Config, p types.Pather) string {
	if cfg.Store.DataDir != "" {
		return cfg.Store.DataDir
	}
	return p.DataDir()
}
