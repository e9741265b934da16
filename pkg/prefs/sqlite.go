package prefs

import (
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/logging"
	"github.com/arthur-debert/coredroid/pkg/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	namespace TEXT NOT NULL,
	pref_key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (namespace, pref_key)
);
`

// SQLite keeps any number of named partitions in one database file.
type SQLite struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// OpenSQLite opens the database at path, creating parent dirs and schema.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dir)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to create schema in %s", path)
	}
	return &SQLite{
		db:   db,
		path: path,
		log:  logging.GetLogger("prefs").With().Str("db", path).Logger(),
	}, nil
}

// Partition returns the Preferences stored under name
func (s *SQLite) Partition(name string) types.Preferences {
	return &sqlitePrefs{store: s, name: name}
}

// Close releases the database connection. Call on shutdown for clean exit.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

var _ types.Preferences = (*sqlitePrefs)(nil)

type sqlitePrefs struct {
	store *SQLite
	name  string
}

func (p *sqlitePrefs) Name() string {
	return p.name
}

func (p *sqlitePrefs) GetString(key string) (string, bool, error) {
	var value string
	err := p.store.db.QueryRow(
		"SELECT value FROM preferences WHERE namespace = ? AND pref_key = ?", p.name, key,
	).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrRead, "failed to read %s from %s", key, p.name)
	}
	return value, true, nil
}

func (p *sqlitePrefs) All() (map[string]string, error) {
	rows, err := p.store.db.Query("SELECT pref_key, value FROM preferences WHERE namespace = ?", p.name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRead, "failed to list %s", p.name)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRead, "failed to scan %s", p.name)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRead, "%s iteration", p.name)
	}
	return out, nil
}

func (p *sqlitePrefs) Edit() types.Editor {
	return newEditor(p.commit)
}

func (p *sqlitePrefs) commit(b *batch) error {
	tx, err := p.store.db.Begin()
	if err != nil {
		return errors.Wrapf(err, errors.ErrCommit, "failed to begin %s transaction", p.name)
	}
	defer func() { _ = tx.Rollback() }()

	if b.clear {
		if _, err := tx.Exec("DELETE FROM preferences WHERE namespace = ?", p.name); err != nil {
			return errors.Wrapf(err, errors.ErrCommit, "failed to clear %s", p.name)
		}
	}
	for _, k := range b.keys() {
		c := b.changes[k]
		if c.remove {
			_, err = tx.Exec("DELETE FROM preferences WHERE namespace = ? AND pref_key = ?", p.name, k)
		} else {
			_, err = tx.Exec(`INSERT INTO preferences (namespace, pref_key, value) VALUES (?, ?, ?)
				ON CONFLICT(namespace, pref_key) DO UPDATE SET value = excluded.value`, p.name, k, c.value)
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrCommit, "failed to write %s in %s", k, p.name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, errors.ErrCommit, "failed to commit %s", p.name)
	}
	p.store.log.Trace().
		Str("prefs", p.name).
		Bool("clear", b.clear).
		Strs("keys", b.keys()).
		Msg("Committed preferences")
	return nil
}
