package config

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/coredroid/pkg/errors"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendXML    = "xml"
	BackendSQLite = "sqlite"
)

// Backends lists every supported backend
var Backends = []string{BackendMemory, BackendXML, BackendSQLite}

// Config is the effective coredroid configuration
type Config struct {
	Store StoreConfig `koanf:"store" toml:"store"`
	Log   LogConfig   `koanf:"log" toml:"log"`
}

// StoreConfig selects and locates the preference backend
type StoreConfig struct {
	Backend        string `koanf:"backend" toml:"backend"`
	DataDir        string `koanf:"data_dir" toml:"data_dir"`
	SessionName    string `koanf:"session_name" toml:"session_name"`
	PersistentName string `koanf:"persistent_name" toml:"persistent_name"`
	SQLiteFile     string `koanf:"sqlite_file" toml:"sqlite_file"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

// Validate checks the configuration for values the store cannot work with
func (c *Config) Validate() error {
	s := c.Store

	valid := false
	for _, b := range Backends {
		if s.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return errors.Newf(errors.ErrConfigValid, "unknown store backend %q", s.Backend).
			WithDetail("backend", s.Backend).
			WithDetail("supported", Backends)
	}

	if s.SessionName == "" || s.PersistentName == "" {
		return errors.New(errors.ErrConfigValid, "session_name and persistent_name must be set")
	}
	if s.SessionName == s.PersistentName {
		return errors.Newf(errors.ErrConfigValid, "session and persistent partitions share the name %q", s.SessionName).
			WithDetail("name", s.SessionName)
	}
	if s.Backend == BackendSQLite && s.SQLiteFile == "" {
		return errors.New(errors.ErrConfigValid, "sqlite_file must be set for the sqlite backend")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "log verbosity cannot be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// TOML renders the configuration in the format of the config file
func (c *Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}

// DefaultContent returns the embedded default configuration file
func DefaultContent() string {
	return string(defaultConfig)
}
