package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/coredroid/pkg/types"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for coredroid
	EnvDataDir = "COREDROID_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for coredroid
	EnvConfigDir = "COREDROID_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for coredroid
	EnvStateDir = "COREDROID_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for coredroid-specific files
	AppDirName = "coredroid"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "coredroid.log"
)

// Paths provides centralized path management for coredroid
type Paths interface {
	types.Pather
	ConfigFilePath() string
	LogFilePath() string
}

type paths struct {
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New creates a new Paths instance from the environment.
func New() Paths {
	p := &paths{}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// xdg.StateHome is resolved at package init, so honour late env changes here
	switch {
	case os.Getenv(EnvStateDir) != "":
		p.xdgState = expandHome(os.Getenv(EnvStateDir))
	case os.Getenv("XDG_STATE_HOME") != "":
		p.xdgState = filepath.Join(os.Getenv("XDG_STATE_HOME"), AppDirName)
	default:
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

// DataDir returns the directory preference files are stored in
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the directory holding config.toml
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the directory holding logs
func (p *paths) StateDir() string {
	return p.xdgState
}

// ConfigFilePath returns the default user config file path
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// LogFilePath returns the path of the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
