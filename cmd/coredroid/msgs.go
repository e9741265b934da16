package coredroid

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Inspect and edit coredroid application state"
	MsgGetShort        = "Print the object stored under a key"
	MsgPutShort        = "Store an object under a key"
	MsgDeleteShort     = "Delete the object stored under a key"
	MsgClearShort      = "Discard every session entry"
	MsgDumpShort       = "List the raw entries of both partitions"
	MsgTypesShort      = "List registered object types"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgSaved       = "Saved %s to the %s partition"
	MsgDeleted     = "Deleted %s"
	MsgCleared     = "Cleared the session partition"
	MsgObjectMeta  = "(%s, %s)"
	MsgExpired     = "Warning: %s has expired"
	MsgNoTypes     = "No types registered."
	MsgAliasOf     = "alias of %s"

	// Error messages
	MsgErrNoCommand   = "no command specified"
	MsgErrFormat      = "invalid output format: %w"
	MsgErrReadInput   = "failed to read object JSON: %w"
	MsgErrParseObject = "invalid JSON for %s: %w"
	MsgErrCorrupt     = "entry %q cannot be loaded; run 'coredroid delete %s' to discard it: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default is $XDG_CONFIG_HOME/coredroid/config.toml)"
	MsgFlagOutput   = "Output format: auto, text, json or yaml"
	MsgFlagDefaults = "Print the built-in defaults instead of the effective configuration"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/get-long.txt
	msgGetLongRaw string
	MsgGetLong    = strings.TrimSpace(msgGetLongRaw)

	//go:embed msgs/get-example.txt
	msgGetExampleRaw string
	MsgGetExample    = strings.TrimSpace(msgGetExampleRaw)

	//go:embed msgs/put-long.txt
	msgPutLongRaw string
	MsgPutLong    = strings.TrimSpace(msgPutLongRaw)

	//go:embed msgs/put-example.txt
	msgPutExampleRaw string
	MsgPutExample    = strings.TrimSpace(msgPutExampleRaw)

	//go:embed msgs/dump-long.txt
	msgDumpLongRaw string
	MsgDumpLong    = strings.TrimSpace(msgDumpLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
