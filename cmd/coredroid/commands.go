package coredroid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/coredroid/internal/version"
	"github.com/arthur-debert/coredroid/pkg/appstate"
	"github.com/arthur-debert/coredroid/pkg/config"
	"github.com/arthur-debert/coredroid/pkg/datastore"
	"github.com/arthur-debert/coredroid/pkg/errors"
	"github.com/arthur-debert/coredroid/pkg/filesystem"
	"github.com/arthur-debert/coredroid/pkg/logging"
	"github.com/arthur-debert/coredroid/pkg/objects"
	"github.com/arthur-debert/coredroid/pkg/paths"
	"github.com/arthur-debert/coredroid/pkg/registry"
	"github.com/arthur-debert/coredroid/pkg/types"
	"github.com/arthur-debert/coredroid/pkg/ui"
)

// annotationNoState marks commands that run without opening the store
const annotationNoState = "coredroid/no-state"

var noState = map[string]string{annotationNoState: "true"}

type configKey struct{}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var (
		verbosity  int
		configFile string
	)

	rootCmd := &cobra.Command{
		Use:     "coredroid",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			p := paths.New()

			cfg, err := loadConfig(configFile, p)
			if err != nil {
				return err
			}
			if cfg.Log.Verbosity > verbosity {
				logging.SetLevel(cfg.Log.Verbosity)
			}
			logging.LogCommand(cmd.Name(), args)

			if ui.DetectFormat(os.Stdout) != ui.FormatTerminal {
				pterm.DisableStyling()
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			if cmd.Annotations[annotationNoState] != "true" {
				reg, err := newTypes()
				if err != nil {
					return err
				}
				state, err := appstate.Bootstrap(cfg, p, filesystem.NewOS(), reg)
				if err != nil {
					return err
				}
				ctx = appstate.WithState(ctx, state)
			}
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help and fail
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		Annotations:       noState,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "store",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig loads the --config file when given, else the default
// location if a file exists there
func loadConfig(configFile string, p paths.Paths) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(paths.ExpandHome(configFile))
	}
	return config.Load(p.ConfigFilePath())
}

// newTypes returns a registry holding the built-in object types
func newTypes() (*registry.Types, error) {
	reg := registry.NewTypes()
	if err := objects.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func configFrom(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.New(errors.ErrNotInitialized, "configuration not loaded")
}

// withState hands fn the state bootstrapped for the command and closes
// it once fn returns, including when fn fails
func withState(fn func(cmd *cobra.Command, state *appstate.State, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		state, err := appstate.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := state.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return fn(cmd, state, args)
	}
}

// expirer is implemented by objects that stop being valid at some point,
// such as objects.Credentials
type expirer interface {
	Expired(now time.Time) bool
}

type lookuper interface {
	Lookup(key string) datastore.Result
}

// lookup returns the detailed result when the store supports it
func lookup(store datastore.DataStore, key string) datastore.Result {
	if l, ok := store.(lookuper); ok {
		return l.Lookup(key)
	}

	obj, err := store.Get(key)
	switch {
	case err == nil:
		return datastore.Result{Object: obj, Status: datastore.StatusFound, Partition: types.PartitionFor(obj)}
	case datastore.IsCorrupt(err):
		return datastore.Result{Status: datastore.StatusCorrupt, Err: err}
	case errors.IsNotFound(err):
		return datastore.Result{Status: datastore.StatusNotFound, Err: err}
	default:
		return datastore.Result{Status: datastore.StatusUnavailable, Err: err}
	}
}

func newGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "get KEY",
		Short:   MsgGetShort,
		Long:    MsgGetLong,
		Example: MsgGetExample,
		Args:    cobra.ExactArgs(1),
		GroupID: "store",
		RunE: withState(func(cmd *cobra.Command, state *appstate.State, args []string) error {
			format, err := ui.ParseFormat(output)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}

			key := args[0]
			res := lookup(state.Store(), key)
			switch res.Status {
			case datastore.StatusFound:
			case datastore.StatusCorrupt:
				return fmt.Errorf(MsgErrCorrupt, key, key, res.Err)
			default:
				return res.Err
			}

			out := cmd.OutOrStdout()
			format = ui.Resolve(format, out)
			if format == ui.FormatTerminal || format == ui.FormatText {
				typeName := res.TypeName
				if typeName == "" {
					typeName, _ = state.Types().NameOf(res.Object)
				}
				meta := fmt.Sprintf(MsgObjectMeta, typeName, res.Partition)
				fmt.Fprintln(out, ui.Style(format, ui.HeaderStyle, key), ui.Style(format, ui.MutedStyle, meta))
				if e, ok := res.Object.(expirer); ok && e.Expired(time.Now()) {
					fmt.Fprintln(out, ui.Style(format, ui.WarningStyle, fmt.Sprintf(MsgExpired, key)))
				}
			}
			return ui.Encode(out, format, res.Object)
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "auto", MsgFlagOutput)
	return cmd
}

func newPutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "put KEY TYPE [JSON|-]",
		Short:   MsgPutShort,
		Long:    MsgPutLong,
		Example: MsgPutExample,
		Args:    cobra.RangeArgs(2, 3),
		GroupID: "store",
		RunE: withState(func(cmd *cobra.Command, state *appstate.State, args []string) error {
			key := args[0]
			typeName, err := state.Types().Resolve(args[1])
			if err != nil {
				return err
			}
			obj, err := state.Types().New(typeName)
			if err != nil {
				return err
			}

			var raw []byte
			if len(args) == 3 && args[2] != "-" {
				raw = []byte(args[2])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf(MsgErrReadInput, err)
				}
			}

			dec := json.NewDecoder(bytes.NewReader(raw))
			dec.DisallowUnknownFields()
			if err := dec.Decode(obj); err != nil {
				return fmt.Errorf(MsgErrParseObject, typeName, err)
			}

			if err := state.Store().Save(key, obj); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			msg := fmt.Sprintf(MsgSaved, key, types.PartitionFor(obj))
			fmt.Fprintln(out, ui.Style(ui.Resolve(ui.FormatAuto, out), ui.SuccessStyle, msg))
			return nil
		}),
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"rm"},
		Short:   MsgDeleteShort,
		Args:    cobra.ExactArgs(1),
		GroupID: "store",
		RunE: withState(func(cmd *cobra.Command, state *appstate.State, args []string) error {
			if err := state.Store().Save(args[0], nil); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Style(ui.Resolve(ui.FormatAuto, out), ui.SuccessStyle, fmt.Sprintf(MsgDeleted, args[0])))
			return nil
		}),
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   MsgClearShort,
		Args:    cobra.NoArgs,
		GroupID: "store",
		RunE: withState(func(cmd *cobra.Command, state *appstate.State, args []string) error {
			if err := state.Store().Clear(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Style(ui.Resolve(ui.FormatAuto, out), ui.SuccessStyle, MsgCleared))
			return nil
		}),
	}
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dump",
		Short:   MsgDumpShort,
		Long:    MsgDumpLong,
		Args:    cobra.NoArgs,
		GroupID: "store",
		RunE: withState(func(cmd *cobra.Command, state *appstate.State, args []string) error {
			return state.Store().Dump(cmd.OutOrStdout())
		}),
	}
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "types",
		Short:       MsgTypesShort,
		Args:        cobra.NoArgs,
		GroupID:     "store",
		Annotations: noState,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newTypes()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			names := reg.Names()
			if len(names) == 0 {
				fmt.Fprintln(out, MsgNoTypes)
				return nil
			}

			format := ui.Resolve(ui.FormatAuto, out)
			data := pterm.TableData{{"TYPE", "PARTITION", "NOTE"}}
			for _, name := range names {
				obj, err := reg.New(name)
				if err != nil {
					return err
				}
				note := ""
				if canonical, err := reg.Canonical(name); err == nil && canonical != name {
					note = ui.Style(format, ui.MutedStyle, fmt.Sprintf(MsgAliasOf, canonical))
				}
				data = append(data, []string{
					ui.Style(format, ui.KeyStyle, name),
					string(types.PartitionFor(obj)),
					note,
				})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:         "config",
		Short:       MsgConfigShort,
		Args:        cobra.NoArgs,
		GroupID:     "misc",
		Annotations: noState,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				fmt.Fprintln(out, config.DefaultContent())
				return nil
			}

			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			rendered, err := cfg.TOML()
			if err != nil {
				return err
			}
			_, err = out.Write(rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       MsgVersionShort,
		Long:        MsgVersionLong,
		GroupID:     "misc",
		Annotations: noState,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "coredroid version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, "Built:  %s\n", version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		Annotations:           noState,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			log.Debug().Str("shell", args[0]).Msg("Generating completion script")
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
