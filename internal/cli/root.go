// Package cli implements the coinage command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/internal/paths"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0-dev"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by one command invocation.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	cfg       types.Config
	log       *logger.Logger
}

// NewRootCmd creates the top-level "coinage" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: logger.NewNop()}

	root := &cobra.Command{
		Use:   "coinage",
		Short: "A catalog of coined words",
		Long: `Coinage keeps a catalog of neologisms: invented words with their root
words, category, definition and a draft/ready/rejected workflow status.
The catalog lives locally, mirrored to files, SQLite or Redis, or on a
remote REST API.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output as JSON")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newAddCmd(a),
		newCategoriesCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newSearchCmd(a),
		newStatusCmd(a),
		newEditCmd(a),
		newFeaturedCmd(a),
		newLatestCmd(a),
		newServeCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
	)
	return root
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := configFromViper(v, dataDir)
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("config %s: %w", paths.ConfigFile(configDir), err))
	}

	log, err := logger.New(v.GetString(cfgKeyLogMode), a.flags.logLevel)
	if err != nil {
		return userError(err)
	}

	a.configDir = configDir
	a.v = v
	a.cfg = cfg
	a.log = log
	a.log.Debug("configuration loaded",
		"config_dir", configDir,
		"data_dir", dataDir,
		"backend", cfg.Backend,
		"mirror", cfg.Mirror,
	)
	return nil
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "coinage:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Unknown commands and bad flags come from cobra.
	return exitUserError
}

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }
