// Package cli implements the cobra-based CLI commands for dfmgen.
//
// Each subcommand (show, set, run, reset, episode, import, watch, jobs) is
// defined in its own file within this package. This file defines the root
// command that serves as the parent for all subcommands and handles global
// flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/config"
	"github.com/shinji-kodama/dfmgen/internal/logging"
	"github.com/shinji-kodama/dfmgen/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, all output uses structured JSON format for machine consumption,
	// and log lines are JSON as well. When false (default), output uses
	// human-readable text format.
	jsonOutput bool

	// verbose lowers the log level to debug, whatever log.level says.
	// Log lines always go to stderr so stdout stays parseable.
	verbose bool

	// packagePath overrides package.path from the configuration.
	// When both are empty the package is looked up in the working directory.
	packagePath string

	// configPath names the config file explicitly. A missing explicit file
	// is an error, unlike the default location.
	configPath string
)

// cfg and logger are initialized by the root command before any
// subcommand runs.
var (
	// cfg is the merged configuration: defaults, config file, DFMGEN_* env.
	cfg config.Config

	// logger starts as a no-op so helpers are safe to call before
	// PersistentPreRunE has run (for example from tests).
	logger = zap.NewNop()
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags, and loads the configuration and logger for
// the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "dfmgen",
		Short: "Dynamic fracture model argument package editor",
		Long: `dfmgen edits the argument package of a dynamic fracture model (DFN)
generator job and dispatches committed packages to the calculation engine.

The package is stored as YAML. Every edit goes through the same
load/store synchronization as the interactive editor, so derived state
(enabled aperture parameters, the unit of the microfracture density)
always matches the stored values.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRunE runs before every subcommand. Configuration is
		// loaded here rather than in an init function so that flags such as
		// --config have already been parsed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded

			l, err := logging.New(logging.Options{Level: cfg.Log.Level, Verbose: verbose, JSON: jsonOutput})
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "invalid log configuration", err)
			}
			logger = l
			logger.Debug("configuration loaded",
				zap.String("engine.mode", cfg.Engine.Mode),
				zap.String("units.system", cfg.Units.System))
			return nil
		},
		// PersistentPostRun flushes buffered log entries. Sync errors on
		// stderr (EINVAL on some terminals) are not worth reporting.
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags: any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&packagePath, "package", "p", "", "Argument package file (default: package.path, then .dfmgen/package.yaml or dfn-package.yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $DFMGEN_CONFIG or ~/.config/dfmgen/config.toml)")

	// Register subcommands. Each subcommand is defined in its own file
	// (show.go, set.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewSetCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewResetCommand())
	rootCmd.AddCommand(NewEpisodeCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewJobsCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to exit
// code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// Check if the error carries a specific exit code. errors.As is
		// needed because commands wrap CLIErrors on their way up.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(os.Stderr, cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		// Generic error: exit with code 1.
		printError(os.Stderr, err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	// Text format: "Error: <message>" on stderr.
	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
