package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/render-tools/internal/config"
	"github.com/shinji-kodama/render-tools/internal/log"
	"github.com/shinji-kodama/render-tools/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// configPath is the YAML config file given with --config.
	configPath string

	// logFile overrides the configured rotating log file.
	logFile string
)

// State built by the root command before any subcommand runs.
var (
	appConfig *config.Config
	appLogger *log.Logger
)

// Version, Commit, and Date are set at build time via ldflags.
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
// This is the entry point for the entire CLI application.
//
// The root command itself only provides help text and global flags.
// Before any subcommand runs it loads the configuration and builds the
// logger; after the subcommand it flushes the logger.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "render-tools",
		Short: "Camera framing and renderer metadata tools for scene documents",
		Long: `render-tools keeps a scene camera's aspect ratio, field of view and output
size consistent, and removes third-party renderer metadata from scene
documents in a single undoable transaction.

Scene documents are YAML (.yaml, .yml) or JSON with comments (.json, .jsonc).`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appLogger != nil {
				_ = appLogger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (env: RENDER_TOOLS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this rotating file")

	rootCmd.AddCommand(NewPurgeCommand())
	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewCameraCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewLoadRendererCommand())
	rootCmd.AddCommand(NewSignaturesCommand())

	return rootCmd
}

// setup loads the configuration and creates the logger.
func setup() error {
	cfg, err := config.Load(config.Options{Path: configPath})
	if err != nil {
		return err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	logger, err := log.NewLogger(cfg.LogOptions(verbose))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to create logger", err)
	}
	appConfig = cfg
	appLogger = logger
	VerboseLog("Loaded configuration (locale %s, debounce %s)", cfg.Locale, cfg.Debounce)
	return nil
}

// currentConfig returns the loaded configuration, or the defaults when
// commands run without the root command (as in tests).
func currentConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

func currentLogger() *log.Logger {
	return log.OrNop(appLogger)
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own
// exit codes; other errors default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
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
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// VerboseLog writes a debug entry through the shared logger. It is only
// visible with --verbose or in the log file.
func VerboseLog(format string, args ...interface{}) {
	currentLogger().Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
