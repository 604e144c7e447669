package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/configkeys/internal/cli/config"
	"github.com/conduit-lang/configkeys/internal/cli/ui"
	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// Global flags
var (
	configFile string
	verbose    bool
	noColor    bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "configkeys",
		Short: "Typed configuration keys generated from a JSON store",
		Long: color.CyanString(`configkeys - typed access to free-form configuration

configkeys keeps a JSON configuration store and generates a Go file
declaring one struct per distinct object shape found in it. Every change
to the store through configkeys regenerates the file.

Features:
  • Order-preserving store with dotted-path get/set
  • Deterministic, gofmt-formatted output
  • Per-module configuration templates
  • Regeneration on store changes (watch)`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Tool configuration file (default: configkeys.yml in the project root)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewRefreshCommand())
	rootCmd.AddCommand(NewTemplatesCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewSetCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewDiffCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the configkeys version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor)
			kv.AddRow("configkeys version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

// reportError prints err the way its type asks for
func reportError(w io.Writer, err error) {
	var notFound *KeyNotFoundError
	if errors.As(err, &notFound) {
		fmt.Fprint(w, ui.KeyNotFoundError(notFound.Path, notFound.Suggestions, noColor))
		return
	}
	if toolErr, ok := toolerrors.As(err); ok {
		fmt.Fprint(w, ui.ToolError(toolErr, noColor))
		return
	}
	errorColor := color.New(color.FgRed, color.Bold)
	errorColor.Fprintf(w, "Error: %v\n", err)
}

// environment is what every store-backed command starts from
type environment struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return &environment{
		cfg: cfg,
		log: logging.New("configkeys", verbose || cfg.Verbose),
	}, nil
}
