package app

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/netorganizer/netorg/internal/cmd/output"
	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

// Execute runs the netorg CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "netorg",
		Short:   "Network organizer for Meraki networks",
		Version: a.version,
		Long: `netorg organizes the devices of one Meraki VLAN.

It reconciles a classification file (devices.yml) with the live DHCP
clients and the fixed-IP reservations, gives every device a fixed address,
and can mirror the device groups into Secure Network Analytics host groups.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/"+constants.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&a.config.Format, "format", "o", "", "output format: table, json, yaml, csv")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("netorg {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// A --config different from the one loaded at startup is read now
	configFile := mustGetString(cmd, "config")
	if cmd.Flags().Changed("config") {
		config, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	output.SetColor(!a.config.NoColor)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	// Every command runs with a run id on its logger
	ctx := logging.WithLogger(cmd.Context(), a.logger)
	ctx = logging.WithRunID(ctx, "")
	cmd.SetContext(ctx)
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewScanCommand())
	rootCmd.AddCommand(a.NewDeviceTableCommand())
	rootCmd.AddCommand(a.NewGenerateCommand())
	rootCmd.AddCommand(a.NewOrganizeCommand())
	rootCmd.AddCommand(a.NewPushCommand())

	// Management commands
	rootCmd.AddCommand(a.NewConfigureCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError prints an error and exits with a non-zero status.
func ExitOnError(err error) {
	if err != nil {
		os.Exit(ReportError(os.Stderr, err))
	}
}

// ReportError writes err to w and returns the process exit status for it.
// An interrupted run exits with 130 like a shell does on SIGINT.
func ReportError(w io.Writer, err error) int {
	if errors.IsCanceled(err) || errors.Is(err, context.Canceled) {
		output.Warning(w, "Canceled")
		return 130
	}
	output.Error(w, "%v", err)
	return 1
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
