package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netorganizer/netorg"
	"github.com/netorganizer/netorg/internal/cmd/output"
	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/errors"
)

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if output.DetectFormat(a.config.Format) == output.FormatTable {
				fmt.Fprintf(a.stdout, "netorg %s\n", a.version)
				fmt.Fprintf(a.stdout, "  commit:   %s\n", a.commit)
				fmt.Fprintf(a.stdout, "  built:    %s\n", a.date)
				fmt.Fprintf(a.stdout, "  built by: %s\n", a.builtBy)
				return nil
			}
			return a.format(map[string]string{
				"version":  a.version,
				"commit":   a.commit,
				"date":     a.date,
				"built_by": a.builtBy,
			})
		},
	}
}

// NewScanCommand creates the scan command.
func (a *App) NewScanCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "scan",
		GroupID: "core",
		Short:   "Report what organize would do for each kind of device",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.clientFor(cmd, differ.ApplyAll)
			if err != nil {
				return err
			}
			report, err := client.Scan(cmd.Context())
			if err != nil {
				return err
			}
			if output.DetectFormat(a.config.Format) == output.FormatTable {
				report.Print(a.stdout)
				return nil
			}
			return a.format(output.ScanData(report))
		},
	}
}

// NewDeviceTableCommand creates the devicetable command.
func (a *App) NewDeviceTableCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "devicetable",
		GroupID: "core",
		Short:   "Print the reconciled device table",
		Args:    cobra.NoArgs,
		Example: `  netorg devicetable
  netorg devicetable -o csv > devices.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.clientFor(cmd, differ.ApplyAll)
			if err != nil {
				return err
			}
			table, err := client.DeviceTable(cmd.Context())
			if err != nil {
				return err
			}
			return a.format(output.DeviceTableData(table))
		},
	}
}

// NewGenerateCommand creates the generate command.
func (a *App) NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		GroupID: "core",
		Short:   "Regenerate the classification file from the network",
		Long: `Regenerate devices.yml from the device table. Devices seen on the
network for the first time are added to the unclassified group.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.clientFor(cmd, differ.ApplyAll)
			if err != nil {
				return err
			}
			result, err := client.Generate(cmd.Context())
			if err != nil {
				return err
			}
			return a.printResult(result)
		},
	}
	a.addDryRunFlag(cmd)
	return cmd
}

// NewOrganizeCommand creates the organize command.
func (a *App) NewOrganizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organize",
		GroupID: "core",
		Short:   "Give every device a fixed address",
		Long: `Assign an address to every device that has none, save devices.yml
and replace the VLAN's fixed-IP reservations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.clientFor(cmd, differ.ApplyAll)
			if err != nil {
				return err
			}
			result, err := client.Organize(cmd.Context())
			if err != nil {
				return err
			}
			return a.printResult(result)
		},
	}
	a.addDryRunFlag(cmd)
	return cmd
}

// NewPushCommand creates the push command.
func (a *App) NewPushCommand() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:     "push",
		Aliases: []string{"pushchangestosna"},
		GroupID: "core",
		Short:   "Organize, then push device groups to Secure Network Analytics",
		Long: `Organize the network, then make the host groups under
"Inside Hosts / Net Organizer Groups" match the device groups.

Strategies:
  all             create, update and delete groups (default)
  additive        create and update, never delete
  updates-only    only update existing groups
  additions-only  only create new groups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, ok := differ.ParseApplyStrategy(strategy)
			if !ok {
				return errors.NewValidationError("strategy", strategy, "must be one of: all, additive, updates-only, additions-only")
			}
			if !a.config.HasSNA() {
				return errors.NewConfigError("sna", "Secure Network Analytics is not configured, run 'netorg configure'", nil)
			}
			client, err := a.clientFor(cmd, parsed)
			if err != nil {
				return err
			}
			result, err := client.PushHostGroups(cmd.Context())
			if result != nil {
				if printErr := a.printResult(result); printErr != nil && err == nil {
					err = printErr
				}
			}
			return err
		},
	}
	a.addDryRunFlag(cmd)
	cmd.Flags().StringVar(&strategy, "strategy", string(differ.ApplyAll), "which host group changes to apply")
	return cmd
}

func (a *App) addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "compute changes without writing anything")
}

// clientFor returns the organizer client, honoring the command's --dry-run.
func (a *App) clientFor(cmd *cobra.Command, strategy differ.ApplyStrategy) (netorg.Client, error) {
	if cmd.Flags().Lookup("dry-run") != nil {
		a.config.DryRun = mustGetBool(cmd, "dry-run")
	}
	return a.Client(strategy)
}

// format writes data in the configured format.
func (a *App) format(data any) error {
	return output.NewFormatter(output.DetectFormat(a.config.Format)).Format(a.stdout, data)
}

// printResult writes a human-readable result, or the result itself in a
// structured format.
func (a *App) printResult(result *netorg.Result) error {
	if output.DetectFormat(a.config.Format) != output.FormatTable {
		return a.format(result)
	}

	w := a.stdout
	if result.DryRun {
		output.Info(w, "Dry run: nothing was written")
	}
	if len(result.Allocations) > 0 {
		fmt.Fprintln(w, "Assigned addresses:")
		if err := a.format(output.AllocationsData(result.Allocations)); err != nil {
			return err
		}
	}
	if result.KnownDevices != nil {
		result.KnownDevices.Print(w)
		fmt.Fprintln(w)
	}
	if result.Reservations != nil {
		result.Reservations.Print(w)
		fmt.Fprintln(w)
	}
	if result.HostGroups != nil && result.HostGroups.Changeset != nil {
		result.HostGroups.Changeset.Print(w)
		fmt.Fprintln(w)
	}
	output.Success(w, "%s: %s", result.Operation, result.Summary())
	return nil
}
