package app

import (
	"github.com/spf13/cobra"

	"github.com/netorganizer/netorg/internal/cmd/output"
	"github.com/netorganizer/netorg/internal/meraki"
)

type configureFlags struct {
	apiKey      string
	devicesYML  string
	snaHost     string
	snaUsername string
	snaPassword string
	snaInsecure bool
	skipSNA     bool
}

// NewConfigureCommand creates the configure command.
func (a *App) NewConfigureCommand() *cobra.Command {
	var flags configureFlags

	cmd := &cobra.Command{
		Use:     "configure",
		GroupID: "management",
		Short:   "Set up the Meraki and analytics connection",
		Long: `Ask for the Meraki API key, discover the organization, network,
appliance and VLAN, then optionally ask for the Secure Network Analytics
manager. Settings are written to the config file.

Values given as flags are used without asking.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.configure(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Meraki dashboard API key")
	cmd.Flags().StringVar(&flags.devicesYML, "devices-yml", "", "path of the classification file")
	cmd.Flags().StringVar(&flags.snaHost, "sna-host", "", "analytics manager host")
	cmd.Flags().StringVar(&flags.snaUsername, "sna-username", "", "analytics manager user")
	cmd.Flags().StringVar(&flags.snaPassword, "sna-password", "", "analytics manager password")
	cmd.Flags().BoolVar(&flags.snaInsecure, "sna-insecure", false, "skip TLS verification for the analytics manager")
	cmd.Flags().BoolVar(&flags.skipSNA, "skip-sna", false, "do not configure the analytics manager")

	return cmd
}

func (a *App) configure(cmd *cobra.Command, flags configureFlags) error {
	ctx := cmd.Context()
	cfg := a.config
	p := newPrompter(a.stdin, a.stdout)

	var err error
	if cfg.APIKey, err = valueOrAsk(flags.apiKey, func() (string, error) {
		return p.AskSecret("Meraki API key", cfg.APIKey)
	}); err != nil {
		return err
	}
	if cfg.DevicesYML, err = valueOrAsk(flags.devicesYML, func() (string, error) {
		return p.Ask("Classification file", cfg.DevicesYML)
	}); err != nil {
		return err
	}

	api, err := meraki.New(cfg.APIKey, a.merakiOptions...)
	if err != nil {
		return err
	}
	settings, err := api.Discover(ctx, p)
	if err != nil {
		return err
	}
	cfg.OrgID = settings.OrgID
	cfg.NetworkID = settings.NetworkID
	cfg.SerialID = settings.Serial
	cfg.VLANID = settings.VLANID
	cfg.VLANSubnet = settings.VLANSubnet
	output.Info(a.stdout, "Using VLAN %s (%s) on appliance %s", cfg.VLANID, cfg.VLANSubnet, cfg.SerialID)

	if !flags.skipSNA {
		if err := a.configureSNA(cmd, p, flags); err != nil {
			return err
		}
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	path := cfg.ConfigFile
	if path == "" {
		path = DefaultConfigFile()
	}
	output.Success(a.stdout, "Configuration saved to %s", path)
	return nil
}

func (a *App) configureSNA(cmd *cobra.Command, p *prompter, flags configureFlags) error {
	cfg := a.config
	if flags.snaHost == "" {
		use, err := p.Confirm("Configure Secure Network Analytics", cfg.SNAHost != "")
		if err != nil {
			return err
		}
		if !use {
			return nil
		}
	}

	var err error
	if cfg.SNAHost, err = valueOrAsk(flags.snaHost, func() (string, error) {
		return p.Ask("Manager host", cfg.SNAHost)
	}); err != nil {
		return err
	}
	if cfg.SNAUsername, err = valueOrAsk(flags.snaUsername, func() (string, error) {
		return p.Ask("Manager user", cfg.SNAUsername)
	}); err != nil {
		return err
	}
	if cfg.SNAPassword, err = valueOrAsk(flags.snaPassword, func() (string, error) {
		return p.AskSecret("Manager password", cfg.SNAPassword)
	}); err != nil {
		return err
	}
	if cmd.Flags().Changed("sna-insecure") {
		cfg.SNAInsecure = flags.snaInsecure
	}
	if cfg.SNAHost == "" || cfg.SNAUsername == "" {
		output.Warning(a.stdout, "Analytics manager left unconfigured: host and user are required")
	}
	return nil
}

func valueOrAsk(value string, ask func() (string, error)) (string, error) {
	if value != "" {
		return value, nil
	}
	return ask()
}
