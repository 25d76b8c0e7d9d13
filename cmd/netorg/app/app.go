// Package app provides the application context and dependency management
// for the netorg CLI: configuration, logging, and construction of the
// organizer client from the configured Meraki and analytics settings.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/netorganizer/netorg"
	"github.com/netorganizer/netorg/internal/knownfile"
	"github.com/netorganizer/netorg/internal/meraki"
	"github.com/netorganizer/netorg/internal/sna"
	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/hostgroups"
)

// App represents the netorg application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Stdin and Stdout are used by prompts and command output
	stdin  io.Reader
	stdout io.Writer

	// client is set by WithClient; otherwise one is built per command
	mu     sync.Mutex
	client netorg.Client

	// merakiOptions are passed to every Meraki client, for tests
	merakiOptions []meraki.Option
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig(os.Getenv("NETORG_CONFIG"))
	if err != nil {
		return nil, errors.WrapResource("load", "config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the organizer client for the current configuration.
func (a *App) Client(strategy differ.ApplyStrategy) (netorg.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	cfg := a.config
	if !cfg.HasMeraki() {
		return nil, errors.NewConfigError("config", "Meraki settings are incomplete, run 'netorg configure'", nil)
	}

	api, err := meraki.New(cfg.APIKey, a.merakiOptions...)
	if err != nil {
		return nil, err
	}
	file, err := knownfile.New(cfg.DevicesYML)
	if err != nil {
		return nil, err
	}

	opts := []netorg.Option{
		netorg.WithSubnet(cfg.VLANSubnet),
		netorg.WithKnownDevices(file),
		netorg.WithActiveClients(meraki.NewActiveClients(api, cfg.SerialID, cfg.VLANID)),
		netorg.WithReservations(meraki.NewReservations(api, cfg.NetworkID, cfg.VLANID)),
		netorg.WithDryRun(cfg.DryRun),
		netorg.WithApplyStrategy(strategy),
	}
	if cfg.HasSNA() {
		opts = append(opts, netorg.WithHostGroupsConnector(a.connectSNA))
	}
	return netorg.New(opts...)
}

// connectSNA logs in to the analytics manager.
func (a *App) connectSNA(ctx context.Context) (hostgroups.Port, func(context.Context) error, error) {
	cfg := a.config
	session := sna.NewSession(cfg.SNAHost, sna.WithInsecureSkipVerify(cfg.SNAInsecure))
	if err := session.Login(ctx, cfg.SNAUsername, cfg.SNAPassword); err != nil {
		return nil, nil, err
	}
	a.logger.Debug().Str("host", cfg.SNAHost).Str("tenant_id", session.TenantID()).Msg("Connected to analytics manager")
	return sna.NewHostGroups(session), session.Logout, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom organizer client (useful for testing).
func WithClient(client netorg.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}

// WithIO sets the reader prompts read from and the writer command output
// goes to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) error {
		a.stdin, a.stdout = in, out
		return nil
	}
}

// WithMerakiOptions sets options for every Meraki client the app creates.
func WithMerakiOptions(opts ...meraki.Option) Option {
	return func(a *App) error {
		a.merakiOptions = opts
		return nil
	}
}
