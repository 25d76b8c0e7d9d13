package netorg

import (
	"context"

	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/hostgroups"
	"github.com/netorganizer/netorg/pkg/sources"
)

// Connector opens the host group API for one push and returns a function
// closing it.
type Connector func(ctx context.Context) (hostgroups.Port, func(context.Context) error, error)

// options holds the configuration for a Client
type options struct {
	subnet   string
	known    sources.KnownDevices
	active   sources.ActiveClients
	reserved sources.Reservations
	connect  Connector

	dryRun    bool
	strategy  differ.ApplyStrategy
	differ    differ.Differ
	root      string
	container string
}

// Option is a function that configures a Client
type Option func(*options) error

func defaults() *options {
	return &options{
		strategy: differ.ApplyAll,
		differ:   differ.New(),
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithSubnet sets the private network addresses are assigned from.
func WithSubnet(cidr string) Option {
	return func(o *options) error {
		o.subnet = cidr
		return nil
	}
}

// WithKnownDevices sets the classification list source. Generate and
// Organize save to it when it also implements sources.KnownDevicesWriter.
func WithKnownDevices(src sources.KnownDevices) Option {
	return func(o *options) error {
		o.known = src
		return nil
	}
}

// WithActiveClients sets the live clients source.
func WithActiveClients(src sources.ActiveClients) Option {
	return func(o *options) error {
		o.active = src
		return nil
	}
}

// WithReservations sets the fixed-IP reservations source. Organize saves to
// it when it also implements sources.ReservationsWriter.
func WithReservations(src sources.Reservations) Option {
	return func(o *options) error {
		o.reserved = src
		return nil
	}
}

// WithHostGroups sets an already connected host group API.
func WithHostGroups(port hostgroups.Port) Option {
	return func(o *options) error {
		if port == nil {
			return errors.NewValidationError("host_groups", nil, "port is nil")
		}
		o.connect = func(context.Context) (hostgroups.Port, func(context.Context) error, error) {
			return port, func(context.Context) error { return nil }, nil
		}
		return nil
	}
}

// WithHostGroupsConnector sets a function that connects to the host group
// API when a push needs it.
func WithHostGroupsConnector(connect Connector) Option {
	return func(o *options) error {
		o.connect = connect
		return nil
	}
}

// WithHostGroupContainer overrides the root and container group names.
func WithHostGroupContainer(root, container string) Option {
	return func(o *options) error {
		if root == "" || container == "" {
			return errors.NewValidationError("host_groups", root+"/"+container, "root and container names are required")
		}
		o.root, o.container = root, container
		return nil
	}
}

// WithDryRun computes every change without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(o *options) error {
		o.dryRun = dryRun
		return nil
	}
}

// WithApplyStrategy limits which host group changes are pushed.
func WithApplyStrategy(strategy differ.ApplyStrategy) Option {
	return func(o *options) error {
		parsed, ok := differ.ParseApplyStrategy(string(strategy))
		if !ok {
			return errors.NewValidationError("strategy", strategy, "unknown apply strategy")
		}
		o.strategy = parsed
		return nil
	}
}

// WithDiffer overrides the differ used for every comparison.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return errors.NewValidationError("differ", nil, "differ is nil")
		}
		o.differ = d
		return nil
	}
}
