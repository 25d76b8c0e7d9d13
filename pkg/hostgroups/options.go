package hostgroups

import (
	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/differ"
)

type options struct {
	root      string
	container string
	strategy  differ.ApplyStrategy
	dryRun    bool
	differ    differ.Differ
}

func defaultOptions() *options {
	return &options{
		root:      constants.InsideHostsGroup,
		container: constants.NetOrganizerGroup,
		strategy:  differ.ApplyAll,
		differ:    differ.New(),
	}
}

// Option configures a Synchronizer.
type Option func(*options)

// WithRoot sets the name of the top-level group managed groups live under.
func WithRoot(name string) Option {
	return func(o *options) {
		o.root = name
	}
}

// WithContainer sets the name of the intermediate group holding every
// managed group.
func WithContainer(name string) Option {
	return func(o *options) {
		o.container = name
	}
}

// WithApplyStrategy limits which kinds of change are pushed.
func WithApplyStrategy(strategy differ.ApplyStrategy) Option {
	return func(o *options) {
		o.strategy = strategy
	}
}

// WithDryRun computes changes without mutating the remote system.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.dryRun = dryRun
	}
}

// WithDiffer overrides the Differ used to classify changes.
func WithDiffer(d differ.Differ) Option {
	return func(o *options) {
		if d != nil {
			o.differ = d
		}
	}
}
