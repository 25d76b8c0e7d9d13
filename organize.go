package netorg

import (
	"context"
	"time"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/generate"
	"github.com/netorganizer/netorg/pkg/hostgroups"
	"github.com/netorganizer/netorg/pkg/logging"
	"github.com/netorganizer/netorg/pkg/mapper"
	"github.com/netorganizer/netorg/pkg/reconciler"
	"github.com/netorganizer/netorg/pkg/scan"
	"github.com/netorganizer/netorg/pkg/sources"
)

// snapshot is the source state read once per run.
type snapshot struct {
	known    []devices.KnownDevice
	reserved devices.Reservations
	table    devices.Table
}

// load reads the known devices and reservations once, then reconciles
// them with the active clients.
func (c *client) load(ctx context.Context) (*snapshot, error) {
	known, err := c.options.known.Load(ctx)
	if err != nil {
		return nil, errors.WrapResource("load", sources.KnownDevicesID.String(), err)
	}
	reserved, err := c.options.reserved.Load(ctx)
	if err != nil {
		return nil, errors.WrapResource("load", sources.ReservationsID.String(), err)
	}

	r, err := reconciler.New(
		sources.KnownDevicesFunc(func(context.Context) ([]devices.KnownDevice, error) { return known, nil }),
		c.options.active,
		sources.ReservationsFunc(func(context.Context) (devices.Reservations, error) { return reserved, nil }),
	)
	if err != nil {
		return nil, err
	}
	table, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot{known: known, reserved: reserved, table: table}, nil
}

// DeviceTable reconciles the three sources into a device table.
func (c *client) DeviceTable(ctx context.Context) (devices.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.table, nil
}

// Scan reconciles the sources and classifies every device.
func (c *client) Scan(ctx context.Context) (*scan.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	report := scan.Run(snap.table)
	logging.Ctx(ctx).Info().Int("devices", len(snap.table)).Msg("Scan complete")
	return report, nil
}

// Generate regenerates the classification file from the device table.
func (c *client) Generate(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "generate")
	result := c.newResult("generate")
	defer result.finish()

	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	result.Table = snap.table

	if err := c.saveKnown(ctx, snap, result); err != nil {
		return result, err
	}
	return result, nil
}

// Organize assigns an address to every device without one, saves the
// classification file and replaces the fixed-IP reservations.
func (c *client) Organize(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "organize")
	result := c.newResult("organize")
	defer result.finish()

	if err := c.organize(ctx, result); err != nil {
		return result, err
	}
	return result, nil
}

// PushHostGroups organizes, then makes the managed host groups match the
// device table.
func (c *client) PushHostGroups(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithOperation(ctx, "push")
	result := c.newResult("push")
	defer result.finish()

	if c.options.connect == nil {
		return nil, errors.NewConfigError("host_groups", "no host group API configured", nil)
	}
	if err := c.organize(ctx, result); err != nil {
		return result, err
	}

	port, closeFn, err := c.options.connect(ctx)
	if err != nil {
		return result, errors.WrapResource("connect", "host groups", err)
	}
	defer func() {
		if err := closeFn(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to close host group session")
		}
	}()

	opts := []hostgroups.Option{
		hostgroups.WithApplyStrategy(c.options.strategy),
		hostgroups.WithDryRun(c.options.dryRun),
		hostgroups.WithDiffer(c.options.differ),
	}
	if c.options.root != "" {
		opts = append(opts, hostgroups.WithRoot(c.options.root), hostgroups.WithContainer(c.options.container))
	}

	pushed, err := hostgroups.New(port, opts...).Push(ctx, generate.HostGroups(result.Table))
	result.HostGroups = pushed
	if err != nil {
		return result, err
	}
	return result, nil
}

func (c *client) organize(ctx context.Context, result *Result) error {
	log := logging.Ctx(ctx)

	if c.options.subnet == "" {
		return errors.NewConfigError("vlan_subnet", "no subnet configured", nil)
	}

	// Step 1: Reconcile sources
	snap, err := c.load(ctx)
	if err != nil {
		return err
	}

	// Step 2: Assign addresses
	m, err := mapper.New(c.options.subnet, snap.table)
	if err != nil {
		return err
	}
	allocated, err := m.Map(ctx)
	if err != nil {
		return err
	}
	result.Allocations = allocated
	if result.Allocations == nil {
		result.Allocations = []mapper.Allocation{}
	}
	snap.table = m.Table()
	result.Table = snap.table
	log.Info().Int("allocated", len(allocated)).Int("unused", len(m.Space().Unused())).Msg("Addresses assigned")

	// Step 3: Save the classification file
	if err := c.saveKnown(ctx, snap, result); err != nil {
		return err
	}

	// Step 4: Replace the reservations
	updated := m.FixedIPReservations()
	result.Reservations = c.options.differ.Reservations(snap.reserved, updated)
	if c.options.dryRun || !result.Reservations.HasChanges() {
		return nil
	}
	writer, ok := c.options.reserved.(sources.ReservationsWriter)
	if !ok {
		return errors.NewConfigError(sources.ReservationsID.String(), "reservations source is read-only", nil)
	}
	if err := writer.Save(ctx, updated); err != nil {
		return errors.WrapResource("save", sources.ReservationsID.String(), err)
	}
	result.ReservationsSaved = true
	log.Info().Str("changes", result.Reservations.String()).Msg("Reservations saved")
	return nil
}

func (c *client) saveKnown(ctx context.Context, snap *snapshot, result *Result) error {
	updated := generate.KnownDevices(snap.table)
	result.KnownDevices = c.options.differ.Devices(snap.known, updated)
	if c.options.dryRun {
		return nil
	}
	writer, ok := c.options.known.(sources.KnownDevicesWriter)
	if !ok {
		return errors.NewConfigError(sources.KnownDevicesID.String(), "known devices source is read-only", nil)
	}
	if err := writer.Save(ctx, updated); err != nil {
		return errors.WrapResource("save", sources.KnownDevicesID.String(), err)
	}
	result.KnownDevicesSaved = true
	return nil
}

func (c *client) newResult(op string) *Result {
	return &Result{Operation: op, DryRun: c.options.dryRun, StartTime: time.Now()}
}

func (r *Result) finish() {
	r.Duration = time.Since(r.StartTime)
}
