// Package reconciler merges the classification list, the live clients and
// the fixed-IP reservations into one canonical device table.
//
// Sources are applied in a fixed order and the order matters:
//
//  1. known devices create fresh records (known, group, name)
//  2. active clients mark records active and set the live address
//  3. reservations mark records reserved; inactive devices adopt the
//     reserved address, active devices keep their lease
package reconciler

import (
	"context"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
	"github.com/netorganizer/netorg/pkg/sources"
)

// Reconciler builds the canonical device table.
type Reconciler interface {
	// LoadAll reads every source and returns the reconciled table.
	LoadAll(ctx context.Context) (devices.Table, error)
}

type reconciler struct {
	known    sources.KnownDevices
	active   sources.ActiveClients
	reserved sources.Reservations
}

// New creates a Reconciler over the three sources.
func New(known sources.KnownDevices, active sources.ActiveClients, reserved sources.Reservations) (Reconciler, error) {
	switch {
	case known == nil:
		return nil, errors.NewValidationError("known", nil, "source cannot be nil")
	case active == nil:
		return nil, errors.NewValidationError("active", nil, "source cannot be nil")
	case reserved == nil:
		return nil, errors.NewValidationError("reserved", nil, "source cannot be nil")
	}
	return &reconciler{known: known, active: active, reserved: reserved}, nil
}

// LoadAll performs reconciliation with a clean step-by-step flow.
func (r *reconciler) LoadAll(ctx context.Context) (devices.Table, error) {
	store := devices.NewStore()

	// Step 1: Known devices
	known, err := r.known.Load(logging.WithSource(ctx, sources.KnownDevicesID.String()))
	if err != nil {
		return nil, errors.WrapResource("load", sources.KnownDevicesID.String(), err)
	}
	ApplyKnown(store, known)

	// Step 2: Active clients
	active, err := r.active.Load(logging.WithSource(ctx, sources.ActiveClientsID.String()))
	if err != nil {
		return nil, errors.WrapResource("load", sources.ActiveClientsID.String(), err)
	}
	ApplyActive(store, active)

	// Step 3: Fixed-IP reservations
	reserved, err := r.reserved.Load(logging.WithSource(ctx, sources.ReservationsID.String()))
	if err != nil {
		return nil, errors.WrapResource("load", sources.ReservationsID.String(), err)
	}
	ApplyReservations(ctx, store, reserved)

	table := store.Build()
	logging.Ctx(ctx).Info().
		Int("known", len(known)).
		Int("active", len(active)).
		Int("reserved", len(reserved)).
		Int("devices", len(table)).
		Msg("Device table reconciled")
	return table, nil
}

// ApplyKnown creates a fresh record for every classified device. A MAC
// listed twice keeps its last entry.
func ApplyKnown(store *devices.Store, known []devices.KnownDevice) {
	for _, kd := range known {
		store.Set(kd.MAC, devices.Record{
			Known: true,
			Group: kd.Group,
			Name:  kd.Name,
		})
	}
}

// ApplyActive marks live clients active. Clients without a record become
// unclassified devices named after their description.
func ApplyActive(store *devices.Store, active []devices.ActiveClient) {
	for _, client := range active {
		rec, existed := store.Get(client.MAC)
		if !existed {
			rec = devices.Record{Name: client.Description}
		}
		rec.Active = true
		rec.IP = client.IP
		store.Set(client.MAC, rec)
	}
}

// ApplyReservations marks reserved devices. An active device's lease wins
// over a conflicting reservation and the conflict is logged; an inactive
// device takes the reserved address.
func ApplyReservations(ctx context.Context, store *devices.Store, reserved devices.Reservations) {
	log := logging.Ctx(ctx)
	for _, mac := range reserved.SortedMACs() {
		res := reserved[mac]
		rec, existed := store.Get(mac)
		if !existed {
			store.Set(mac, devices.Record{Reserved: true, IP: res.IP, Name: res.Name})
			continue
		}

		rec.Reserved = true
		switch {
		case !rec.Active || rec.IP == "":
			rec.IP = res.IP
		case rec.IP != res.IP:
			log.Warn().
				Str("mac", mac).
				Str("name", rec.Name).
				Str("lease_ip", rec.IP).
				Str("reservation_ip", res.IP).
				Msg("Active lease differs from fixed-IP reservation, keeping lease")
		}
		store.Set(mac, rec)
	}
}
