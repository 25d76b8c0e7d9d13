// Package sources defines the ports the device table is reconciled from
// and the writers that persist regenerated state back to them.
//
// Adapters live under internal/: the classification file, the Meraki
// Dashboard clients list, and the VLAN fixed-IP assignments.
package sources

import (
	"context"
	"slices"

	"github.com/netorganizer/netorg/pkg/devices"
)

// ID identifies a source in logs and results.
type ID string

// String returns the string representation of a source id.
func (id ID) String() string {
	return string(id)
}

// Source ids, in reconciliation order.
const (
	KnownDevicesID  ID = "known_devices"
	ActiveClientsID ID = "active_clients"
	ReservationsID  ID = "fixed_ip_reservations"
)

// IDs returns all source ids in reconciliation order.
func IDs() []ID {
	return []ID{KnownDevicesID, ActiveClientsID, ReservationsID}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// KnownDevices loads the user-curated classification list.
type KnownDevices interface {
	Load(ctx context.Context) ([]devices.KnownDevice, error)
}

// KnownDevicesWriter persists a regenerated classification list.
type KnownDevicesWriter interface {
	KnownDevices
	Save(ctx context.Context, known []devices.KnownDevice) error
}

// ActiveClients loads live clients, already filtered to one VLAN.
type ActiveClients interface {
	Load(ctx context.Context) ([]devices.ActiveClient, error)
}

// Reservations loads fixed-IP reservations.
type Reservations interface {
	Load(ctx context.Context) (devices.Reservations, error)
}

// ReservationsWriter replaces the remote reservation set.
type ReservationsWriter interface {
	Reservations
	Save(ctx context.Context, reservations devices.Reservations) error
}
