package sources

import (
	"context"

	"github.com/netorganizer/netorg/pkg/devices"
)

// KnownDevicesFunc adapts a function to KnownDevices.
type KnownDevicesFunc func(ctx context.Context) ([]devices.KnownDevice, error)

// Load calls f.
func (f KnownDevicesFunc) Load(ctx context.Context) ([]devices.KnownDevice, error) { return f(ctx) }

// ActiveClientsFunc adapts a function to ActiveClients.
type ActiveClientsFunc func(ctx context.Context) ([]devices.ActiveClient, error)

// Load calls f.
func (f ActiveClientsFunc) Load(ctx context.Context) ([]devices.ActiveClient, error) { return f(ctx) }

// ReservationsFunc adapts a function to Reservations.
type ReservationsFunc func(ctx context.Context) (devices.Reservations, error)

// Load calls f.
func (f ReservationsFunc) Load(ctx context.Context) (devices.Reservations, error) { return f(ctx) }

// Static returns sources serving fixed snapshots.
func Static(known []devices.KnownDevice, active []devices.ActiveClient, reserved devices.Reservations) (KnownDevicesFunc, ActiveClientsFunc, ReservationsFunc) {
	return func(context.Context) ([]devices.KnownDevice, error) { return known, nil },
		func(context.Context) ([]devices.ActiveClient, error) { return active, nil },
		func(context.Context) (devices.Reservations, error) { return reserved, nil }
}
