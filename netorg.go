// Package netorg organizes a small private network. It reconciles three
// views of the devices on one VLAN (a user-curated classification file,
// the live DHCP clients, and the fixed-IP reservations), gives every
// device a fixed address, and keeps the classification file, the
// reservations and the host groups of an analytics system in line with
// the result.
//
// Example usage:
//
//	client, err := netorg.New(
//	    netorg.WithSubnet("192.168.128.0/24"),
//	    netorg.WithKnownDevices(file),
//	    netorg.WithActiveClients(meraki.NewActiveClients(api, serial, vlan)),
//	    netorg.WithReservations(meraki.NewReservations(api, network, vlan)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Assign fixed addresses and push the reservations
//	result, err := client.Organize(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package netorg

import (
	"context"
	"sync"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/scan"
	"github.com/netorganizer/netorg/pkg/sources"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client runs the network organizer operations.
type Client interface {
	// DeviceTable reconciles the three sources into a device table.
	DeviceTable(ctx context.Context) (devices.Table, error)

	// Scan reconciles the sources and classifies every device.
	Scan(ctx context.Context) (*scan.Report, error)

	// Generate regenerates the classification file from the device table.
	Generate(ctx context.Context) (*Result, error)

	// Organize assigns addresses and replaces the fixed-IP reservations.
	Organize(ctx context.Context) (*Result, error)

	// PushHostGroups organizes, then synchronizes the host groups.
	PushHostGroups(ctx context.Context) (*Result, error)
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	// runs are serialized; every run reads and writes the same sources
	mu sync.Mutex
}

// New creates a Client. The three sources are required.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	switch {
	case o.known == nil:
		return nil, errors.NewConfigError(string(sources.KnownDevicesID), "no known devices source configured", nil)
	case o.active == nil:
		return nil, errors.NewConfigError(string(sources.ActiveClientsID), "no active clients source configured", nil)
	case o.reserved == nil:
		return nil, errors.NewConfigError(string(sources.ReservationsID), "no reservations source configured", nil)
	}

	return &client{options: o}, nil
}
