package meraki

import (
	"context"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/logging"
)

// ActiveClients loads the clients of one appliance on one VLAN.
type ActiveClients struct {
	client *Client
	serial string
	vlanID string
}

// NewActiveClients creates an active clients source.
func NewActiveClients(client *Client, serial, vlanID string) *ActiveClients {
	return &ActiveClients{client: client, serial: serial, vlanID: vlanID}
}

// Load returns the clients on the configured VLAN. A client without a
// description is described by its DHCP hostname, then by its MAC.
func (a *ActiveClients) Load(ctx context.Context) ([]devices.ActiveClient, error) {
	clients, err := a.client.DeviceClients(ctx, a.serial)
	if err != nil {
		return nil, err
	}

	active := make([]devices.ActiveClient, 0, len(clients))
	for _, c := range clients {
		if c.VLAN != a.vlanID {
			continue
		}
		desc := c.Description
		if desc == "" {
			desc = c.DHCPHostname
		}
		if desc == "" {
			desc = c.MAC
		}
		active = append(active, devices.ActiveClient{MAC: c.MAC, IP: c.IP, Description: desc})
	}

	logging.Ctx(ctx).Debug().
		Int("clients", len(clients)).
		Int("on_vlan", len(active)).
		Str("vlan_id", a.vlanID).
		Msg("Loaded active clients")
	return active, nil
}

// Reservations reads and replaces the fixed-IP assignments of one VLAN.
type Reservations struct {
	client    *Client
	networkID string
	vlanID    string
}

// NewReservations creates a reservations source.
func NewReservations(client *Client, networkID, vlanID string) *Reservations {
	return &Reservations{client: client, networkID: networkID, vlanID: vlanID}
}

// Load returns the current fixed-IP assignments.
func (r *Reservations) Load(ctx context.Context) (devices.Reservations, error) {
	vlan, err := r.client.VLAN(ctx, r.networkID, r.vlanID)
	if err != nil {
		return nil, err
	}
	return vlan.FixedIPAssignments, nil
}

// Save replaces the fixed-IP assignments.
func (r *Reservations) Save(ctx context.Context, reservations devices.Reservations) error {
	return r.client.UpdateFixedIPAssignments(ctx, r.networkID, r.vlanID, reservations)
}
