// Package mapper assigns addresses from a private network to every device
// in a table and derives the fixed-IP reservations the network should hold.
package mapper

import (
	"context"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/logging"
	"github.com/netorganizer/netorg/pkg/netspace"
)

// Allocation records an address newly assigned to a device.
type Allocation struct {
	MAC  string `json:"mac" yaml:"mac"`
	Name string `json:"name" yaml:"name"`
	IP   string `json:"ip" yaml:"ip"`
}

// Mapper places the devices of one table into one network.
type Mapper struct {
	space *netspace.Space
	table devices.Table
}

// New builds the address space for cidr and imports every address already
// present in table. A device address outside the network, or two devices
// sharing an address, fails here before anything is allocated.
//
// The mapper writes allocations into table's entries in place.
func New(cidr string, table devices.Table) (*Mapper, error) {
	space, err := netspace.New(cidr)
	if err != nil {
		return nil, err
	}
	for _, e := range table.Filter(devices.HasIP) {
		if _, err := space.AllocateSpecific(e.IP); err != nil {
			return nil, err
		}
	}
	return &Mapper{space: space, table: table}, nil
}

// Map allocates an address for every device without one.
func (m *Mapper) Map(ctx context.Context) ([]Allocation, error) {
	log := logging.Ctx(ctx)

	var allocated []Allocation
	for i := range m.table {
		e := &m.table[i]
		if e.IP != "" {
			continue
		}
		ip, err := m.space.Allocate()
		if err != nil {
			return allocated, err
		}
		e.IP = ip
		allocated = append(allocated, Allocation{MAC: e.MAC, Name: e.Name, IP: ip})
		log.Debug().Str("mac", e.MAC).Str("ip", ip).Msg("Address allocated")
	}

	log.Info().
		Str("network", m.space.CIDR()).
		Int("allocated", len(allocated)).
		Int("unused", len(m.space.Unused())).
		Msg("Devices mapped to network")
	return allocated, nil
}

// Table returns the mapped table.
func (m *Mapper) Table() devices.Table {
	return m.table
}

// Space returns the underlying address space.
func (m *Mapper) Space() *netspace.Space {
	return m.space
}

// FixedIPReservations returns the desired reservation for every device
// except stale reservations (not known, reserved, not active). Devices
// still without an address are skipped.
func (m *Mapper) FixedIPReservations() devices.Reservations {
	out := make(devices.Reservations)
	for _, e := range m.table.Filter(devices.Not(devices.StaleReservation), devices.HasIP) {
		out[e.MAC] = devices.Reservation{IP: e.IP, Name: e.Name}
	}
	return out
}
