// Package generate derives desired state from a device table: the
// regenerated classification list and the host group membership.
//
// Stale reservations (not known, reserved, not active) are left out of
// both; they only exist because a reservation outlived its device.
package generate

import (
	"github.com/netorganizer/netorg/pkg/devices"
)

// KnownDevices returns the classification list for table. Devices without
// a group are listed as unclassified. Entries are ordered by group, groups
// by first appearance in the table.
func KnownDevices(table devices.Table) []devices.KnownDevice {
	var order []string
	byGroup := make(map[string][]devices.KnownDevice)
	for _, e := range table.Filter(devices.Not(devices.StaleReservation)) {
		group := e.GroupName()
		if _, ok := byGroup[group]; !ok {
			order = append(order, group)
		}
		byGroup[group] = append(byGroup[group], devices.KnownDevice{MAC: e.MAC, Name: e.Name, Group: group})
	}

	known := make([]devices.KnownDevice, 0, len(table))
	for _, group := range order {
		known = append(known, byGroup[group]...)
	}
	return known
}

// HostGroups returns the group to IP list mapping for every record with an
// IP, IPs in table order. Stale reservations still hold their address and
// land in unclassified.
func HostGroups(table devices.Table) map[string][]string {
	groups := make(map[string][]string)
	for _, e := range table.Filter(devices.HasIP) {
		group := e.GroupName()
		groups[group] = append(groups[group], e.IP)
	}
	return groups
}
