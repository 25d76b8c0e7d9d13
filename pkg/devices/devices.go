// Package devices holds the device model shared by every stage of a run:
// the per-MAC record, the record store used during reconciliation, the
// canonical table it builds, and the entries read from each source.
package devices

import (
	"slices"

	"github.com/netorganizer/netorg/pkg/constants"
)

// Record is the reconciled view of one device.
type Record struct {
	Known    bool   `json:"known" yaml:"known"`
	Reserved bool   `json:"reserved" yaml:"reserved"`
	Active   bool   `json:"active" yaml:"active"`
	IP       string `json:"ip" yaml:"ip"`
	Group    string `json:"group" yaml:"group"`
	Name     string `json:"name" yaml:"name"`
}

// GroupName returns the group used for remote grouping and the
// classification file. Devices without a group render as unclassified.
func (r Record) GroupName() string {
	if r.Group == "" {
		return constants.UnclassifiedGroup
	}
	return r.Group
}

// Entry pairs a record with its MAC address.
type Entry struct {
	MAC string `json:"mac" yaml:"mac"`
	Record
}

// Table is the canonical device table produced by one reconciliation run.
type Table []Entry

// Find returns the entry for mac.
func (t Table) Find(mac string) (Entry, bool) {
	i := slices.IndexFunc(t, func(e Entry) bool { return e.MAC == mac })
	if i < 0 {
		return Entry{}, false
	}
	return t[i], true
}

// Filter returns the entries matching every predicate, in table order.
func (t Table) Filter(preds ...Predicate) Table {
	out := Table{}
	for _, e := range t {
		if All(preds...)(e.Record) {
			out = append(out, e)
		}
	}
	return out
}

// MACs returns the MAC addresses in table order.
func (t Table) MACs() []string {
	macs := make([]string, len(t))
	for i, e := range t {
		macs[i] = e.MAC
	}
	return macs
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	return slices.Clone(t)
}

// KnownDevice is one entry of the user-curated classification list.
type KnownDevice struct {
	MAC   string `json:"mac" yaml:"mac"`
	Name  string `json:"name" yaml:"name"`
	Group string `json:"group" yaml:"group"`
}

// ActiveClient is one live client observed on the managed VLAN.
type ActiveClient struct {
	MAC         string `json:"mac" yaml:"mac"`
	IP          string `json:"ip" yaml:"ip"`
	Description string `json:"description" yaml:"description"`
}

// Reservation is the fixed address assigned to a MAC.
type Reservation struct {
	IP   string `json:"ip" yaml:"ip"`
	Name string `json:"name" yaml:"name"`
}

// Reservations maps MAC addresses to fixed-IP reservations.
type Reservations map[string]Reservation

// SortedMACs returns the reserved MAC addresses in lexical order.
func (r Reservations) SortedMACs() []string {
	macs := make([]string, 0, len(r))
	for mac := range r {
		macs = append(macs, mac)
	}
	slices.Sort(macs)
	return macs
}
