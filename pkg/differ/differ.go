// Package differ compares snapshots of organizer state.
//
// Lists are compared for additions only, to report newly discovered
// devices. Name-keyed mappings are classified into create, update and
// delete sets that drive remote synchronization.
package differ

import (
	"slices"

	"github.com/netorganizer/netorg/pkg/devices"
)

// Differ handles change detection between snapshots.
type Differ interface {
	// Devices reports classification entries present only in updated.
	Devices(existing, updated []devices.KnownDevice) *DeviceChangeset

	// HostGroups classifies every group name that differs between the
	// group to IP list mappings.
	HostGroups(existing, updated map[string][]string) *HostGroupChangeset

	// Reservations classifies every MAC whose reservation differs.
	Reservations(existing, updated devices.Reservations) *ReservationChangeset
}

type differ struct {
	orderedIPs bool
}

// New creates a Differ. IP lists compare as multisets unless
// WithOrderedIPs is given.
func New(opts ...Option) Differ {
	d := &differ{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Devices compares two classification lists.
func (d *differ) Devices(existing, updated []devices.KnownDevice) *DeviceChangeset {
	seen := make(map[devices.KnownDevice]bool, len(existing))
	for _, kd := range existing {
		seen[kd] = true
	}

	changeset := &DeviceChangeset{Added: []devices.KnownDevice{}}
	for _, kd := range updated {
		if !seen[kd] {
			changeset.Added = append(changeset.Added, kd)
			seen[kd] = true
		}
	}
	return changeset
}

// HostGroups compares two host group mappings.
func (d *differ) HostGroups(existing, updated map[string][]string) *HostGroupChangeset {
	equal := sameMembers
	if d.orderedIPs {
		equal = func(a, b []string) bool { return slices.Equal(a, b) }
	}
	return &HostGroupChangeset{
		Changeset: Mappings(existing, updated, equal),
		Existing:  existing,
		Updated:   updated,
	}
}

// Reservations compares two reservation sets.
func (d *differ) Reservations(existing, updated devices.Reservations) *ReservationChangeset {
	return &ReservationChangeset{
		Changeset: Mappings(existing, updated, func(a, b devices.Reservation) bool { return a == b }),
		Existing:  existing,
		Updated:   updated,
	}
}

// Mappings classifies the keys of two mappings. A key only in updated is
// created, a key only in existing is deleted, and a key in both whose
// values are not equal is updated. The three sets are disjoint and sorted.
func Mappings[V any](existing, updated map[string]V, equal func(a, b V) bool) Changeset {
	c := Changeset{Create: []string{}, Update: []string{}, Delete: []string{}}

	for name, value := range updated {
		old, ok := existing[name]
		switch {
		case !ok:
			c.Create = append(c.Create, name)
		case !equal(old, value):
			c.Update = append(c.Update, name)
		}
	}
	for name := range existing {
		if _, ok := updated[name]; !ok {
			c.Delete = append(c.Delete, name)
		}
	}

	slices.Sort(c.Create)
	slices.Sort(c.Update)
	slices.Sort(c.Delete)
	return c
}

// sameMembers reports whether a and b hold the same elements with the same
// multiplicity, ignoring order.
func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}

// ipDelta returns the elements of b missing from a and the elements of a
// missing from b.
func ipDelta(a, b []string) (added, removed []string) {
	inA := make(map[string]bool, len(a))
	for _, ip := range a {
		inA[ip] = true
	}
	inB := make(map[string]bool, len(b))
	for _, ip := range b {
		inB[ip] = true
		if !inA[ip] {
			added = append(added, ip)
		}
	}
	for _, ip := range a {
		if !inB[ip] {
			removed = append(removed, ip)
		}
	}
	return added, removed
}
