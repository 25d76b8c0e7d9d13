package differ

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/netorganizer/netorg/pkg/devices"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeCreate indicates a key only present in the new snapshot.
	ChangeTypeCreate ChangeType = "create"
	// ChangeTypeUpdate indicates a key whose value changed.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeDelete indicates a key only present in the old snapshot.
	ChangeTypeDelete ChangeType = "delete"
)

// Changeset partitions the keys that differ between two mappings.
type Changeset struct {
	Create []string `json:"create" yaml:"create"`
	Update []string `json:"update" yaml:"update"`
	Delete []string `json:"delete" yaml:"delete"`
}

// HasChanges returns true if any key differs.
func (c Changeset) HasChanges() bool {
	return len(c.Create) > 0 || len(c.Update) > 0 || len(c.Delete) > 0
}

// IsEmpty returns true if no key differs.
func (c Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

// Len returns the number of differing keys.
func (c Changeset) Len() int {
	return len(c.Create) + len(c.Update) + len(c.Delete)
}

// Names returns every differing key, sorted.
func (c Changeset) Names() []string {
	names := slices.Concat(c.Create, c.Update, c.Delete)
	slices.Sort(names)
	return names
}

// TypeOf returns how name changed, or "" if it did not.
func (c Changeset) TypeOf(name string) ChangeType {
	switch {
	case slices.Contains(c.Create, name):
		return ChangeTypeCreate
	case slices.Contains(c.Update, name):
		return ChangeTypeUpdate
	case slices.Contains(c.Delete, name):
		return ChangeTypeDelete
	}
	return ""
}

// String returns a one-line summary.
func (c Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}
	var parts []string
	if len(c.Create) > 0 {
		parts = append(parts, fmt.Sprintf("%d to create", len(c.Create)))
	}
	if len(c.Update) > 0 {
		parts = append(parts, fmt.Sprintf("%d to update", len(c.Update)))
	}
	if len(c.Delete) > 0 {
		parts = append(parts, fmt.Sprintf("%d to delete", len(c.Delete)))
	}
	return strings.Join(parts, ", ")
}

// ApplyStrategy represents how to apply changes.
type ApplyStrategy string

const (
	// ApplyAll applies all changes including deletions.
	ApplyAll ApplyStrategy = "all"

	// ApplyAdditive applies creations and updates, never deletes.
	ApplyAdditive ApplyStrategy = "additive"

	// ApplyUpdatesOnly only applies updates to existing keys.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"

	// ApplyAdditionsOnly only applies creations.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// ParseApplyStrategy parses a strategy name. The empty string means ApplyAll.
func ParseApplyStrategy(s string) (ApplyStrategy, bool) {
	switch ApplyStrategy(s) {
	case "", ApplyAll:
		return ApplyAll, true
	case ApplyAdditive, ApplyUpdatesOnly, ApplyAdditionsOnly:
		return ApplyStrategy(s), true
	}
	return "", false
}

// Filter filters the changeset based on the apply strategy.
func (c Changeset) Filter(strategy ApplyStrategy) Changeset {
	filtered := Changeset{Create: []string{}, Update: []string{}, Delete: []string{}}

	switch strategy {
	case ApplyAdditive:
		filtered.Create = c.Create
		filtered.Update = c.Update
	case ApplyUpdatesOnly:
		filtered.Update = c.Update
	case ApplyAdditionsOnly:
		filtered.Create = c.Create
	default:
		return c
	}
	return filtered
}

// HostGroupChangeset is a Changeset over host group names with the
// mappings it was computed from.
type HostGroupChangeset struct {
	Changeset
	Existing map[string][]string `json:"-" yaml:"-"`
	Updated  map[string][]string `json:"-" yaml:"-"`
}

// Print writes a detailed, human-readable view of the changeset.
func (c *HostGroupChangeset) Print(w io.Writer) {
	fmt.Fprintf(w, "Host groups: %s\n", c.String())

	if len(c.Create) > 0 {
		fmt.Fprintf(w, "\n➕ New Host Groups (%d):\n", len(c.Create))
		for _, name := range c.Create {
			fmt.Fprintf(w, "  • %s: %s\n", name, strings.Join(c.Updated[name], ", "))
		}
	}

	if len(c.Update) > 0 {
		fmt.Fprintf(w, "\n🔄 Updated Host Groups (%d):\n", len(c.Update))
		for _, name := range c.Update {
			added, removed := ipDelta(c.Existing[name], c.Updated[name])
			fmt.Fprintf(w, "  • %s:\n", name)
			for _, ip := range added {
				fmt.Fprintf(w, "    + %s\n", ip)
			}
			for _, ip := range removed {
				fmt.Fprintf(w, "    - %s\n", ip)
			}
		}
	}

	if len(c.Delete) > 0 {
		fmt.Fprintf(w, "\n⚠️  Removed Host Groups (%d):\n", len(c.Delete))
		for _, name := range c.Delete {
			fmt.Fprintf(w, "  • %s\n", name)
		}
	}
}

// ReservationChangeset is a Changeset over MAC addresses with the
// reservation sets it was computed from.
type ReservationChangeset struct {
	Changeset
	Existing devices.Reservations `json:"-" yaml:"-"`
	Updated  devices.Reservations `json:"-" yaml:"-"`
}

// Print writes a detailed, human-readable view of the changeset.
func (c *ReservationChangeset) Print(w io.Writer) {
	fmt.Fprintf(w, "Fixed IP reservations: %s\n", c.String())

	if len(c.Create) > 0 {
		fmt.Fprintf(w, "\n➕ New Reservations (%d):\n", len(c.Create))
		for _, mac := range c.Create {
			r := c.Updated[mac]
			fmt.Fprintf(w, "  • %s %s (%s)\n", mac, r.IP, r.Name)
		}
	}

	if len(c.Update) > 0 {
		fmt.Fprintf(w, "\n🔄 Updated Reservations (%d):\n", len(c.Update))
		for _, mac := range c.Update {
			old, cur := c.Existing[mac], c.Updated[mac]
			fmt.Fprintf(w, "  • %s: %s (%s) → %s (%s)\n", mac, old.IP, old.Name, cur.IP, cur.Name)
		}
	}

	if len(c.Delete) > 0 {
		fmt.Fprintf(w, "\n⚠️  Removed Reservations (%d):\n", len(c.Delete))
		for _, mac := range c.Delete {
			r := c.Existing[mac]
			fmt.Fprintf(w, "  • %s %s (%s)\n", mac, r.IP, r.Name)
		}
	}
}

// DeviceChangeset lists classification entries that are new.
type DeviceChangeset struct {
	Added []devices.KnownDevice `json:"added" yaml:"added"`
}

// HasChanges returns true if any entry was added.
func (c *DeviceChangeset) HasChanges() bool {
	return len(c.Added) > 0
}

// Groups returns the added entries grouped by group name, groups in the
// order they first appear.
func (c *DeviceChangeset) Groups() ([]string, map[string][]devices.KnownDevice) {
	var order []string
	byGroup := make(map[string][]devices.KnownDevice)
	for _, kd := range c.Added {
		if _, ok := byGroup[kd.Group]; !ok {
			order = append(order, kd.Group)
		}
		byGroup[kd.Group] = append(byGroup[kd.Group], kd)
	}
	return order, byGroup
}

// String returns a one-line summary.
func (c *DeviceChangeset) String() string {
	if !c.HasChanges() {
		return "No new devices"
	}
	return fmt.Sprintf("%d new devices", len(c.Added))
}

// Print writes the added entries grouped for display.
func (c *DeviceChangeset) Print(w io.Writer) {
	fmt.Fprintf(w, "Known devices: %s\n", c.String())
	order, byGroup := c.Groups()
	for _, group := range order {
		fmt.Fprintf(w, "\n➕ %s (%d):\n", group, len(byGroup[group]))
		for _, kd := range byGroup[group] {
			fmt.Fprintf(w, "  • %s %s\n", kd.Name, kd.MAC)
		}
	}
}
