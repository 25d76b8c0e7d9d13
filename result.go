package netorg

import (
	"fmt"
	"strings"
	"time"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/hostgroups"
	"github.com/netorganizer/netorg/pkg/mapper"
)

// Result reports what one operation computed and wrote.
type Result struct {
	// Operation is "generate", "organize" or "push"
	Operation string `json:"operation" yaml:"operation"`

	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Table is the device table after the operation
	Table devices.Table `json:"devices" yaml:"devices"`

	// Allocations lists addresses assigned during this run
	Allocations []mapper.Allocation `json:"allocations,omitempty" yaml:"allocations,omitempty"`

	// KnownDevices lists classification entries new in this run
	KnownDevices *differ.DeviceChangeset `json:"known_devices,omitempty" yaml:"known_devices,omitempty"`

	// Reservations is the change to the fixed-IP reservations
	Reservations *differ.ReservationChangeset `json:"reservations,omitempty" yaml:"reservations,omitempty"`

	// HostGroups is the outcome of the host group push
	HostGroups *hostgroups.Result `json:"host_groups,omitempty" yaml:"host_groups,omitempty"`

	KnownDevicesSaved bool `json:"known_devices_saved" yaml:"known_devices_saved"`
	ReservationsSaved bool `json:"reservations_saved" yaml:"reservations_saved"`

	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// HasChanges returns true if the run found anything to change.
func (r *Result) HasChanges() bool {
	switch {
	case len(r.Allocations) > 0:
		return true
	case r.KnownDevices != nil && r.KnownDevices.HasChanges():
		return true
	case r.Reservations != nil && r.Reservations.HasChanges():
		return true
	case r.HostGroups != nil && r.HostGroups.Changeset != nil && r.HostGroups.Changeset.HasChanges():
		return true
	}
	return false
}

// Summary returns a one-line description of the result.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "dry run")
	}
	parts = append(parts, fmt.Sprintf("%d devices", len(r.Table)))
	if r.Allocations != nil {
		parts = append(parts, fmt.Sprintf("%d addresses assigned", len(r.Allocations)))
	}
	if r.KnownDevices != nil {
		parts = append(parts, r.KnownDevices.String())
	}
	if r.Reservations != nil {
		parts = append(parts, "reservations: "+r.Reservations.String())
	}
	if r.HostGroups != nil {
		parts = append(parts, "host groups: "+r.HostGroups.Summary())
	}
	return strings.Join(parts, ", ")
}
