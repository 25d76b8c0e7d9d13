// Package scan analyzes a device table and reports, per category, which
// devices the next organize run will act on and how.
package scan

import (
	"fmt"
	"io"

	"github.com/netorganizer/netorg/pkg/devices"
)

// Category is one class of device in a scan report.
type Category struct {
	Key         string
	Description string
	Action      string
	Match       devices.Predicate
}

// Categories lists the report categories in report order.
var Categories = []Category{
	{
		Key:         "new",
		Description: "not known, not reserved, active",
		Action:      "New device(s)? These will be known as unclassified during the next organize",
		Match:       devices.All(devices.Not(devices.Known), devices.Not(devices.Reserved), devices.Active),
	},
	{
		Key:         "retired",
		Description: "not known, reserved, not active",
		Action:      "Retired device(s)? The reserved IP will be removed during the next organize",
		Match:       devices.StaleReservation,
	},
	{
		Key:         "reserved-unknown",
		Description: "not known, reserved, active",
		Action:      "These will be known as unclassified during the next organize",
		Match:       devices.All(devices.Not(devices.Known), devices.Reserved, devices.Active),
	},
	{
		Key:         "known-offline",
		Description: "known, not reserved, not active",
		Action:      "A reserved IP will be created during the next organize",
		Match:       devices.All(devices.Known, devices.Not(devices.Reserved), devices.Not(devices.Active)),
	},
	{
		Key:         "known-dynamic",
		Description: "known, not reserved, active",
		Action:      "The current IP will be converted to a static IP during the next organize",
		Match:       devices.All(devices.Known, devices.Not(devices.Reserved), devices.Active),
	},
	{
		Key:         "known-inactive",
		Description: "known, reserved, not active",
		Action:      "These devices are currently inactive, no action will be taken during the next organize",
		Match:       devices.All(devices.Known, devices.Reserved, devices.Not(devices.Active)),
	},
	{
		Key:         "normal",
		Description: "known, reserved, active",
		Action:      "Normal state, no action will be taken during the next organize",
		Match:       devices.All(devices.Known, devices.Reserved, devices.Active),
	},
	{
		Key:         "active-unclassified",
		Description: "active and unclassified",
		Action:      "You should consider classifying them before the next organize",
		Match:       devices.All(devices.Active, devices.Unclassified),
	},
}

// Finding is the result of one category.
type Finding struct {
	Key         string   `json:"key" yaml:"key"`
	Description string   `json:"description" yaml:"description"`
	Action      string   `json:"action" yaml:"action"`
	Devices     []string `json:"devices" yaml:"devices"`
}

// Report is a complete scan.
type Report struct {
	Devices  int       `json:"devices" yaml:"devices"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Run scans table.
func Run(table devices.Table) *Report {
	report := &Report{Devices: len(table), Findings: make([]Finding, 0, len(Categories))}
	for _, c := range Categories {
		f := Finding{Key: c.Key, Description: c.Description, Action: c.Action, Devices: []string{}}
		for _, e := range table.Filter(c.Match) {
			name := e.Name
			if name == "" {
				name = e.MAC
			}
			f.Devices = append(f.Devices, name)
		}
		report.Findings = append(report.Findings, f)
	}
	return report
}

// Finding returns the finding for key.
func (r *Report) Finding(key string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Key == key {
			return f, true
		}
	}
	return Finding{}, false
}

// Print writes the report in a human-readable form.
func (r *Report) Print(w io.Writer) {
	for _, f := range r.Findings {
		if len(f.Devices) == 0 {
			fmt.Fprintf(w, "Did not find any devices that are: %s\n", f.Description)
			continue
		}
		fmt.Fprintf(w, "Found %d device(s) that are: %s\n", len(f.Devices), f.Description)
		fmt.Fprintf(w, "%s\n", f.Action)
		for _, name := range f.Devices {
			fmt.Fprintf(w, "     %s\n", name)
		}
	}
}
