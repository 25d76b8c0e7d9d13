package output

import (
	"strconv"
	"strings"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/mapper"
	"github.com/netorganizer/netorg/pkg/scan"
)

// DeviceTableData converts a device table to table data.
func DeviceTableData(table devices.Table) Data {
	rows := make([][]string, 0, len(table))
	for _, e := range table {
		rows = append(rows, []string{
			e.MAC,
			e.Name,
			e.Group,
			e.IP,
			strconv.FormatBool(e.Known),
			strconv.FormatBool(e.Reserved),
			strconv.FormatBool(e.Active),
		})
	}
	return Data{
		Headers: []string{"MAC", "Name", "Group", "IP", "Known", "Reserved", "Active"},
		Rows:    rows,
		Source:  table,
	}
}

// AllocationsData converts allocations to table data.
func AllocationsData(allocations []mapper.Allocation) Data {
	rows := make([][]string, 0, len(allocations))
	for _, a := range allocations {
		rows = append(rows, []string{a.MAC, a.Name, a.IP})
	}
	return Data{
		Headers: []string{"MAC", "Name", "IP"},
		Rows:    rows,
		Source:  allocations,
	}
}

// ScanData converts a scan report to table data, one row per category.
func ScanData(report *scan.Report) Data {
	rows := make([][]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		rows = append(rows, []string{
			f.Description,
			strconv.Itoa(len(f.Devices)),
			f.Action,
			strings.Join(f.Devices, ", "),
		})
	}
	return Data{
		Headers:         []string{"Category", "Count", "Next Organize", "Devices"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft},
		Source:          report,
	}
}
