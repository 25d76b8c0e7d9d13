// Package classification reads and writes the classification file, the
// user-curated list of known devices grouped by name:
//
//	devices:
//	  Lights:
//	  - Hall Lamp,aa:bb:cc:dd:ee:01
//	  unclassified:
//	  - Phone,aa:bb:cc:dd:ee:02
//
// Group order is preserved in both directions so a regenerated file
// diffs cleanly against the previous one.
package classification

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
)

const format = "yaml"

type document struct {
	Devices any `yaml:"devices"`
}

// Parse decodes a classification file into known devices, in file order.
func Parse(data []byte) ([]devices.KnownDevice, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, errors.WrapParse(format, "", err)
	}

	var groups yaml.MapSlice
	switch v := doc.Devices.(type) {
	case nil:
		return []devices.KnownDevice{}, nil
	case yaml.MapSlice:
		groups = v
	case []any:
		if len(v) == 0 {
			return []devices.KnownDevice{}, nil
		}
		return nil, errors.NewParseError(format, "", "devices must be a mapping of group to entries", nil)
	default:
		return nil, errors.NewParseError(format, "", "devices must be a mapping of group to entries", nil)
	}

	known := []devices.KnownDevice{}
	for _, item := range groups {
		group := fmt.Sprint(item.Key)
		entries, ok := item.Value.([]any)
		if item.Value != nil && !ok {
			return nil, errors.NewParseError(format, "", fmt.Sprintf("group %q must be a list", group), nil)
		}
		for _, raw := range entries {
			entry, ok := raw.(string)
			if !ok {
				return nil, errors.NewParseError(format, "", fmt.Sprintf("group %q: entry %v is not a string", group, raw), nil)
			}
			name, mac, err := ParseEntry(entry)
			if err != nil {
				return nil, errors.NewParseError(format, "", fmt.Sprintf("group %q: %v", group, err), err)
			}
			known = append(known, devices.KnownDevice{MAC: mac, Name: name, Group: group})
		}
	}
	return known, nil
}

// ParseEntry splits a "Name,MAC" entry. The name may itself contain commas.
func ParseEntry(entry string) (name, mac string, err error) {
	i := strings.LastIndex(entry, ",")
	if i < 0 {
		return "", "", errors.NewValidationError("entry", entry, "expected Name,MAC")
	}
	name, mac = strings.TrimSpace(entry[:i]), strings.TrimSpace(entry[i+1:])
	if mac == "" {
		return "", "", errors.NewValidationError("entry", entry, "missing MAC address")
	}
	return name, mac, nil
}

// FormatEntry renders a device as a "Name,MAC" entry.
func FormatEntry(kd devices.KnownDevice) string {
	return kd.Name + "," + kd.MAC
}

// Generate encodes known devices as a classification file. Groups appear in
// the order of their first device.
func Generate(known []devices.KnownDevice) ([]byte, error) {
	var groups yaml.MapSlice
	index := make(map[string]int)
	for _, kd := range known {
		i, ok := index[kd.Group]
		if !ok {
			i = len(groups)
			index[kd.Group] = i
			groups = append(groups, yaml.MapItem{Key: kd.Group, Value: []string{}})
		}
		groups[i].Value = append(groups[i].Value.([]string), FormatEntry(kd))
	}

	var doc any = struct {
		Devices yaml.MapSlice `yaml:"devices"`
	}{Devices: groups}
	if len(groups) == 0 {
		doc = struct {
			Devices map[string][]string `yaml:"devices"`
		}{Devices: map[string][]string{}}
	}

	out, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return nil, errors.WrapParse(format, "", err)
	}
	return out, nil
}
