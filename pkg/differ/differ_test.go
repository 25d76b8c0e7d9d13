package differ_test

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/differ"
)

func TestHostGroups(t *testing.T) {
	existing := map[string][]string{
		"Lights":  {"192.168.128.10", "192.168.128.191"},
		"Eero":    {"192.168.128.11"},
		"Ring":    {"192.168.128.15", "192.168.128.16"},
		"Laptops": {"192.168.128.190"},
	}
	updated := map[string][]string{
		"Lights":  {"192.168.128.191", "192.168.128.10"},
		"Eero":    {"192.168.128.11", "192.168.128.12"},
		"Ring":    {"192.168.128.15"},
		"Cameras": {"192.168.128.30"},
	}

	c := differ.New().HostGroups(existing, updated)
	assert.Equal(t, []string{"Cameras"}, c.Create)
	assert.Equal(t, []string{"Eero", "Ring"}, c.Update)
	assert.Equal(t, []string{"Laptops"}, c.Delete)
	assert.Equal(t, "1 to create, 2 to update, 1 to delete", c.String())
	assert.Equal(t, differ.ChangeTypeUpdate, c.TypeOf("Ring"))
	assert.Equal(t, differ.ChangeType(""), c.TypeOf("Lights"))
}

func TestHostGroupsOrderedIPs(t *testing.T) {
	existing := map[string][]string{"Lights": {"10.0.0.1", "10.0.0.2"}}
	updated := map[string][]string{"Lights": {"10.0.0.2", "10.0.0.1"}}

	assert.True(t, differ.New().HostGroups(existing, updated).IsEmpty())
	assert.Equal(t, []string{"Lights"}, differ.New(differ.WithOrderedIPs()).HostGroups(existing, updated).Update)
}

func TestHostGroupsDuplicateIPs(t *testing.T) {
	existing := map[string][]string{"A": {"10.0.0.1", "10.0.0.1"}}
	updated := map[string][]string{"A": {"10.0.0.1", "10.0.0.2"}}
	assert.Equal(t, []string{"A"}, differ.New().HostGroups(existing, updated).Update)
}

func TestMappingsPartition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	randomMapping := func() map[string][]string {
		m := make(map[string][]string)
		for g := range 8 {
			if rng.IntN(3) == 0 {
				continue
			}
			var ips []string
			for range rng.IntN(3) {
				ips = append(ips, fmt.Sprintf("10.0.0.%d", rng.IntN(4)))
			}
			m[fmt.Sprintf("group-%d", g)] = ips
		}
		return m
	}

	d := differ.New()
	for i := range 200 {
		existing, updated := randomMapping(), randomMapping()
		c := d.HostGroups(existing, updated)

		var differing []string
		for g := range 8 {
			name := fmt.Sprintf("group-%d", g)
			oldIPs, inOld := existing[name]
			newIPs, inNew := updated[name]
			if inOld != inNew || !sameSorted(oldIPs, newIPs) {
				differing = append(differing, name)
			}
		}

		names := c.Names()
		assert.Equal(t, len(names), c.Len(), "iteration %d: sets overlap", i)
		assert.Equal(t, len(differing), len(names), "iteration %d", i)
		assert.ElementsMatch(t, differing, names, "iteration %d", i)
		assert.Equal(t, slices.Compact(slices.Clone(names)), names, "iteration %d: duplicate key", i)
	}
}

func sameSorted(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestFilter(t *testing.T) {
	c := differ.Changeset{Create: []string{"a"}, Update: []string{"b"}, Delete: []string{"c"}}

	tests := []struct {
		strategy differ.ApplyStrategy
		want     differ.Changeset
	}{
		{differ.ApplyAll, c},
		{differ.ApplyAdditive, differ.Changeset{Create: []string{"a"}, Update: []string{"b"}, Delete: []string{}}},
		{differ.ApplyUpdatesOnly, differ.Changeset{Create: []string{}, Update: []string{"b"}, Delete: []string{}}},
		{differ.ApplyAdditionsOnly, differ.Changeset{Create: []string{"a"}, Update: []string{}, Delete: []string{}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			assert.Equal(t, tt.want, c.Filter(tt.strategy))
		})
	}

	s, ok := differ.ParseApplyStrategy("")
	assert.True(t, ok)
	assert.Equal(t, differ.ApplyAll, s)
	_, ok = differ.ParseApplyStrategy("everything")
	assert.False(t, ok)
}

func TestDevicesReportsAdditionsOnly(t *testing.T) {
	existing := []devices.KnownDevice{
		{MAC: "aa:aa", Name: "K1", Group: "groupA"},
		{MAC: "cc:cc", Name: "Gone", Group: "groupA"},
	}
	updated := []devices.KnownDevice{
		{MAC: "aa:aa", Name: "K1", Group: "groupA"},
		{MAC: "bb:bb", Name: "New", Group: "unclassified"},
		{MAC: "dd:dd", Name: "Moved", Group: "groupB"},
		{MAC: "ee:ee", Name: "Other", Group: "unclassified"},
	}

	c := differ.New().Devices(existing, updated)
	require.True(t, c.HasChanges())
	assert.Equal(t, []string{"bb:bb", "dd:dd", "ee:ee"}, macs(c.Added))

	order, byGroup := c.Groups()
	assert.Equal(t, []string{"unclassified", "groupB"}, order)
	assert.Len(t, byGroup["unclassified"], 2)

	var buf bytes.Buffer
	c.Print(&buf)
	assert.Contains(t, buf.String(), "3 new devices")
	assert.Contains(t, buf.String(), "➕ unclassified (2):")
	assert.NotContains(t, buf.String(), "Gone")

	assert.False(t, differ.New().Devices(updated, updated).HasChanges())
}

func macs(kds []devices.KnownDevice) []string {
	out := make([]string, len(kds))
	for i, kd := range kds {
		out[i] = kd.MAC
	}
	return out
}

func TestReservations(t *testing.T) {
	existing := devices.Reservations{
		"aa:aa": {IP: "10.0.0.9", Name: "K1"},
		"bb:bb": {IP: "10.0.0.5", Name: "Old"},
		"cc:cc": {IP: "10.0.0.7", Name: "Stale"},
	}
	updated := devices.Reservations{
		"aa:aa": {IP: "10.0.0.9", Name: "K1"},
		"bb:bb": {IP: "10.0.0.5", Name: "New"},
		"dd:dd": {IP: "10.0.0.2", Name: "Printer"},
	}

	c := differ.New().Reservations(existing, updated)
	assert.Equal(t, []string{"dd:dd"}, c.Create)
	assert.Equal(t, []string{"bb:bb"}, c.Update)
	assert.Equal(t, []string{"cc:cc"}, c.Delete)

	var buf bytes.Buffer
	c.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "dd:dd 10.0.0.2 (Printer)")
	assert.Contains(t, out, "bb:bb: 10.0.0.5 (Old) → 10.0.0.5 (New)")
	assert.Contains(t, out, "cc:cc 10.0.0.7 (Stale)")
}

func TestHostGroupPrint(t *testing.T) {
	c := differ.New().HostGroups(
		map[string][]string{"Ring": {"10.0.0.15", "10.0.0.16"}, "Old": {"10.0.0.1"}},
		map[string][]string{"Ring": {"10.0.0.15", "10.0.0.17"}, "New": {"10.0.0.2", "10.0.0.3"}},
	)

	var buf bytes.Buffer
	c.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "New: 10.0.0.2, 10.0.0.3")
	assert.Contains(t, out, "+ 10.0.0.17")
	assert.Contains(t, out, "- 10.0.0.16")
	assert.Contains(t, out, "⚠️  Removed Host Groups (1):")

	empty := differ.New().HostGroups(nil, nil)
	assert.Equal(t, "No changes detected", empty.String())
}
