package meraki

import (
	"context"
	"fmt"
	"strings"

	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

// Chooser picks one of several options. kind names what is being chosen
// ("network", "device", "VLAN"). It returns the zero-based index.
type Chooser interface {
	Choose(ctx context.Context, kind string, options []string) (int, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, kind string, options []string) (int, error)

// Choose calls f.
func (f ChooserFunc) Choose(ctx context.Context, kind string, options []string) (int, error) {
	return f(ctx, kind, options)
}

// Settings identifies the appliance and VLAN a run works against.
type Settings struct {
	OrgID      string `json:"org_id" yaml:"org_id"`
	NetworkID  string `json:"network_id" yaml:"network_id"`
	Serial     string `json:"serial_id" yaml:"serial_id"`
	VLANID     string `json:"vlan_id" yaml:"vlan_id"`
	VLANSubnet string `json:"vlan_subnet" yaml:"vlan_subnet"`
}

// Discover walks organization, network, appliance and VLAN. A single
// candidate is taken as is; several are offered to chooser.
func (c *Client) Discover(ctx context.Context, chooser Chooser) (Settings, error) {
	var s Settings
	log := logging.Ctx(ctx)

	orgs, err := c.Organizations(ctx)
	if err != nil {
		return s, errors.WrapResource("query", "organizations", err)
	}
	switch len(orgs) {
	case 0:
		return s, errors.NewNotFoundError("organization", "")
	case 1:
		s.OrgID = orgs[0].ID
	default:
		return s, errors.NewValidationError("organization", len(orgs), "more than one organization found")
	}
	log.Debug().Str("org_id", s.OrgID).Msg("Organization found")

	networks, err := c.Networks(ctx, s.OrgID)
	if err != nil {
		return s, errors.WrapResource("query", "networks", err)
	}
	i, err := pick(ctx, chooser, "network", len(networks), func(i int) string { return networks[i].Name })
	if err != nil {
		return s, err
	}
	s.NetworkID = networks[i].ID

	devs, err := c.Devices(ctx, s.NetworkID)
	if err != nil {
		return s, errors.WrapResource("query", "devices", err)
	}
	appliances := devs[:0]
	for _, d := range devs {
		if strings.HasPrefix(d.Model, "MX") {
			appliances = append(appliances, d)
		}
	}
	i, err = pick(ctx, chooser, "device", len(appliances), func(i int) string {
		return fmt.Sprintf("%s - %s", appliances[i].Model, appliances[i].Serial)
	})
	if err != nil {
		return s, err
	}
	s.Serial = appliances[i].Serial

	vlans, err := c.VLANs(ctx, s.NetworkID)
	if err != nil {
		return s, errors.WrapResource("query", "VLANs", err)
	}
	i, err = pick(ctx, chooser, "VLAN", len(vlans), func(i int) string {
		return fmt.Sprintf("%s - %s", vlans[i].Name, vlans[i].Subnet)
	})
	if err != nil {
		return s, err
	}
	s.VLANID = vlans[i].ID
	s.VLANSubnet = vlans[i].Subnet

	log.Info().
		Str("network_id", s.NetworkID).
		Str("serial_id", s.Serial).
		Str("vlan_id", s.VLANID).
		Str("vlan_subnet", s.VLANSubnet).
		Msg("Meraki settings discovered")
	return s, nil
}

func pick(ctx context.Context, chooser Chooser, kind string, n int, label func(int) string) (int, error) {
	switch {
	case n == 0:
		return 0, errors.NewNotFoundError(kind, "")
	case n == 1:
		return 0, nil
	case chooser == nil:
		return 0, errors.NewValidationError(kind, n, "several candidates found and no chooser configured")
	}

	options := make([]string, n)
	for i := range options {
		options[i] = label(i)
	}
	i, err := chooser.Choose(ctx, kind, options)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, errors.NewValidationError(kind, i+1, "selection out of range")
	}
	return i, nil
}
