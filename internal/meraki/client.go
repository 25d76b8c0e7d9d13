// Package meraki reads live clients and fixed-IP reservations from the
// Meraki Dashboard API and writes reservations back.
package meraki

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/netorganizer/netorg/internal/transport"
	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

const service = "meraki"

// Client is a minimal Dashboard API client.
type Client struct {
	api *transport.Client
}

type clientOptions struct {
	baseURL   string
	transport []transport.Option
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL overrides the Dashboard API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.transport = append(o.transport, transport.WithHTTPClient(hc))
	}
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.NewAuthenticationError(service, "api_key", "API key is not set", errors.ErrInvalidInput)
	}
	o := &clientOptions{baseURL: constants.MerakiBaseURL}
	for _, opt := range opts {
		opt(o)
	}
	auth := &transport.HeaderAuth{Header: constants.MerakiAPIKeyHeader, Value: apiKey}
	return &Client{api: transport.New(service, o.baseURL, auth, o.transport...)}, nil
}

// Organization is a Dashboard organization.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Network is a Dashboard network.
type Network struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Device is a network device such as an MX appliance.
type Device struct {
	Serial string `json:"serial"`
	Model  string `json:"model"`
	Name   string `json:"name"`
}

// VLAN is an appliance VLAN with its fixed-IP assignments.
type VLAN struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	Subnet             string               `json:"subnet"`
	FixedIPAssignments devices.Reservations `json:"fixedIpAssignments"`
}

// DeviceClient is a client seen by a device.
type DeviceClient struct {
	MAC          string `json:"mac"`
	IP           string `json:"ip"`
	Description  string `json:"description"`
	DHCPHostname string `json:"dhcpHostname"`
	VLAN         string `json:"vlan"`
}

// Organizations lists the organizations the API key can access.
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	res, err := c.api.GetJSON(ctx, "organizations")
	if err != nil {
		return nil, err
	}
	var orgs []Organization
	res.ForEach(func(_, v gjson.Result) bool {
		orgs = append(orgs, Organization{ID: v.Get("id").String(), Name: v.Get("name").String()})
		return true
	})
	return orgs, nil
}

// Networks lists the networks of an organization.
func (c *Client) Networks(ctx context.Context, orgID string) ([]Network, error) {
	res, err := c.api.GetJSON(ctx, "organizations/"+url.PathEscape(orgID)+"/networks")
	if err != nil {
		return nil, err
	}
	var networks []Network
	res.ForEach(func(_, v gjson.Result) bool {
		networks = append(networks, Network{ID: v.Get("id").String(), Name: v.Get("name").String()})
		return true
	})
	return networks, nil
}

// Devices lists the devices of a network.
func (c *Client) Devices(ctx context.Context, networkID string) ([]Device, error) {
	res, err := c.api.GetJSON(ctx, "networks/"+url.PathEscape(networkID)+"/devices")
	if err != nil {
		return nil, err
	}
	var devs []Device
	res.ForEach(func(_, v gjson.Result) bool {
		devs = append(devs, Device{
			Serial: v.Get("serial").String(),
			Model:  v.Get("model").String(),
			Name:   v.Get("name").String(),
		})
		return true
	})
	return devs, nil
}

// VLANs lists the appliance VLANs of a network.
func (c *Client) VLANs(ctx context.Context, networkID string) ([]VLAN, error) {
	res, err := c.api.GetJSON(ctx, "networks/"+url.PathEscape(networkID)+"/appliance/vlans")
	if err != nil {
		return nil, err
	}
	var vlans []VLAN
	res.ForEach(func(_, v gjson.Result) bool {
		vlans = append(vlans, parseVLAN(v))
		return true
	})
	return vlans, nil
}

// VLAN fetches one appliance VLAN.
func (c *Client) VLAN(ctx context.Context, networkID, vlanID string) (VLAN, error) {
	res, err := c.api.GetJSON(ctx, vlanPath(networkID, vlanID))
	if err != nil {
		return VLAN{}, err
	}
	return parseVLAN(res), nil
}

// UpdateFixedIPAssignments replaces the fixed-IP assignments of a VLAN.
func (c *Client) UpdateFixedIPAssignments(ctx context.Context, networkID, vlanID string, reservations devices.Reservations) error {
	if reservations == nil {
		reservations = devices.Reservations{}
	}
	body := map[string]any{"fixedIpAssignments": reservations}
	_, err := c.api.SendJSON(ctx, http.MethodPut, vlanPath(networkID, vlanID), body)
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().
		Str("network_id", networkID).
		Str("vlan_id", vlanID).
		Int("reservations", len(reservations)).
		Msg("Updated fixed IP assignments")
	return nil
}

// DeviceClients lists the clients seen by a device.
func (c *Client) DeviceClients(ctx context.Context, serial string) ([]DeviceClient, error) {
	res, err := c.api.GetJSON(ctx, "devices/"+url.PathEscape(serial)+"/clients")
	if err != nil {
		return nil, err
	}
	var clients []DeviceClient
	res.ForEach(func(_, v gjson.Result) bool {
		clients = append(clients, DeviceClient{
			MAC:          v.Get("mac").String(),
			IP:           v.Get("ip").String(),
			Description:  v.Get("description").String(),
			DHCPHostname: v.Get("dhcpHostname").String(),
			VLAN:         v.Get("vlan").String(),
		})
		return true
	})
	return clients, nil
}

func vlanPath(networkID, vlanID string) string {
	return "networks/" + url.PathEscape(networkID) + "/appliance/vlans/" + url.PathEscape(vlanID)
}

func parseVLAN(v gjson.Result) VLAN {
	vlan := VLAN{
		ID:                 v.Get("id").String(),
		Name:               v.Get("name").String(),
		Subnet:             v.Get("subnet").String(),
		FixedIPAssignments: devices.Reservations{},
	}
	v.Get("fixedIpAssignments").ForEach(func(mac, r gjson.Result) bool {
		vlan.FixedIPAssignments[mac.String()] = devices.Reservation{
			IP:   r.Get("ip").String(),
			Name: r.Get("name").String(),
		}
		return true
	})
	return vlan
}
