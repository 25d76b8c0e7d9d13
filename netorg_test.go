package netorg_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg"
	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/differ"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/hostgroups"
	"github.com/netorganizer/netorg/pkg/mapper"
	"github.com/netorganizer/netorg/pkg/sources"
)

type knownStore struct {
	known []devices.KnownDevice
	saves int
}

func (s *knownStore) Load(context.Context) ([]devices.KnownDevice, error) { return s.known, nil }

func (s *knownStore) Save(_ context.Context, known []devices.KnownDevice) error {
	s.known = known
	s.saves++
	return nil
}

type reservationStore struct {
	reserved devices.Reservations
	saves    int
}

func (s *reservationStore) Load(context.Context) (devices.Reservations, error) {
	out := devices.Reservations{}
	for mac, r := range s.reserved {
		out[mac] = r
	}
	return out, nil
}

func (s *reservationStore) Save(_ context.Context, reserved devices.Reservations) error {
	s.reserved = reserved
	s.saves++
	return nil
}

type treePort struct {
	groups []hostgroups.Group
}

func (p *treePort) Groups(context.Context) ([]hostgroups.Group, error) { return p.groups, nil }

func (p *treePort) Group(_ context.Context, id string) (hostgroups.Group, error) {
	for _, g := range p.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return hostgroups.Group{}, errors.NewNotFoundError("host group", id)
}

func (p *treePort) Create(_ context.Context, parent hostgroups.Parent, g hostgroups.Group) (hostgroups.Group, error) {
	g.ID = fmt.Sprint(len(p.groups) + 1)
	g.ParentID = parent.ID
	p.groups = append(p.groups, g)
	return g, nil
}

func (p *treePort) Update(_ context.Context, id string, ips []string) error {
	for i := range p.groups {
		if p.groups[i].ID == id {
			p.groups[i].IPs = ips
			return nil
		}
	}
	return errors.NewNotFoundError("host group", id)
}

func (p *treePort) Delete(context.Context, string) error { return nil }

// mockPort is a testify mock of hostgroups.Port.
type mockPort struct {
	mock.Mock
}

func (m *mockPort) Groups(ctx context.Context) ([]hostgroups.Group, error) {
	args := m.Called(ctx)
	return args.Get(0).([]hostgroups.Group), args.Error(1)
}

func (m *mockPort) Group(ctx context.Context, id string) (hostgroups.Group, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(hostgroups.Group), args.Error(1)
}

func (m *mockPort) Create(ctx context.Context, parent hostgroups.Parent, g hostgroups.Group) (hostgroups.Group, error) {
	args := m.Called(ctx, parent, g)
	return args.Get(0).(hostgroups.Group), args.Error(1)
}

func (m *mockPort) Update(ctx context.Context, id string, ips []string) error {
	return m.Called(ctx, id, ips).Error(0)
}

func (m *mockPort) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type fixture struct {
	known    *knownStore
	active   sources.ActiveClientsFunc
	reserved *reservationStore
}

func newFixture() *fixture {
	return &fixture{
		known: &knownStore{known: []devices.KnownDevice{
			{MAC: "aa:aa", Name: "K1", Group: "groupA"},
		}},
		active: func(context.Context) ([]devices.ActiveClient, error) {
			return []devices.ActiveClient{{MAC: "bb:bb", IP: "10.0.0.5", Description: "New"}}, nil
		},
		reserved: &reservationStore{reserved: devices.Reservations{
			"aa:aa": {IP: "10.0.0.9", Name: "K1"},
		}},
	}
}

func (f *fixture) client(t *testing.T, opts ...netorg.Option) netorg.Client {
	t.Helper()
	base := []netorg.Option{
		netorg.WithSubnet("10.0.0.0/24"),
		netorg.WithKnownDevices(f.known),
		netorg.WithActiveClients(f.active),
		netorg.WithReservations(f.reserved),
	}
	c, err := netorg.New(append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresSources(t *testing.T) {
	_, err := netorg.New(netorg.WithSubnet("10.0.0.0/24"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = netorg.New(netorg.WithApplyStrategy("sometimes"))
	assert.True(t, errors.IsValidationError(err))
}

func TestDeviceTable(t *testing.T) {
	table, err := newFixture().client(t).DeviceTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, devices.Table{
		{MAC: "aa:aa", Record: devices.Record{Known: true, Reserved: true, IP: "10.0.0.9", Group: "groupA", Name: "K1"}},
		{MAC: "bb:bb", Record: devices.Record{Active: true, IP: "10.0.0.5", Name: "New"}},
	}, table)
}

func TestScan(t *testing.T) {
	report, err := newFixture().client(t).Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Devices)
}

func TestGenerate(t *testing.T) {
	f := newFixture()
	result, err := f.client(t).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []devices.KnownDevice{{MAC: "bb:bb", Name: "New", Group: "unclassified"}}, result.KnownDevices.Added)
	assert.True(t, result.KnownDevicesSaved)
	assert.Equal(t, []devices.KnownDevice{
		{MAC: "aa:aa", Name: "K1", Group: "groupA"},
		{MAC: "bb:bb", Name: "New", Group: "unclassified"},
	}, f.known.known)
	assert.Zero(t, f.reserved.saves)
}

func TestOrganize(t *testing.T) {
	f := newFixture()
	result, err := f.client(t).Organize(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Allocations)
	assert.Equal(t, []string{"bb:bb"}, result.Reservations.Create)
	assert.True(t, result.ReservationsSaved)
	assert.Equal(t, devices.Reservations{
		"aa:aa": {IP: "10.0.0.9", Name: "K1"},
		"bb:bb": {IP: "10.0.0.5", Name: "New"},
	}, f.reserved.reserved)
	assert.Equal(t, 1, f.known.saves)

	// A second run finds nothing new.
	result, err = f.client(t).Organize(context.Background())
	require.NoError(t, err)
	assert.False(t, result.HasChanges())
	assert.Equal(t, 1, f.reserved.saves)
}

func TestOrganizeAllocatesAndDropsStale(t *testing.T) {
	f := newFixture()
	f.known.known = append(f.known.known, devices.KnownDevice{MAC: "cc:cc", Name: "Printer", Group: "Office"})
	f.reserved.reserved["dd:dd"] = devices.Reservation{IP: "10.0.0.50", Name: "Gone"}

	result, err := f.client(t).Organize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []mapper.Allocation{{MAC: "cc:cc", Name: "Printer", IP: "10.0.0.1"}}, result.Allocations)
	assert.Equal(t, []string{"bb:bb", "cc:cc"}, result.Reservations.Create)
	assert.Equal(t, []string{"dd:dd"}, result.Reservations.Delete)
	assert.NotContains(t, f.reserved.reserved, "dd:dd")
	assert.Contains(t, result.Summary(), "1 addresses assigned")
}

func TestOrganizeDryRun(t *testing.T) {
	f := newFixture()
	result, err := f.client(t, netorg.WithDryRun(true)).Organize(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.True(t, result.HasChanges())
	assert.False(t, result.ReservationsSaved)
	assert.False(t, result.KnownDevicesSaved)
	assert.Zero(t, f.known.saves)
	assert.Zero(t, f.reserved.saves)
}

func TestOrganizeRequiresWritableSources(t *testing.T) {
	f := newFixture()
	c, err := netorg.New(
		netorg.WithSubnet("10.0.0.0/24"),
		netorg.WithKnownDevices(sources.KnownDevicesFunc(f.known.Load)),
		netorg.WithActiveClients(f.active),
		netorg.WithReservations(f.reserved),
	)
	require.NoError(t, err)

	_, err = c.Organize(context.Background())
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOrganizeRejectsPublicSubnet(t *testing.T) {
	_, err := newFixture().client(t, netorg.WithSubnet("8.8.8.0/24")).Organize(context.Background())
	assert.ErrorIs(t, err, errors.ErrInvalidRange)
}

func TestPushHostGroups(t *testing.T) {
	f := newFixture()
	port := &treePort{groups: []hostgroups.Group{{ID: "1", Name: "Inside Hosts"}}}

	result, err := f.client(t, netorg.WithHostGroups(port)).PushHostGroups(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.HostGroups)
	assert.True(t, result.HostGroups.ContainerCreated)
	assert.Equal(t, []string{"groupA", "unclassified"}, result.HostGroups.Created)

	current, err := hostgroups.New(port).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"groupA":       {"10.0.0.9"},
		"unclassified": {"10.0.0.5"},
	}, current)
}

func TestPushHostGroupsConnector(t *testing.T) {
	f := newFixture()
	port := &treePort{groups: []hostgroups.Group{{ID: "1", Name: "Inside Hosts"}}}
	closed := false
	connect := func(context.Context) (hostgroups.Port, func(context.Context) error, error) {
		return port, func(context.Context) error { closed = true; return nil }, nil
	}

	_, err := f.client(t, netorg.WithHostGroupsConnector(connect)).PushHostGroups(context.Background())
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestPushHostGroupsFailure(t *testing.T) {
	f := newFixture()
	port := &mockPort{}
	port.On("Groups", mock.Anything).Return([]hostgroups.Group{
		{ID: "1", Name: "Inside Hosts"},
		{ID: "2", ParentID: "1", Name: "Net Organizer Groups"},
	}, nil)
	port.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(g hostgroups.Group) bool {
		return g.Name == "groupA"
	})).Return(hostgroups.Group{}, errors.New("boom"))

	result, err := f.client(t, netorg.WithHostGroups(port)).PushHostGroups(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFailedToCreateGroup)
	assert.Empty(t, result.HostGroups.Created)
	port.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPushHostGroupsAdditionsOnly(t *testing.T) {
	f := newFixture()
	port := &treePort{groups: []hostgroups.Group{
		{ID: "1", Name: "Inside Hosts"},
		{ID: "2", ParentID: "1", Name: "Net Organizer Groups"},
		{ID: "3", ParentID: "2", Name: "groupA", IPs: []string{"10.0.0.99"}},
	}}

	result, err := f.client(t,
		netorg.WithHostGroups(port),
		netorg.WithApplyStrategy(differ.ApplyAdditionsOnly),
	).PushHostGroups(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"unclassified"}, result.HostGroups.Created)
	assert.Empty(t, result.HostGroups.Updated)
	assert.Equal(t, []string{"10.0.0.99"}, port.groups[2].IPs)
}

func TestPushHostGroupsRequiresPort(t *testing.T) {
	_, err := newFixture().client(t).PushHostGroups(context.Background())
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
