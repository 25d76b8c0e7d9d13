package netspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/netspace"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cidr    string
		size    int
		wantErr error
	}{
		{name: "class c", cidr: "192.168.128.0/24", size: 254},
		{name: "ten slash thirty", cidr: "10.0.0.0/30", size: 2},
		{name: "point to point", cidr: "10.0.0.0/31", size: 2},
		{name: "single host", cidr: "172.16.5.4/32", size: 1},
		{name: "largest 172 block", cidr: "172.16.0.0/12", size: 1<<20 - 2},
		{name: "public", cidr: "8.8.8.0/24", wantErr: errors.ErrInvalidRange},
		{name: "straddles private edge", cidr: "10.0.0.0/7", wantErr: errors.ErrInvalidRange},
		{name: "ipv6", cidr: "fd00::/64", wantErr: errors.ErrInvalidRange},
		{name: "host bits set", cidr: "192.168.1.1/24", wantErr: errors.ErrInvalidInput},
		{name: "garbage", cidr: "not-a-cidr", wantErr: errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			space, err := netspace.New(tt.cidr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, space)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, space.Size())
			assert.Equal(t, tt.cidr, space.CIDR())
		})
	}
}

func TestAddressSetsExcludeNetworkAndBroadcast(t *testing.T) {
	space, err := netspace.New("10.0.0.0/29")
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"}, space.Addresses())
	assert.Empty(t, space.Used())
	assert.Equal(t, space.Addresses(), space.Unused())

	assert.False(t, space.Contains("10.0.0.0"))
	assert.False(t, space.Contains("10.0.0.7"))
	assert.True(t, space.Contains("10.0.0.6"))
	assert.False(t, space.Contains("bogus"))
}

func TestAllocateUntilExhausted(t *testing.T) {
	space, err := netspace.New("192.168.10.0/28")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range space.Size() {
		ip, err := space.Allocate()
		require.NoError(t, err)
		assert.False(t, seen[ip], "address %s handed out twice", ip)
		assert.True(t, space.Contains(ip))
		seen[ip] = true
	}
	assert.Len(t, seen, 14)
	assert.Empty(t, space.Unused())

	_, err = space.Allocate()
	require.ErrorIs(t, err, errors.ErrNetworkExhausted)
	assert.True(t, errors.IsExhausted(err))
}

func TestAllocateSkipsSpecificAddresses(t *testing.T) {
	space, err := netspace.New("10.1.0.0/29")
	require.NoError(t, err)

	_, err = space.AllocateSpecific("10.1.0.1")
	require.NoError(t, err)
	_, err = space.AllocateSpecific("10.1.0.3")
	require.NoError(t, err)

	ip, err := space.Allocate()
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.2", ip)

	ip, err = space.Allocate()
	require.NoError(t, err)
	assert.Equal(t, "10.1.0.4", ip)

	assert.Equal(t, []string{"10.1.0.1", "10.1.0.2", "10.1.0.3", "10.1.0.4"}, space.Used())
	assert.Equal(t, []string{"10.1.0.5", "10.1.0.6"}, space.Unused())
}

func TestAllocateSpecific(t *testing.T) {
	space, err := netspace.New("10.0.0.0/24")
	require.NoError(t, err)

	ip, err := space.AllocateSpecific("10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", ip)

	_, err = space.AllocateSpecific("10.0.0.5")
	require.ErrorIs(t, err, errors.ErrAddressInUse)

	for _, outside := range []string{"10.0.1.5", "10.0.0.0", "10.0.0.255", "", "::1"} {
		_, err = space.AllocateSpecific(outside)
		require.ErrorIs(t, err, errors.ErrInvalidInput, "address %q", outside)
	}

	assert.Equal(t, []string{"10.0.0.5"}, space.Used())
	assert.Len(t, space.Unused(), 253)
}
