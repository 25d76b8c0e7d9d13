package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg/internal/meraki"
	"github.com/netorganizer/netorg/pkg/constants"
)

func newDashboard(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/organizations":               `[{"id":"O1","name":"Home"}]`,
		"/organizations/O1/networks":   `[{"id":"N1","name":"Main"},{"id":"N2","name":"Lab"}]`,
		"/networks/N2/devices":         `[{"serial":"Q2MR","model":"MR36"},{"serial":"Q2MX","model":"MX68"}]`,
		"/networks/N2/appliance/vlans": `[{"id":"10","name":"Home","subnet":"192.168.128.0/24"}]`,
		"/networks/N1/appliance/vlans": `[]`,
		"/networks/N1/devices":         `[]`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(constants.MerakiAPIKeyHeader) != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConfigureCommand(t *testing.T) {
	srv := newDashboard(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "netorg.cfg")
	t.Setenv("NETORG_CONFIG", path)

	out := &bytes.Buffer{}
	logger := zerolog.Nop()
	a, err := New("dev", "", "", "",
		WithConfig(&Config{ConfigFile: path, LogLevel: "error"}),
		WithLogger(&logger),
		WithIO(strings.NewReader("2\n"), out),
		WithMerakiOptions(meraki.WithBaseURL(srv.URL)),
	)
	require.NoError(t, err)

	err = a.Execute(context.Background(), []string{
		"configure", "--api-key", "key", "--devices-yml", filepath.Join(dir, "devices.yml"), "--skip-sna",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2) Lab")
	assert.Contains(t, out.String(), "Configuration saved to "+path)

	saved, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "key", saved.APIKey)
	assert.Equal(t, "O1", saved.OrgID)
	assert.Equal(t, "N2", saved.NetworkID)
	assert.Equal(t, "Q2MX", saved.SerialID)
	assert.Equal(t, "10", saved.VLANID)
	assert.Equal(t, "192.168.128.0/24", saved.VLANSubnet)
	assert.Equal(t, filepath.Join(dir, "devices.yml"), saved.DevicesYML)
	assert.False(t, saved.HasSNA())
}

func TestConfigureCommandWithSNA(t *testing.T) {
	srv := newDashboard(t)
	path := filepath.Join(t.TempDir(), "netorg.cfg")
	t.Setenv("NETORG_CONFIG", path)

	// network choice, manager user, manager password
	in := strings.NewReader("2\nadmin\nsecret\n")
	logger := zerolog.Nop()
	a, err := New("dev", "", "", "",
		WithConfig(&Config{ConfigFile: path, DevicesYML: "~/devices.yml", LogLevel: "error"}),
		WithLogger(&logger),
		WithIO(in, &bytes.Buffer{}),
		WithMerakiOptions(meraki.WithBaseURL(srv.URL)),
	)
	require.NoError(t, err)

	err = a.Execute(context.Background(), []string{
		"configure", "--api-key", "key", "--devices-yml", "~/devices.yml",
		"--sna-host", "manager.example", "--sna-insecure",
	})
	require.NoError(t, err)

	saved, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "manager.example", saved.SNAHost)
	assert.Equal(t, "admin", saved.SNAUsername)
	assert.Equal(t, "secret", saved.SNAPassword)
	assert.True(t, saved.SNAInsecure)
}

func TestConfigureCommandRejectedKey(t *testing.T) {
	srv := newDashboard(t)
	path := filepath.Join(t.TempDir(), "netorg.cfg")
	t.Setenv("NETORG_CONFIG", path)

	logger := zerolog.Nop()
	a, err := New("dev", "", "", "",
		WithConfig(&Config{ConfigFile: path, LogLevel: "error"}),
		WithLogger(&logger),
		WithIO(strings.NewReader(""), &bytes.Buffer{}),
		WithMerakiOptions(meraki.WithBaseURL(srv.URL)),
	)
	require.NoError(t, err)

	err = a.Execute(context.Background(), []string{"configure", "--api-key", "wrong", "--devices-yml", "x", "--skip-sna"})
	require.Error(t, err)
	assert.NoFileExists(t, path)
}
