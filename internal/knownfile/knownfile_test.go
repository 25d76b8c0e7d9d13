package knownfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
)

func TestNewExpandsHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	f, err := New("~/devices.yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "devices.yml"), f.Path())
}

func TestLoadMissingFile(t *testing.T) {
	f, err := New(filepath.Join(t.TempDir(), "devices.yml"))
	require.NoError(t, err)

	known, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, known)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "devices.yml")
	f, err := New(path)
	require.NoError(t, err)

	known := []devices.KnownDevice{
		{MAC: "aa:aa", Name: "Hue Bridge", Group: "Lights"},
		{MAC: "bb:bb", Name: "Kitchen, Echo", Group: "Echo"},
		{MAC: "cc:cc", Name: "Unknown", Group: "unclassified"},
	}
	require.NoError(t, f.Save(context.Background(), known))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, known, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".devices.yml.", "temporary file left behind")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  Lights:\n    - no-comma\n"), 0o644))

	f, err := New(path)
	require.NoError(t, err)

	_, err = f.Load(context.Background())
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.File)
}

func TestSaveLockHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yml")
	f, err := New(path)
	require.NoError(t, err)

	held := flock.New(path + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = f.Save(ctx, nil)
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "lock", ioErr.Operation)
}
