// Package knownfile stores the classification list in a YAML file.
package knownfile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"

	"github.com/netorganizer/netorg/pkg/classification"
	"github.com/netorganizer/netorg/pkg/constants"
	"github.com/netorganizer/netorg/pkg/devices"
	"github.com/netorganizer/netorg/pkg/errors"
	"github.com/netorganizer/netorg/pkg/logging"
)

// File is a classification file on disk. Reads take a shared lock and
// writes an exclusive one on a sibling ".lock" file.
type File struct {
	path string
}

// New returns the file at path. A leading ~ is expanded.
func New(path string) (*File, error) {
	if path == "" {
		path = constants.DefaultDevicesFile
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.NewConfigError("devices_yml", "cannot expand "+path, err)
	}
	return &File{path: expanded}, nil
}

// Path returns the expanded path.
func (f *File) Path() string {
	return f.path
}

// Load reads the classification list. A missing file is an empty list.
func (f *File) Load(ctx context.Context) ([]devices.KnownDevice, error) {
	unlock, err := f.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		logging.Ctx(ctx).Warn().Str("path", f.path).Msg("Classification file not found, starting empty")
		return []devices.KnownDevice{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}

	known, err := classification.Parse(data)
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = f.path
		}
		return nil, err
	}

	logging.Ctx(ctx).Debug().Str("path", f.path).Int("devices", len(known)).Msg("Loaded classification file")
	return known, nil
}

// Save replaces the file contents. The new document is written to a
// temporary file in the same directory and renamed over the old one.
func (f *File) Save(ctx context.Context, known []devices.KnownDevice) error {
	data, err := classification.Generate(known)
	if err != nil {
		return err
	}

	unlock, err := f.lock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return errors.WrapIO("write", f.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmp.Name(), err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("chmod", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("write", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.WrapIO("rename", f.path, err)
	}

	logging.Ctx(ctx).Info().Str("path", f.path).Int("devices", len(known)).Msg("Saved classification file")
	return nil
}

func (f *File) lock(ctx context.Context, exclusive bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(f.path), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", filepath.Dir(f.path), err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.LockTimeout)
	defer cancel()

	fl := flock.New(f.path + ".lock")
	var ok bool
	var err error
	if exclusive {
		ok, err = fl.TryLockContext(ctx, constants.LockRetryDelay)
	} else {
		ok, err = fl.TryRLockContext(ctx, constants.LockRetryDelay)
	}
	if err != nil || !ok {
		if err == nil {
			err = errors.New("lock not acquired")
		}
		return nil, errors.WrapIO("lock", f.path, err)
	}
	return func() { _ = fl.Unlock() }, nil
}
