package store

import (
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	DownloadsFile = "downloads.cfg"
	SettingsFile  = "setting.cfg"
)

// ErrNotFound is returned when a state file does not exist yet, which is
// expected on first run.
var ErrNotFound = errors.New("file not found")

// DecodeError means a state file exists but does not hold what we expect.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return "could not decode " + e.Path + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func readFile(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "could not read %s", path)
	}
	return data, nil
}

// writeFile overwrites path, recreating its directory if it was removed.
func writeFile(fsys afero.Fs, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "could not create directory for %s", path)
	}

	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write %s", path)
	}
	return nil
}
