package prefs

import (
	"context"
	"os"
	"path/filepath"

	"codeberg.org/mutker/vitalmon/internal/errors"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644

	// DefaultFileName is the record name inside the user config directory.
	DefaultFileName = "tray_config.json"
	appDirName      = "vitalmon"
)

// DefaultDir returns the per-user configuration directory of the app.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.New().Wrap(ErrInvalidPath, err)
	}

	return filepath.Join(dir, appDirName), nil
}

// FileStore persists the record as a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New().New(ErrInvalidPath)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) (*DisplayConfig, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New().Wrap(errors.ErrLoadPrefs, err)
	}

	cfg, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes through a temporary file so a crash never leaves a truncated
// record behind.
func (s *FileStore) Save(ctx context.Context, cfg DisplayConfig) error {
	errFactory := errors.New()

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}

	tmp, err := os.CreateTemp(dir, ".tray_config-*")
	if err != nil {
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}
	if err := tmp.Chmod(defaultFilePerm); err != nil {
		tmp.Close()
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errFactory.Wrap(errors.ErrSavePrefs, err)
	}

	return nil
}
