package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/idmgo/idm/internal/domain"
	"github.com/idmgo/idm/internal/logger"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// SettingsStore persists preferences to setting.cfg
type SettingsStore struct {
	fs   afero.Fs
	dir  string
	home string
	path string
}

// NewSettingsStore uses dir for the file and as the ffmpeg default, home
// for the default download folder.
func NewSettingsStore(fs afero.Fs, dir, home string) *SettingsStore {
	return &SettingsStore{
		fs:   fs,
		dir:  dir,
		home: home,
		path: filepath.Join(dir, SettingsFile),
	}
}

func (s *SettingsStore) Path() string {
	return s.path
}

// Defaults returns preferences with no persisted values applied.
func (s *SettingsStore) Defaults() *domain.Preferences {
	return domain.DefaultPreferences(s.home, s.dir)
}

// Load reads the settings file and fills every key, either from the file or
// from its default. It never fails.
func (s *SettingsStore) Load() *domain.Preferences {
	logger.Info("Load application setting from %s", s.dir)

	v, err := s.read()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Info("%s not found", SettingsFile)
		} else {
			logger.HandleError("load setting", err)
		}
		v = viper.New()
	}

	return s.apply(v)
}

// ReadSettings is Load for callers that rewrite the file: a missing file
// yields the defaults, a file that can not be read or parsed is an error.
func (s *SettingsStore) ReadSettings() (*domain.Preferences, error) {
	v, err := s.read()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.Defaults(), nil
		}
		return nil, err
	}

	return s.apply(v), nil
}

// Set changes one key of prefs. The download folder has to be an existing
// directory, Load drops it otherwise.
func (s *SettingsStore) Set(prefs *domain.Preferences, key, value string) error {
	if domain.CanonicalKey(key) == domain.KeyFolder && value != "" {
		if isDir, _ := afero.IsDir(s.fs, value); !isDir {
			return errors.Errorf("download folder %s is not an existing directory", value)
		}
	}

	return prefs.Set(key, value)
}

func (s *SettingsStore) read() (*viper.Viper, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat %s", s.path)
	}
	if !exists {
		return nil, ErrNotFound
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, &DecodeError{Path: s.path, Err: err}
		}
		return nil, errors.Wrapf(err, "could not read %s", s.path)
	}

	return v, nil
}

func (s *SettingsStore) apply(v *viper.Viper) *domain.Preferences {
	prefs := s.Defaults()

	if raw, key, ok := lookup(v, domain.KeyFolder, domain.LegacyKeyFolder); ok {
		folder, err := cast.ToStringE(raw)
		if err != nil || folder == "" {
			invalid(key, raw, err)
		} else if isDir, _ := afero.IsDir(s.fs, folder); !isDir {
			logger.Warn("download folder %s does not exist, using %s", folder, prefs.DownloadFolder)
		} else {
			prefs.DownloadFolder = folder
		}
	}

	if raw, key, ok := lookup(v, domain.KeyMonitor); ok {
		if b, err := cast.ToBoolE(raw); err != nil {
			invalid(key, raw, err)
		} else {
			prefs.MonitorClipboard = b
		}
	}

	if raw, key, ok := lookup(v, domain.KeyConcurrentDownloads, domain.LegacyKeyConcurrentDownloads); ok {
		if n, err := cast.ToIntE(raw); err != nil || n < 1 {
			invalid(key, raw, err)
		} else {
			prefs.ConcurrentDownloads = n
		}
	}

	if raw, key, ok := lookup(v, domain.KeyShowDownloadWindow); ok {
		if b, err := cast.ToBoolE(raw); err != nil {
			invalid(key, raw, err)
		} else {
			prefs.ShowDownloadWindow = b
		}
	}

	if raw, key, ok := lookup(v, domain.KeyTheme); ok {
		if theme, err := cast.ToStringE(raw); err != nil || theme == "" {
			invalid(key, raw, err)
		} else {
			prefs.Theme = theme
		}
	}

	if raw, key, ok := lookup(v, domain.KeyCheckForUpdate); ok {
		if b, err := cast.ToBoolE(raw); err != nil {
			invalid(key, raw, err)
		} else {
			prefs.CheckForUpdate = b
		}
	}

	if raw, key, ok := lookup(v, domain.KeyFFmpegFolder); ok {
		if folder, err := cast.ToStringE(raw); err != nil || folder == "" {
			invalid(key, raw, err)
		} else {
			prefs.FFmpegFolder = folder
		}
	}

	return prefs
}

// lookup returns the first of keys present in the file with a non-null value.
func lookup(v *viper.Viper, keys ...string) (interface{}, string, bool) {
	for _, key := range keys {
		if !v.InConfig(key) {
			continue
		}
		if raw := v.Get(key); raw != nil {
			return raw, key, true
		}
	}
	return nil, "", false
}

func invalid(key string, raw interface{}, err error) {
	if err != nil {
		logger.Warn("ignore setting %s=%v: %v", key, raw, err)
		return
	}
	logger.Warn("ignore setting %s=%v", key, raw)
}

// Save writes prefs to the settings file. Errors are logged, never returned.
func (s *SettingsStore) Save(prefs *domain.Preferences) {
	if err := s.WriteSettings(prefs); err != nil {
		logger.HandleError("save setting", err)
		return
	}

	logger.Info("setting saved")
}

// WriteSettings overwrites the settings file with one entry per key.
func (s *SettingsStore) WriteSettings(prefs *domain.Preferences) error {
	if prefs == nil {
		return errors.New("no preferences to save")
	}

	data, err := json.MarshalIndent(prefs.Map(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode setting")
	}

	return writeFile(s.fs, s.path, data)
}
