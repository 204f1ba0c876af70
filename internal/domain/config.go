package domain

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Preference keys as stored in setting.cfg
const (
	KeyFolder              = "folder"
	KeyMonitor             = "monitor"
	KeyConcurrentDownloads = "concurrent_downloads"
	KeyShowDownloadWindow  = "show_download_window"
	KeyTheme               = "theme"
	KeyCheckForUpdate      = "check_for_update_on_startup"
	KeyFFmpegFolder        = "ffmpeg_installation_folder"
)

// Older releases wrote these names on save, they are still read on load.
const (
	LegacyKeyFolder              = "download_folder"
	LegacyKeyConcurrentDownloads = "max_concurrent_downloads"
)

// PreferenceKeys lists every recognized key in display order.
var PreferenceKeys = []string{
	KeyFolder,
	KeyMonitor,
	KeyConcurrentDownloads,
	KeyShowDownloadWindow,
	KeyTheme,
	KeyCheckForUpdate,
	KeyFFmpegFolder,
}

const (
	DefaultConcurrentDownloads = 3
	DefaultTheme               = "DarkGrey2"
)

var ErrUnknownKey = errors.New("unknown setting")

// Preferences holds the user configurable options
type Preferences struct {
	DownloadFolder      string
	MonitorClipboard    bool
	ConcurrentDownloads int
	ShowDownloadWindow  bool
	Theme               string
	CheckForUpdate      bool
	FFmpegFolder        string
}

// DefaultPreferences returns the documented default for every key. The
// download folder lives under home, ffmpeg defaults to the settings directory.
func DefaultPreferences(home, settingsDir string) *Preferences {
	return &Preferences{
		DownloadFolder:      DefaultDownloadFolder(home),
		MonitorClipboard:    true,
		ConcurrentDownloads: DefaultConcurrentDownloads,
		ShowDownloadWindow:  true,
		Theme:               DefaultTheme,
		CheckForUpdate:      true,
		FFmpegFolder:        settingsDir,
	}
}

func DefaultDownloadFolder(home string) string {
	return filepath.Join(home, "Downloads")
}

// Map returns one entry per recognized key.
func (p *Preferences) Map() map[string]interface{} {
	return map[string]interface{}{
		KeyFolder:              p.DownloadFolder,
		KeyMonitor:             p.MonitorClipboard,
		KeyConcurrentDownloads: p.ConcurrentDownloads,
		KeyShowDownloadWindow:  p.ShowDownloadWindow,
		KeyTheme:               p.Theme,
		KeyCheckForUpdate:      p.CheckForUpdate,
		KeyFFmpegFolder:        p.FFmpegFolder,
	}
}

func (p *Preferences) Get(key string) (interface{}, error) {
	value, ok := p.Map()[CanonicalKey(key)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKey, "%q", key)
	}
	return value, nil
}

// Set parses value for key and stores it.
func (p *Preferences) Set(key, value string) error {
	switch CanonicalKey(key) {
	case KeyFolder:
		if value == "" {
			return errors.New("folder can not be empty")
		}
		p.DownloadFolder = value

	case KeyMonitor:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		p.MonitorClipboard = b

	case KeyConcurrentDownloads:
		n, err := cast.ToIntE(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		if n < 1 {
			return errors.Errorf("%s must be at least 1, got %d", key, n)
		}
		p.ConcurrentDownloads = n

	case KeyShowDownloadWindow:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		p.ShowDownloadWindow = b

	case KeyTheme:
		if value == "" {
			return errors.New("theme can not be empty")
		}
		p.Theme = value

	case KeyCheckForUpdate:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		p.CheckForUpdate = b

	case KeyFFmpegFolder:
		if value == "" {
			return errors.New("ffmpeg folder can not be empty")
		}
		p.FFmpegFolder = value

	default:
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}

	return nil
}

// CanonicalKey maps legacy names onto the current ones.
func CanonicalKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))

	switch key {
	case LegacyKeyFolder:
		return KeyFolder
	case LegacyKeyConcurrentDownloads:
		return KeyConcurrentDownloads
	}
	return key
}
