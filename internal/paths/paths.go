package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/idmgo/idm/internal/logger"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

// AppName names the settings directory
const AppName = "idm"

// Operating system constants
const (
	OSWindows = "windows"
	OSLinux   = "linux"
	OSDarwin  = "darwin"
)

const DefaultDirPermissions = 0755

// Resolver finds the settings directory for the host. Every dependency on
// the environment is a field so it can be swapped in tests.
type Resolver struct {
	Fs      afero.Fs
	GOOS    string
	AppName string
	Getenv  func(key string) string
	Home    func() (string, error)
	Getwd   func() (string, error)
}

func NewResolver(fs afero.Fs) *Resolver {
	return &Resolver{
		Fs:      fs,
		GOOS:    runtime.GOOS,
		AppName: AppName,
		Getenv:  os.Getenv,
		Home:    homedir.Dir,
		Getwd:   os.Getwd,
	}
}

// Candidate returns the OS specific settings directory without touching the
// filesystem. Unknown systems use the working directory.
func (r *Resolver) Candidate() string {
	switch r.GOOS {
	case OSWindows:
		roaming := r.Getenv("APPDATA")
		if roaming == "" {
			home, ok := r.home()
			if !ok {
				return r.workingDir()
			}
			roaming = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(roaming, "."+r.AppName)

	case OSLinux:
		home, ok := r.home()
		if !ok {
			return r.workingDir()
		}
		return filepath.Join(home, ".config", r.AppName)

	case OSDarwin:
		home, ok := r.home()
		if !ok {
			return r.workingDir()
		}
		return filepath.Join(home, "Library", "Application Support", r.AppName)

	default:
		return r.workingDir()
	}
}

func (r *Resolver) home() (string, bool) {
	home, err := r.Home()
	if err != nil || home == "" {
		logger.Warn("could not read home dir: %v", err)
		return "", false
	}
	return home, true
}

// Resolve returns a directory that exists. It never fails: if the settings
// directory can not be created the working directory is used instead.
func (r *Resolver) Resolve() string {
	return r.Ensure(r.Candidate())
}

// Ensure creates dir if needed and falls back to the working directory.
func (r *Resolver) Ensure(dir string) string {
	exists, err := afero.DirExists(r.Fs, dir)
	if err == nil && exists {
		return dir
	}

	if err := r.Fs.MkdirAll(dir, DefaultDirPermissions); err != nil {
		logger.Error("setting folder error: %v", err)
		return r.workingDir()
	}

	return dir
}

func (r *Resolver) workingDir() string {
	wd, err := r.Getwd()
	if err != nil {
		logger.Warn("could not read working dir: %v", err)
		return "."
	}
	return wd
}

var (
	once        sync.Once
	settingsDir string
)

// SettingsDir resolves the settings directory once per process.
func SettingsDir() string {
	once.Do(func() {
		settingsDir = NewResolver(afero.NewOsFs()).Resolve()
	})
	return settingsDir
}
