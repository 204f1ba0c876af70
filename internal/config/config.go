package config

import (
	"github.com/idmgo/idm/internal/logger"
	"github.com/idmgo/idm/internal/paths"
	"github.com/idmgo/idm/internal/store"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Viper keys bound to the root command flags
const (
	KeyDir     = "dir"
	KeyVerbose = "verbose"
)

// App carries the resolved settings directory and the stores inside it.
type App struct {
	Fs        afero.Fs
	Dir       string
	Home      string
	Downloads *store.ListStore
	Settings  *store.SettingsStore
}

// InitConfig resolves the settings directory, honoring --dir, and opens the
// stores. It never fails.
func InitConfig() *App {
	fs := afero.NewOsFs()

	home, err := homedir.Dir()
	if err != nil {
		logger.Warn("could not read home dir: %v", err)
	}

	dir := viper.GetString(KeyDir)
	if dir == "" {
		dir = paths.SettingsDir()
	} else {
		if expanded, err := homedir.Expand(dir); err == nil {
			dir = expanded
		}
		dir = paths.NewResolver(fs).Ensure(dir)
	}

	logger.Debug("settings directory: %s", dir)

	return New(fs, dir, home)
}

func New(fs afero.Fs, dir, home string) *App {
	return &App{
		Fs:        fs,
		Dir:       dir,
		Home:      home,
		Downloads: store.NewListStore(fs, dir),
		Settings:  store.NewSettingsStore(fs, dir, home),
	}
}
