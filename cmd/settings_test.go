package cmd

import (
	"testing"

	"github.com/idmgo/idm/internal/domain"
	"github.com/idmgo/idm/internal/store"

	"github.com/magiconair/properties/assert"
	"github.com/spf13/afero"
)

const unreadableSettings = `{"theme": "Reds", "concurrent_downloads": 5`

func readSettings(t *testing.T, dir string) *domain.Preferences {
	t.Helper()
	prefs, err := store.NewSettingsStore(afero.NewOsFs(), dir, "/home/tester").ReadSettings()
	if err != nil {
		t.Fatal(err)
	}
	return prefs
}

func Test_RunSettingsSet(t *testing.T) {
	dir := useStateDir(t)
	writeState(t, dir, store.SettingsFile, `{"theme": "Reds"}`)

	assert.Equal(t, execute(RunSettingsSet(), "max_concurrent_downloads", "7"), nil)

	prefs := readSettings(t, dir)
	assert.Equal(t, prefs.ConcurrentDownloads, 7)
	assert.Equal(t, prefs.Theme, "Reds")
}

func Test_RunSettingsSet_UnreadableSettingsAreKept(t *testing.T) {
	dir := useStateDir(t)
	writeState(t, dir, store.SettingsFile, unreadableSettings)

	err := execute(RunSettingsSet(), "theme", "Blues")
	assert.Equal(t, err != nil, true)

	assert.Equal(t, readState(t, dir, store.SettingsFile), unreadableSettings)
}

func Test_RunSettingsSet_Folder(t *testing.T) {
	dir := useStateDir(t)
	folder := t.TempDir()

	err := execute(RunSettingsSet(), "folder", folder+"/missing")
	assert.Equal(t, err != nil, true)

	assert.Equal(t, execute(RunSettingsSet(), "folder", folder), nil)
	assert.Equal(t, readSettings(t, dir).DownloadFolder, folder)
}

func Test_RunSettingsGet_Strict(t *testing.T) {
	dir := useStateDir(t)
	writeState(t, dir, store.SettingsFile, unreadableSettings)

	assert.Equal(t, execute(RunSettingsGet(), "theme"), nil)
	assert.Equal(t, execute(RunSettingsGet(), "--strict", "theme") != nil, true)
	assert.Equal(t, execute(RunSettingsShow(), "--strict") != nil, true)
}
