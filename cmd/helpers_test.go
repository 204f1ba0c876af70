package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/idmgo/idm/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// unreadableList has a trailing comma, so the whole file fails to decode.
const unreadableList = `[{"id": "keep-1", "url": "https://example.com/1.iso"}, {"id": "keep-2", "url": "https://example.com/2.iso"},]`

const twoDownloads = `[{"id": "keep-1", "url": "https://example.com/1.iso", "progress": 100}, {"id": "keep-2", "url": "https://example.com/2.iso", "progress": 20}]`

// useStateDir points --dir at a fresh temporary directory.
func useStateDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	viper.Set(config.KeyDir, dir)
	t.Cleanup(func() { viper.Set(config.KeyDir, "") })

	return dir
}

func writeState(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func readState(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func execute(command *cobra.Command, args ...string) error {
	command.SetArgs(args)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	return command.Execute()
}
