package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/idmgo/idm/internal/config"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	SettingsDir   string `json:"settings_dir"`
	DownloadsFile string `json:"downloads_file"`
	SettingsFile  string `json:"settings_file"`
}

func newVersionInfo(app *config.App, version, commit, date string) versionInfo {
	return versionInfo{
		Version:       version,
		Commit:        commit,
		Date:          date,
		SettingsDir:   app.Dir,
		DownloadsFile: app.Downloads.Path(),
		SettingsFile:  app.Settings.Path(),
	}
}

// RunVersion cmd to print build info and where state is kept
func RunVersion(version, commit, date string) *cobra.Command {
	var output string

	var command = &cobra.Command{
		Use:     "version",
		Short:   "Print the version and state file locations",
		Example: `  idm version --output json`,
	}
	command.Flags().StringVar(&output, "output", "", "Print as [formatted text (default), json]")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		info := newVersionInfo(config.InitConfig(), version, commit, date)

		if output == "json" {
			res, err := json.Marshal(info)
			if err != nil {
				return errors.Wrap(err, "could not marshal version to json")
			}
			fmt.Println(string(res))
			return nil
		}

		fmt.Printf("Version:   %s\n", info.Version)
		fmt.Printf("Commit:    %s\n", info.Commit)
		fmt.Printf("Date:      %s\n", info.Date)
		fmt.Printf("Settings:  %s\n", info.SettingsDir)
		fmt.Printf("Downloads: %s\n", info.DownloadsFile)
		fmt.Printf("Config:    %s\n", info.SettingsFile)

		return nil
	}

	return command
}
