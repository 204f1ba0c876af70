package cmd

import (
	"log"

	"github.com/idmgo/idm/internal/config"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
)

const repoSlug = "idmgo/idm"

func RunUpdate(version string) *cobra.Command {
	var command = &cobra.Command{
		Use:          "update",
		Short:        "Update idm to latest version",
		Long:         "Update idm to the latest release. Does nothing when check_for_update_on_startup is disabled, unless --force is given.",
		Example:      `  idm update`,
		SilenceUsage: false,
	}

	var (
		changelog bool
		check     bool
		force     bool
	)

	command.Flags().BoolVar(&changelog, "changelog", false, "Print changelog")
	command.Flags().BoolVar(&check, "check", false, "Only check if a newer version exists")
	command.Flags().BoolVar(&force, "force", false, "Ignore the check_for_update_on_startup setting")

	command.Run = func(cmd *cobra.Command, args []string) {
		if !force {
			app := config.InitConfig()
			if prefs := app.Settings.Load(); !prefs.CheckForUpdate {
				log.Println("Update check is disabled in settings, use --force to update anyway")
				return
			}
		}

		v, err := semver.ParseTolerant(version)
		if err != nil {
			log.Println("could not parse version:", err)
			return
		}

		if check {
			latest, found, err := selfupdate.DetectLatest(repoSlug)
			if err != nil {
				log.Println("Update check failed:", err)
				return
			}

			if !found || latest.Version.LTE(v) {
				log.Println("Current binary is the latest version", version)
				return
			}

			log.Println("New version available:", latest.Version)
			if changelog {
				log.Println("Release note:\n", latest.ReleaseNotes)
			}
			return
		}

		latest, err := selfupdate.UpdateSelf(v, repoSlug)
		if err != nil {
			log.Println("Binary update failed:", err)
			return
		}

		if latest.Version.Equals(v) {
			// latest version is the same as current version. It means current binary is up-to-date.
			log.Println("Current binary is the latest version", version)
		} else {
			log.Println("Successfully updated to version: ", latest.Version)

			if changelog {
				log.Println("Release note:\n", latest.ReleaseNotes)
			}
		}
	}

	return command
}
