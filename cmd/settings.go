package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/idmgo/idm/internal/config"
	"github.com/idmgo/idm/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunSettings cmd for settings actions
func RunSettings() *cobra.Command {
	var command = &cobra.Command{
		Use:   "settings",
		Short: "Settings subcommand",
		Long:  `Show and change application settings`,
	}

	command.AddCommand(RunSettingsShow())
	command.AddCommand(RunSettingsGet())
	command.AddCommand(RunSettingsSet())
	command.AddCommand(RunSettingsReset())

	return command
}

// RunSettingsShow cmd to print all settings
func RunSettingsShow() *cobra.Command {
	var (
		output string
		strict bool
	)

	var command = &cobra.Command{
		Use:   "show",
		Short: "Show settings",
		Long:  `Show every setting with defaults filled in`,
	}
	command.Flags().StringVar(&output, "output", "", "Print as [formatted text (default), json]")
	command.Flags().BoolVar(&strict, "strict", false, "Fail on an unreadable settings file instead of showing defaults")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(config.InitConfig(), strict)
		if err != nil {
			return err
		}

		switch output {
		case "json":
			res, err := json.Marshal(prefs.Map())
			if err != nil {
				return errors.Wrap(err, "could not marshal settings to json")
			}
			fmt.Println(string(res))

		default:
			printSettings(prefs)
		}

		return nil
	}

	return command
}

func loadSettings(app *config.App, strict bool) (*domain.Preferences, error) {
	if !strict {
		return app.Settings.Load(), nil
	}

	prefs, err := app.Settings.ReadSettings()
	if err != nil {
		return nil, errors.Wrap(err, "could not read settings")
	}
	return prefs, nil
}

func printSettings(prefs *domain.Preferences) {
	values := prefs.Map()
	for _, key := range domain.PreferenceKeys {
		fmt.Printf("%-30s %v\n", key+":", values[key])
	}
}

// RunSettingsGet cmd to print one setting
func RunSettingsGet() *cobra.Command {
	var strict bool

	var command = &cobra.Command{
		Use:     "get",
		Short:   "Get setting",
		Example: `  idm settings get theme`,
		Args:    cobra.ExactArgs(1),
	}
	command.Flags().BoolVar(&strict, "strict", false, "Fail on an unreadable settings file instead of using defaults")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		prefs, err := loadSettings(config.InitConfig(), strict)
		if err != nil {
			return err
		}

		value, err := prefs.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Println(value)

		return nil
	}

	return command
}

// RunSettingsSet cmd to change one setting
func RunSettingsSet() *cobra.Command {
	var dry bool

	var command = &cobra.Command{
		Use:     "set",
		Short:   "Set setting",
		Example: `  idm settings set concurrent_downloads 5`,
		Args:    cobra.ExactArgs(2),
	}
	command.Flags().BoolVar(&dry, "dry-run", false, "Run without doing anything")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		app := config.InitConfig()

		prefs, err := app.Settings.ReadSettings()
		if err != nil {
			return errors.Wrap(err, "could not read settings, leaving them untouched")
		}

		if err := app.Settings.Set(prefs, key, value); err != nil {
			return err
		}

		if dry {
			log.Printf("dry-run: set %s to %s\n", domain.CanonicalKey(key), value)
			return nil
		}

		if err := app.Settings.WriteSettings(prefs); err != nil {
			return errors.Wrap(err, "could not save settings")
		}

		log.Printf("Set %s to %s\n", domain.CanonicalKey(key), value)

		return nil
	}

	return command
}

// RunSettingsReset cmd to restore defaults
func RunSettingsReset() *cobra.Command {
	var command = &cobra.Command{
		Use:   "reset",
		Short: "Reset settings",
		Long:  `Overwrite the settings file with the defaults`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		app := config.InitConfig()

		if err := app.Settings.WriteSettings(app.Settings.Defaults()); err != nil {
			return errors.Wrap(err, "could not save settings")
		}

		log.Println("Settings reset to defaults")

		return nil
	}

	return command
}
