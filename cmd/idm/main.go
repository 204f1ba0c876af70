package main

import (
	"log"
	"os"

	"github.com/idmgo/idm/cmd"
	"github.com/idmgo/idm/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	log.SetFlags(0)

	var rootCmd = &cobra.Command{
		Use:   "idm",
		Short: "Manage saved downloads and settings",
		Long: `Manage the download list and settings of idm from the command line.

State is kept in downloads.cfg and setting.cfg inside the settings directory.`,
	}

	// override settings directory
	rootCmd.PersistentFlags().String(config.KeyDir, "", "settings directory (default is the OS specific directory, e.g. $HOME/.config/idm)")
	rootCmd.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "verbose output")

	viper.BindPFlag(config.KeyDir, rootCmd.PersistentFlags().Lookup(config.KeyDir))
	viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup(config.KeyVerbose))

	viper.SetEnvPrefix("IDM")
	viper.BindEnv(config.KeyDir)

	rootCmd.AddCommand(cmd.RunVersion(version, commit, date))
	rootCmd.AddCommand(cmd.RunList())
	rootCmd.AddCommand(cmd.RunAdd())
	rootCmd.AddCommand(cmd.RunRemove())
	rootCmd.AddCommand(cmd.RunSettings())
	rootCmd.AddCommand(cmd.RunExport())
	rootCmd.AddCommand(cmd.RunUpdate(version))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
