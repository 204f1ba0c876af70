package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/idmgo/idm/internal/config"
	"github.com/idmgo/idm/pkg/archive"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunExport cmd to back up the settings directory
func RunExport() *cobra.Command {
	var command = &cobra.Command{
		Use:     "export",
		Aliases: []string{"backup"},
		Short:   "Export settings and download list",
		Long:    "Export the settings directory, including downloads.cfg and setting.cfg, to a tar.gz archive",
		Example: `  idm export --output ~/idm-backup.tar.gz`,
	}

	var (
		dry    bool
		output string
	)

	command.Flags().BoolVar(&dry, "dry-run", false, "dry run")
	command.Flags().StringVarP(&output, "output", "o", "", "Archive to write (default idm-backup-<date>.tar.gz in the working directory)")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		app := config.InitConfig()

		if output == "" {
			output = fmt.Sprintf("idm-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
		}

		if !strings.HasSuffix(output, ".tar.gz") && !strings.HasSuffix(output, ".tgz") {
			output += ".tar.gz"
		}

		if isInside(app.Dir, output) {
			return errors.Errorf("archive can not be written inside the settings directory: %s", app.Dir)
		}

		if dry {
			log.Printf("dry-run: export %s to %s\n", app.Dir, output)
			return nil
		}

		if err := archive.TarGzDirectory(cmd.Context(), app.Dir, output); err != nil {
			return errors.Wrapf(err, "could not export %s", app.Dir)
		}

		log.Printf("Successfully exported %s to %s\n", app.Dir, output)

		return nil
	}

	return command
}

func isInside(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
