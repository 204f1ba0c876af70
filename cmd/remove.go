package cmd

import (
	"log"
	"strings"

	"github.com/idmgo/idm/internal/config"
	"github.com/idmgo/idm/internal/domain"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunRemove cmd to remove downloads
func RunRemove() *cobra.Command {
	var (
		removeAll bool
		completed bool
		dry       bool
	)

	var command = &cobra.Command{
		Use:   "remove",
		Short: "Removes specified downloads",
		Long:  `Removes downloads from the list by id or by a prefix of the id. Downloaded files are left in place.`,
		Example: `  idm remove 3f1c2a
  idm remove --completed`,
	}

	command.Flags().BoolVar(&removeAll, "all", false, "Removes all downloads")
	command.Flags().BoolVar(&completed, "completed", false, "Removes all completed downloads")
	command.Flags().BoolVar(&dry, "dry-run", false, "Run without doing anything")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		if !removeAll && !completed && len(args) < 1 {
			return errors.New("please provide at least one download id as an argument")
		}

		app := config.InitConfig()

		downloads, err := app.Downloads.ReadForUpdate()
		if err != nil {
			return errors.Wrap(err, "could not read download list, leaving it untouched")
		}

		kept, removed := removeDownloads(downloads, args, removeAll, completed)

		if len(removed) == 0 {
			log.Println("No matching downloads found")
			return nil
		}

		for _, d := range removed {
			if dry {
				log.Printf("dry-run: remove %s (%s)\n", d.DisplayName(), d.ID)
			} else {
				log.Printf("Remove %s (%s)\n", d.DisplayName(), d.ID)
			}
		}

		if dry {
			return nil
		}

		if err := app.Downloads.WriteRecords(kept); err != nil {
			return errors.Wrap(err, "could not save download list")
		}

		log.Printf("Removed (%d) downloads\n", len(removed))

		return nil
	}

	return command
}

// removeDownloads splits downloads into the ones to keep and the ones that
// match an id prefix, or every one when all is set.
func removeDownloads(downloads []*domain.Download, prefixes []string, all, completed bool) (kept, removed []*domain.Download) {
	for _, d := range downloads {
		if all || (completed && d.Status == domain.StatusCompleted) || matchesPrefix(d.ID, prefixes) {
			removed = append(removed, d)
			continue
		}
		kept = append(kept, d)
	}

	return kept, removed
}

func matchesPrefix(id string, prefixes []string) bool {
	if id == "" {
		return false
	}

	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(strings.ToLower(id), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}
