package cmd

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/idmgo/idm/internal/config"
	"github.com/idmgo/idm/internal/domain"
	"github.com/idmgo/idm/pkg/torrent"
	"github.com/idmgo/idm/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunAdd cmd to add downloads
func RunAdd() *cobra.Command {
	var (
		dry    bool
		name   string
		folder string
	)

	var command = &cobra.Command{
		Use:   "add",
		Short: "Add download",
		Long:  `Add a new download to the list. Accepts an http(s)/ftp url, a magnet URI or a .torrent file.`,
		Example: `  idm add https://example.com/file.iso
  idm add ./ubuntu.torrent --folder ~/isos`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a url, magnet URI or torrent file as first argument")
			}

			if name != "" && len(args) > 1 {
				return errors.New("--name can only be used with a single download")
			}

			return nil
		},
	}
	command.Flags().BoolVar(&dry, "dry-run", false, "Run without doing anything")
	command.Flags().StringVar(&name, "name", "", "File name. Derived from the url by default")
	command.Flags().StringVar(&folder, "folder", "", "Destination folder. Uses the download folder setting by default")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		app := config.InitConfig()
		prefs := app.Settings.Load()

		var added []*domain.Download

		for _, source := range args {
			d, err := newDownload(source)
			if err != nil {
				return err
			}

			if name != "" {
				d.Name = name
			}

			d.Folder = prefs.DownloadFolder
			if folder != "" {
				d.Folder = folder
			}

			added = append(added, d)
		}

		if dry {
			for _, d := range added {
				log.Printf("dry-run: add %s to %s\n", d.DisplayName(), d.Folder)
			}
			return nil
		}

		downloads, err := app.Downloads.ReadForUpdate()
		if err != nil {
			return errors.Wrap(err, "could not read download list, leaving it untouched")
		}

		if err := app.Downloads.WriteRecords(append(downloads, added...)); err != nil {
			return errors.Wrap(err, "could not save download list")
		}

		for _, d := range added {
			fmt.Printf("Added %s (%s)\n", d.DisplayName(), d.ID)
		}

		return nil
	}

	return command
}

func newDownload(source string) (*domain.Download, error) {
	var (
		d   *domain.Download
		err error
	)

	switch {
	case torrent.IsMagnet(source):
		d, err = torrent.DownloadFromMagnet(source)

	case strings.HasSuffix(strings.ToLower(source), ".torrent") && !strings.Contains(source, "://"):
		d, err = torrent.DownloadFromFile(filepath.Clean(source))

	default:
		if err := utils.ValidateURL(source); err != nil {
			return nil, err
		}

		d = domain.NewDownload()
		d.URL = source
		d.EffectiveURL = source
		d.Name = utils.FileNameFromURL(source)
		d.Status = domain.StatusPending
		d.AddedOn = time.Now().Unix()
	}
	if err != nil {
		return nil, err
	}

	d.ID = uuid.NewString()

	return d, nil
}
