package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/idmgo/idm/internal/config"
	"github.com/idmgo/idm/internal/domain"
	"github.com/idmgo/idm/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunList cmd to list downloads
func RunList() *cobra.Command {
	var (
		status string
		hashes []string
		output string
		strict bool
	)

	var command = &cobra.Command{
		Use:     "list",
		Short:   "List downloads",
		Long:    `List all saved downloads, or downloads with a specific status or info hash.`,
		Example: `  idm list --status completed`,
	}
	command.Flags().StringVar(&output, "output", "", "Print as [formatted text (default), json]")
	command.Flags().StringVarP(&status, "status", "s", "", "Filter by status. Available filters: completed, cancelled")
	command.Flags().StringSliceVar(&hashes, "hashes", []string{}, "Filter torrents by info hash. Separated by comma: \"hash1,hash2\".")
	command.Flags().BoolVar(&strict, "strict", false, "Fail on an unreadable download list instead of showing it empty")

	command.RunE = func(cmd *cobra.Command, args []string) error {
		if len(hashes) > 0 {
			if err := utils.ValidateHash(hashes); err != nil {
				return errors.Wrap(err, "could not filter by hash")
			}
		}

		app := config.InitConfig()

		var downloads []*domain.Download
		if strict {
			var err error
			if downloads, err = app.Downloads.ReadForUpdate(); err != nil {
				return errors.Wrap(err, "could not read download list")
			}
		} else {
			downloads = app.Downloads.Load()
		}

		downloads = filterDownloads(downloads, domain.Status(strings.ToLower(status)), hashes)

		if len(downloads) == 0 {
			fmt.Println("No downloads found")
			return nil
		}

		switch output {
		case "json":
			res, err := json.Marshal(listItems(downloads))
			if err != nil {
				return errors.Wrap(err, "could not marshal downloads to json")
			}
			fmt.Println(string(res))

		default:
			if err := printList(downloads); err != nil {
				return err
			}
		}

		return nil
	}

	return command
}

func filterDownloads(downloads []*domain.Download, status domain.Status, hashes []string) []*domain.Download {
	wanted := map[string]struct{}{}
	for _, h := range hashes {
		wanted[strings.ToLower(h)] = struct{}{}
	}

	var filtered []*domain.Download
	for _, d := range downloads {
		if status != "" && d.Status != status {
			continue
		}

		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(d.InfoHash)]; !ok {
				continue
			}
		}

		filtered = append(filtered, d)
	}

	return filtered
}

var downloadItemTemplate = `{{ range .}}
[*] {{.Name}}
    ID: {{.ID}} Status: {{.Status}} Type: {{.Type}}
    Progress: {{.Progress}} Downloaded: {{.Downloaded}} / {{.Size}}
    Speed: {{.Speed}} Time left: {{.TimeLeft}} Added: {{.Added}}
    URL: {{.URL}}
    Folder: {{.Folder}}
{{end}}
`

type ItemData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	Progress   string `json:"progress"`
	Downloaded string `json:"downloaded"`
	Size       string `json:"size"`
	Speed      string `json:"speed"`
	TimeLeft   string `json:"time_left"`
	Added      string `json:"added"`
	URL        string `json:"url"`
	Folder     string `json:"folder"`
}

func listItems(downloads []*domain.Download) []ItemData {
	data := make([]ItemData, 0, len(downloads))

	for _, d := range downloads {
		size := domain.UnknownDisplay
		if d.Size > 0 {
			size = humanize.Bytes(uint64(d.Size))
		}

		downloaded := humanize.Bytes(0)
		if d.Downloaded > 0 {
			downloaded = humanize.Bytes(uint64(d.Downloaded))
		}

		added := domain.UnknownDisplay
		if d.AddedOn > 0 {
			added = humanize.Time(time.Unix(d.AddedOn, 0))
		}

		data = append(data, ItemData{
			ID:         d.ID,
			Name:       d.DisplayName(),
			Status:     d.Status.String(),
			Type:       d.Type,
			Progress:   fmt.Sprintf("%.1f%%", d.Progress),
			Downloaded: downloaded,
			Size:       size,
			Speed:      d.SpeedString(),
			TimeLeft:   d.TimeLeftString(),
			Added:      added,
			URL:        d.URL,
			Folder:     d.Folder,
		})
	}

	return data
}

func printList(downloads []*domain.Download) error {
	tmpl, err := template.New("item").Parse(downloadItemTemplate)
	if err != nil {
		return errors.Wrap(err, "could not parse list template")
	}

	if err := tmpl.Execute(os.Stdout, listItems(downloads)); err != nil {
		return errors.Wrap(err, "could not print downloads")
	}

	return nil
}
