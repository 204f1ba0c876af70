package domain

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Status of a download as seen by the engine
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusPaused      Status = "paused"
	StatusMerging     Status = "merging"
	StatusError       Status = "error"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

// IsActive returns true while the engine owns the download
func (s Status) IsActive() bool {
	return s == StatusDownloading || s == StatusMerging
}

// IsFinished returns true for the only states a download can have right after a load
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Download types
const (
	TypeGeneral = "general"
	TypeVideo   = "video"
	TypeAudio   = "audio"
	TypeTorrent = "torrent"
)

const (
	// Unknown is the value of a speed or time left that has no live measurement.
	Unknown int64 = -1

	// UnknownDisplay is how Unknown is rendered, older files store it verbatim.
	UnknownDisplay = "---"

	DefaultMaxConnections = 10
)

// Queue is the handle the download engine attaches to a running download.
type Queue interface {
	Put(command string)
}

// Download is the persisted state of one download task
type Download struct {
	ID           string
	URL          string
	EffectiveURL string
	Name         string
	Folder       string
	Type         string
	Size         int64 // bytes, 0 if unknown
	Downloaded   int64 // bytes
	Resumable    bool
	Progress     float64 // 0 to 100
	Status       Status
	AudioURL     string
	AudioSize    int64
	ThumbnailURL string
	InfoHash     string
	AddedOn      int64 // unix seconds

	MaxConnections int

	// session only
	Speed           int64 // bytes per second or Unknown
	TimeLeft        int64 // seconds or Unknown
	LiveConnections int
	Queue           Queue
}

// NewDownload returns a download with every field at its default.
func NewDownload() *Download {
	return &Download{
		Type:           TypeGeneral,
		Status:         StatusCancelled,
		Speed:          Unknown,
		TimeLeft:       Unknown,
		MaxConnections: DefaultMaxConnections,
	}
}

// Reconcile resets the fields that only make sense while the engine runs the
// download. Status is derived from progress and nothing else.
func (d *Download) Reconcile() {
	if d.Progress >= 100 {
		d.Status = StatusCompleted
	} else {
		d.Status = StatusCancelled
	}

	d.Speed = Unknown
	d.TimeLeft = Unknown
	d.LiveConnections = 0
	d.Queue = nil
}

func (d *Download) SpeedString() string {
	if d.Speed < 0 {
		return UnknownDisplay
	}
	return humanize.Bytes(uint64(d.Speed)) + "/s"
}

func (d *Download) TimeLeftString() string {
	if d.TimeLeft < 0 {
		return UnknownDisplay
	}

	left := time.Duration(d.TimeLeft) * time.Second
	hours := int(left.Hours())
	minutes := int(left.Minutes()) % 60
	seconds := int(left.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// DisplayName returns name, falling back to the url
func (d *Download) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.URL
}
