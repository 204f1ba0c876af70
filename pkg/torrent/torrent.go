package torrent

import (
	"os"
	"strings"
	"time"

	"github.com/idmgo/idm/internal/domain"

	"github.com/anacrolix/torrent/metainfo"
	"github.com/pkg/errors"
	"github.com/zeebo/bencode"
)

// TorrentInfo torrent meta info
type TorrentInfo struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list"`
	CreatedBy    string     `bencode:"created by"`
	CreationDate int64      `bencode:"creation date"`
	Info         struct {
		Length      int64             `bencode:"length"`
		Name        string            `bencode:"name"`
		PieceLength int64             `bencode:"piece length"`
		Pieces      string            `bencode:"pieces"`
		Private     bool              `bencode:"private"`
		Files       []TorrentInfoFile `bencode:"files"`
	} `bencode:"info"`
	UrlList []string `bencode:"url-list"`
}

type TorrentInfoFile struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

func Decode(path string) (*TorrentInfo, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var torrent TorrentInfo
	if err := bencode.DecodeBytes(dat, &torrent); err != nil {
		return nil, err
	}

	return &torrent, nil
}

// TotalLength is the size of a single file torrent or the sum of all files.
func (t *TorrentInfo) TotalLength() int64 {
	if len(t.Info.Files) == 0 {
		return t.Info.Length
	}

	var total int64
	for _, f := range t.Info.Files {
		total += f.Length
	}
	return total
}

// Trackers returns announce urls without duplicates, primary tracker first.
func (t *TorrentInfo) Trackers() []string {
	seen := map[string]struct{}{}
	var trackers []string

	add := func(tr string) {
		if tr == "" {
			return
		}
		if _, ok := seen[tr]; ok {
			return
		}
		seen[tr] = struct{}{}
		trackers = append(trackers, tr)
	}

	add(t.Announce)
	for _, tier := range t.AnnounceList {
		for _, tr := range tier {
			add(tr)
		}
	}

	return trackers
}

// IsMagnet reports whether s is a magnet URI
func IsMagnet(s string) bool {
	return strings.HasPrefix(s, "magnet:")
}

// DownloadFromFile creates a download record for a .torrent file. The record
// url is a magnet link so it does not depend on the file staying around.
func DownloadFromFile(path string) (*domain.Download, error) {
	info, err := Decode(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode torrent file: %s", path)
	}

	mi, err := metainfo.LoadFromFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse torrent file: %s", path)
	}

	hash := mi.HashInfoBytes()

	magnet := metainfo.Magnet{
		InfoHash:    hash,
		DisplayName: info.Info.Name,
		Trackers:    info.Trackers(),
	}

	d := newTorrentDownload()
	d.URL = magnet.String()
	d.Name = info.Info.Name
	d.Size = info.TotalLength()
	d.InfoHash = hash.HexString()

	return d, nil
}

// DownloadFromMagnet creates a download record for a magnet URI.
func DownloadFromMagnet(uri string) (*domain.Download, error) {
	magnet, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse magnet URI: %s", uri)
	}

	if magnet.InfoHash == (metainfo.Hash{}) {
		return nil, errors.Errorf("magnet URI has no info hash: %s", uri)
	}

	d := newTorrentDownload()
	d.URL = uri
	d.Name = magnet.DisplayName
	d.InfoHash = magnet.InfoHash.HexString()

	return d, nil
}

func newTorrentDownload() *domain.Download {
	d := domain.NewDownload()
	d.Type = domain.TypeTorrent
	d.Status = domain.StatusPending
	d.AddedOn = time.Now().Unix()
	return d
}
