package store

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/idmgo/idm/internal/codec"
	"github.com/idmgo/idm/internal/domain"
	"github.com/idmgo/idm/internal/logger"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ListStore persists the download list to downloads.cfg
type ListStore struct {
	fs   afero.Fs
	dir  string
	path string
}

func NewListStore(fs afero.Fs, dir string) *ListStore {
	return &ListStore{
		fs:   fs,
		dir:  dir,
		path: filepath.Join(dir, DownloadsFile),
	}
}

func (s *ListStore) Path() string {
	return s.path
}

// Load returns the saved downloads, reconciled for a fresh session. It never
// fails, any problem is logged and yields an empty list.
func (s *ListStore) Load() []*domain.Download {
	logger.Info("Load previous download items from %s", s.dir)

	downloads, err := s.ReadRecords()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Info("%s file not found", DownloadsFile)
		} else {
			logger.HandleError("load download list", err)
		}
		return []*domain.Download{}
	}

	return downloads
}

// ReadRecords decodes the list file. Entries that are not objects or that
// fail conversion are skipped, the remaining order is kept.
func (s *ListStore) ReadRecords() ([]*domain.Download, error) {
	data, err := readFile(s.fs, s.path)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(data)
	if err != nil {
		return nil, &DecodeError{Path: s.path, Err: err}
	}

	downloads := make([]*domain.Download, 0, len(entries))

	for i, entry := range entries {
		record, ok := entry.(map[string]interface{})
		if !ok {
			logger.Warn("skip download entry %d: expected an object, got %T", i, entry)
			continue
		}

		d, err := codec.FromRecord(record)
		if err != nil {
			logger.Warn("skip download entry %d: %v", i, err)
			continue
		}

		downloads = append(downloads, d)
	}

	for _, d := range downloads {
		d.Reconcile()
	}

	logger.Debug("loaded %d of %d download entries", len(downloads), len(entries))

	return downloads, nil
}

// ReadForUpdate returns the saved downloads for a read-modify-write. A missing
// file is an empty list, any other error is returned so the caller does not
// overwrite a file it could not read.
func (s *ListStore) ReadForUpdate() ([]*domain.Download, error) {
	downloads, err := s.ReadRecords()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*domain.Download{}, nil
		}
		return nil, err
	}
	return downloads, nil
}

// decodeEntries keeps numbers as json.Number so byte counts above 2^53 survive.
func decodeEntries(data []byte) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entries []interface{}
	if err := dec.Decode(&entries); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after download list")
	}

	return entries, nil
}

// Save writes downloads to the list file. Errors are logged, never returned.
func (s *ListStore) Save(downloads []*domain.Download) {
	if err := s.WriteRecords(downloads); err != nil {
		logger.HandleError("save download list", err)
		return
	}

	logger.Info("list saved")
}

// WriteRecords encodes the whole list before touching the file, so a
// failure leaves the previous file in place.
func (s *ListStore) WriteRecords(downloads []*domain.Download) error {
	records := make([]codec.Record, 0, len(downloads))

	for _, d := range downloads {
		if d == nil {
			continue
		}

		d.Queue = nil
		records = append(records, codec.ToRecord(d))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode download list")
	}

	return writeFile(s.fs, s.path, data)
}
