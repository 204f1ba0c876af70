package store

import (
	"fmt"
	"math"
	"testing"

	"github.com/idmgo/idm/internal/domain"

	"github.com/magiconair/properties/assert"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const testDir = "/home/tester/.config/idm"

type fakeQueue struct{}

func (fakeQueue) Put(string) {}

func newDownloads(n int) []*domain.Download {
	downloads := make([]*domain.Download, 0, n)
	for i := 0; i < n; i++ {
		d := domain.NewDownload()
		d.ID = fmt.Sprintf("id-%d", i)
		d.URL = fmt.Sprintf("https://example.com/file-%d.bin", i)
		d.Name = fmt.Sprintf("file-%d.bin", i)
		d.Folder = "/data"
		d.Size = int64(1000 * (i + 1))
		d.Progress = float64(i * 50)
		d.Status = domain.StatusDownloading
		d.Speed = 512
		d.TimeLeft = 12
		d.LiveConnections = 3
		d.Queue = fakeQueue{}
		downloads = append(downloads, d)
	}
	return downloads
}

func TestListStore_LoadMissing(t *testing.T) {
	s := NewListStore(afero.NewMemMapFs(), testDir)

	downloads := s.Load()
	assert.Equal(t, downloads != nil, true)
	assert.Equal(t, len(downloads), 0)

	_, err := s.ReadRecords()
	assert.Equal(t, errors.Is(err, ErrNotFound), true)
}

func TestListStore_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3, 10} {
		t.Run(fmt.Sprintf("n_%d", n), func(t *testing.T) {
			s := NewListStore(afero.NewMemMapFs(), testDir)

			saved := newDownloads(n)
			s.Save(saved)

			for _, d := range saved {
				assert.Equal(t, d.Queue == nil, true)
			}

			loaded := s.Load()
			assert.Equal(t, len(loaded), n)

			for i, d := range loaded {
				want := saved[i]

				assert.Equal(t, d.ID, want.ID)
				assert.Equal(t, d.URL, want.URL)
				assert.Equal(t, d.Name, want.Name)
				assert.Equal(t, d.Folder, want.Folder)
				assert.Equal(t, d.Size, want.Size)
				assert.Equal(t, d.Progress, want.Progress)

				wantStatus := domain.StatusCancelled
				if want.Progress >= 100 {
					wantStatus = domain.StatusCompleted
				}
				assert.Equal(t, d.Status, wantStatus)

				assert.Equal(t, d.Speed, domain.Unknown)
				assert.Equal(t, d.TimeLeft, domain.Unknown)
				assert.Equal(t, d.LiveConnections, 0)
				assert.Equal(t, d.Queue == nil, true)
			}
		})
	}
}

func TestListStore_StatusFromProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress string
		want     domain.Status
	}{
		{name: "complete", progress: "100", want: domain.StatusCompleted},
		{name: "partial", progress: "37", want: domain.StatusCancelled},
		{name: "none", progress: "0", want: domain.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s := NewListStore(fs, testDir)

			data := `[{"url": "https://example.com/a", "progress": ` + tt.progress + `, "status": "downloading", "speed": 100, "time_left": 5, "live_connections": 2}]`
			if err := afero.WriteFile(fs, s.Path(), []byte(data), 0644); err != nil {
				t.Fatal(err)
			}

			loaded := s.Load()
			assert.Equal(t, len(loaded), 1)
			assert.Equal(t, loaded[0].Status, tt.want)
			assert.Equal(t, loaded[0].Speed, domain.Unknown)
			assert.Equal(t, loaded[0].TimeLeft, domain.Unknown)
			assert.Equal(t, loaded[0].LiveConnections, 0)
		})
	}
}

func TestListStore_SkipsMalformedEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewListStore(fs, testDir)

	data := `[
		{"id": "a", "url": "https://example.com/a", "progress": 100},
		{"id": "bad", "url": "https://example.com/bad", "progress": "lots"},
		{"id": "b", "url": "https://example.com/b", "progress": 10, "extra": {"nested": true}},
		42,
		{"id": "c", "url": "https://example.com/c"}
	]`
	if err := afero.WriteFile(fs, s.Path(), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	loaded := s.Load()
	assert.Equal(t, len(loaded), 3)
	assert.Equal(t, loaded[0].ID, "a")
	assert.Equal(t, loaded[1].ID, "b")
	assert.Equal(t, loaded[2].ID, "c")
	assert.Equal(t, loaded[0].Status, domain.StatusCompleted)
	assert.Equal(t, loaded[2].Status, domain.StatusCancelled)
}

func TestListStore_LoadMalformedFile(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "broken_json", data: `[{"id": "a"`},
		{name: "object", data: `{"id": "a"}`},
		{name: "empty", data: ``},
		{name: "string", data: `"downloads"`},
		{name: "trailing_comma", data: `[{"id": "a"}, {"id": "b"},]`},
		{name: "trailing_data", data: `[{"id": "a"}] [{"id": "b"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s := NewListStore(fs, testDir)
			if err := afero.WriteFile(fs, s.Path(), []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}

			loaded := s.Load()
			assert.Equal(t, loaded != nil, true)
			assert.Equal(t, len(loaded), 0)

			_, err := s.ReadRecords()
			var decodeErr *DecodeError
			assert.Equal(t, errors.As(err, &decodeErr), true)
		})
	}
}

func TestListStore_LoadNull(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewListStore(fs, testDir)
	if err := afero.WriteFile(fs, s.Path(), []byte("null"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded := s.Load()
	assert.Equal(t, loaded != nil, true)
	assert.Equal(t, len(loaded), 0)
}

func TestListStore_SaveEncodeFailureKeepsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewListStore(fs, testDir)

	s.Save(newDownloads(2))
	before, err := afero.ReadFile(fs, s.Path())
	if err != nil {
		t.Fatal(err)
	}

	broken := newDownloads(3)
	broken[1].Progress = math.NaN()

	err = s.WriteRecords(broken)
	assert.Equal(t, err != nil, true)

	s.Save(broken)

	after, err := afero.ReadFile(fs, s.Path())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(after), string(before))
	assert.Equal(t, len(s.Load()), 2)
}

func TestListStore_SaveReadOnly(t *testing.T) {
	s := NewListStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), testDir)

	s.Save(newDownloads(1))

	assert.Equal(t, s.WriteRecords(newDownloads(1)) != nil, true)
	assert.Equal(t, len(s.Load()), 0)
}

func TestListStore_SaveSkipsNil(t *testing.T) {
	s := NewListStore(afero.NewMemMapFs(), testDir)

	downloads := newDownloads(2)
	s.Save([]*domain.Download{downloads[0], nil, downloads[1]})

	loaded := s.Load()
	assert.Equal(t, len(loaded), 2)
	assert.Equal(t, loaded[1].ID, downloads[1].ID)
}

func TestListStore_SaveEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewListStore(fs, testDir)

	s.Save(nil)

	data, err := afero.ReadFile(fs, s.Path())
	assert.Equal(t, err, nil)
	assert.Equal(t, string(data), "[]")
	assert.Equal(t, len(s.Load()), 0)
}

func TestListStore_LargeNumbers(t *testing.T) {
	s := NewListStore(afero.NewMemMapFs(), testDir)

	d := domain.NewDownload()
	d.ID = "big"
	d.Size = 1<<60 + 1
	d.Downloaded = 1<<53 + 1
	d.AudioSize = 1<<62 + 7
	d.AddedOn = 1<<53 + 3

	s.Save([]*domain.Download{d})

	loaded := s.Load()
	assert.Equal(t, len(loaded), 1)
	assert.Equal(t, loaded[0].Size, int64(1<<60+1))
	assert.Equal(t, loaded[0].Downloaded, int64(1<<53+1))
	assert.Equal(t, loaded[0].AudioSize, int64(1<<62+7))
	assert.Equal(t, loaded[0].AddedOn, int64(1<<53+3))
}

func TestListStore_ReadForUpdate(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewListStore(fs, testDir)

	downloads, err := s.ReadForUpdate()
	assert.Equal(t, err, nil)
	assert.Equal(t, downloads != nil, true)
	assert.Equal(t, len(downloads), 0)

	s.Save(newDownloads(2))

	downloads, err = s.ReadForUpdate()
	assert.Equal(t, err, nil)
	assert.Equal(t, len(downloads), 2)

	if err := afero.WriteFile(fs, s.Path(), []byte(`[{"id": "a"},]`), 0644); err != nil {
		t.Fatal(err)
	}

	downloads, err = s.ReadForUpdate()
	assert.Equal(t, downloads == nil, true)

	var decodeErr *DecodeError
	assert.Equal(t, errors.As(err, &decodeErr), true)
}
