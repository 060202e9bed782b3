package store

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/pkg/debrid"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	"github.com/dylanmazurek/torbox-go/pkg/torbox"
)

var fileContents = map[string][]byte{
	"1": []byte("first file body"),
	"2": []byte("second, somewhat longer, file body"),
}

// fakeDebrid reports the torrent as downloading once, then downloaded.
type fakeDebrid struct {
	cdn string

	mu        sync.Mutex
	checks    int
	submitErr error
	failHash  string
	slots     int
	deleted   []string
}

var _ models.Client = (*fakeDebrid)(nil)

func (f *fakeDebrid) ClientOptions() models.ClientOptions {
	return models.ClientOptions{
		Name:              "fake",
		DownloadingStatus: []string{models.StatusDownloading},
	}
}

func (f *fakeDebrid) Logger() zerolog.Logger { return zerolog.Nop() }

func (f *fakeDebrid) GetAccounts() *models.Accounts {
	return models.NewAccounts(config.Debrid{Name: "fake"})
}

func (f *fakeDebrid) GetProfile(context.Context) (*models.Profile, error) {
	return &models.Profile{Name: "fake"}, nil
}

func (f *fakeDebrid) GetAvailableSlots(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.slots, nil
}

func (f *fakeDebrid) GetTorrent(_ context.Context, id string) (*models.DebridTorrent, error) {
	return &models.DebridTorrent{Id: id}, nil
}

func (f *fakeDebrid) GetTorrents(context.Context) ([]*models.DebridTorrent, error) {
	return nil, nil
}

func (f *fakeDebrid) SubmitMagnet(_ context.Context, tr *models.DebridTorrent) (*models.DebridTorrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.failHash != "" && tr.InfoHash == f.failHash {
		return nil, assert.AnError
	}

	tr.Id = "77"
	tr.Debrid = "fake"
	return tr, nil
}

func (f *fakeDebrid) UpdateTorrent(context.Context, *models.DebridTorrent) error { return nil }

func (f *fakeDebrid) DeleteTorrent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDebrid) CheckStatus(_ context.Context, tr *models.DebridTorrent) (*models.DebridTorrent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.checks++
	tr.Name = "Movie"
	tr.OriginalFilename = "Movie"
	tr.Bytes = int64(len(fileContents["1"]) + len(fileContents["2"]))

	if f.checks == 1 {
		tr.Status = models.StatusDownloading
		tr.Progress = 50
		return tr, nil
	}

	tr.Status = models.StatusDownloaded
	tr.Progress = 100
	tr.Files = map[string]models.File{
		"a.mkv": {TorrentId: tr.Id, Id: "1", Name: "a.mkv", Path: "Movie/a.mkv", Size: int64(len(fileContents["1"]))},
		"b.mkv": {TorrentId: tr.Id, Id: "2", Name: "b.mkv", Path: "Movie/Extras/b.mkv", Size: int64(len(fileContents["2"]))},
	}
	return tr, nil
}

func (f *fakeDebrid) GetTorrentAvailable(context.Context, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (f *fakeDebrid) GetDownloadLink(_ context.Context, _ *models.DebridTorrent, file *models.File) (*models.DownloadLink, error) {
	return &models.DownloadLink{
		Id:           file.Id,
		DownloadLink: f.cdn + "/" + file.Id,
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeDebrid) GetFileDownloadLinks(ctx context.Context, tr *models.DebridTorrent) error {
	for name, file := range tr.Files {
		link, err := f.GetDownloadLink(ctx, tr, &file)
		if err != nil {
			return err
		}
		file.DownloadLink = link
		tr.Files[name] = file
	}

	return nil
}

func newCDN(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/")
		data, ok := fileContents[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, id+".mkv", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestStore(t *testing.T) (*Store, *fakeDebrid) {
	t.Helper()

	cdn := newCDN(t)
	fake := &fakeDebrid{cdn: cdn.URL, slots: 1}

	storage := debrid.NewStorage(&config.Config{})
	storage.Add("fake", fake)

	s := New(storage, &config.Config{
		Download: config.Download{
			Path:            t.TempDir(),
			Action:          ActionDownload,
			MaxConcurrent:   2,
			PollInterval:    10 * time.Millisecond,
			MaxPollInterval: 20 * time.Millisecond,
			Timeout:         30 * time.Second,
		},
	})

	return s, fake
}

func testMagnet(t *testing.T) *models.Magnet {
	t.Helper()

	m, err := models.ParseMagnet("magnet:?xt=urn:btih:08ada5a7a6183aae1e09d831df6748d566095a10&dn=Movie")
	require.NoError(t, err)

	return m
}

func TestAddTorrentDownloadsFiles(t *testing.T) {
	s, fake := newTestStore(t)

	torrent, err := s.AddTorrent(context.Background(), &ImportRequest{
		Magnet:           testMagnet(t),
		DownloadUncached: true,
		Cleanup:          true,
	})
	require.NoError(t, err)

	assert.Equal(t, StatePausedUP, torrent.State)
	assert.True(t, torrent.IsReady())
	assert.Equal(t, "77", torrent.DebridID)
	assert.Equal(t, "fake", torrent.Debrid)
	assert.Len(t, torrent.Files, 2)
	assert.Equal(t, 2, fake.checks)

	for id, path := range map[string]string{"1": "Movie/a.mkv", "2": "Movie/Extras/b.mkv"} {
		data, err := os.ReadFile(filepath.Join(torrent.SavePath, filepath.FromSlash(path)))
		require.NoError(t, err)
		assert.Equal(t, fileContents[id], data)
	}

	assert.Equal(t, filepath.Join(torrent.SavePath, "Movie"), torrent.TorrentPath)
	assert.Equal(t, []string{"77"}, fake.deleted, "cleanup removes the torrent from the debrid")

	stored, ok := s.Torrents().Get(torrent.InfoHash)
	require.True(t, ok)
	assert.Equal(t, StatePausedUP, stored.State)
}

func TestAddTorrentActionNone(t *testing.T) {
	s, fake := newTestStore(t)

	torrent, err := s.AddTorrent(context.Background(), &ImportRequest{
		Magnet:           testMagnet(t),
		Action:           ActionNone,
		DownloadUncached: true,
	})
	require.NoError(t, err)

	assert.Equal(t, StatePausedUP, torrent.State)
	assert.Empty(t, torrent.TorrentPath)
	assert.Empty(t, fake.deleted)
}

func TestAddTorrentQueuesOnActiveLimit(t *testing.T) {
	s, fake := newTestStore(t)
	fake.submitErr = &torbox.APIError{StatusCode: http.StatusForbidden, ErrorCode: "ACTIVE_LIMIT"}
	fake.slots = 0

	torrent, err := s.AddTorrent(context.Background(), &ImportRequest{
		Magnet:           testMagnet(t),
		Action:           ActionNone,
		DownloadUncached: true,
	})
	require.NoError(t, err)
	assert.Equal(t, StateQueued, torrent.State)
	assert.Equal(t, 1, s.QueueLen())

	processed, err := s.ProcessQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed, "no slot is free")
	assert.Equal(t, 1, s.QueueLen())

	fake.mu.Lock()
	fake.submitErr = nil
	fake.slots = 1
	fake.mu.Unlock()

	processed, err = s.ProcessQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, s.QueueLen())

	stored, ok := s.Torrents().Get(torrent.InfoHash)
	require.True(t, ok)
	assert.Equal(t, StatePausedUP, stored.State)
}

func TestProcessQueueSkipsFailedRequest(t *testing.T) {
	s, fake := newTestStore(t)
	fake.submitErr = &torbox.APIError{StatusCode: http.StatusForbidden, ErrorCode: "too_many_active_downloads"}

	first := testMagnet(t)
	second, err := models.ParseMagnet("magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a&dn=Show")
	require.NoError(t, err)

	for _, m := range []*models.Magnet{first, second} {
		torrent, err := s.AddTorrent(context.Background(), &ImportRequest{
			Magnet:           m,
			Action:           ActionNone,
			DownloadUncached: true,
		})
		require.NoError(t, err)
		require.Equal(t, StateQueued, torrent.State)
	}
	require.Equal(t, 2, s.QueueLen())

	fake.mu.Lock()
	fake.submitErr = nil
	fake.failHash = first.InfoHash
	fake.mu.Unlock()

	processed, err := s.ProcessQueue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 0, s.QueueLen())

	failed, ok := s.Torrents().Get(first.InfoHash)
	require.True(t, ok)
	assert.Equal(t, StateError, failed.State)

	added, ok := s.Torrents().Get(second.InfoHash)
	require.True(t, ok)
	assert.Equal(t, StatePausedUP, added.State)
}

func TestAddTorrentFailure(t *testing.T) {
	s, fake := newTestStore(t)
	fake.submitErr = assert.AnError

	torrent, err := s.AddTorrent(context.Background(), &ImportRequest{Magnet: testMagnet(t)})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StateError, torrent.State)
	assert.NotEmpty(t, torrent.FailReason)
}

func TestAddTorrentCancelledWhilePolling(t *testing.T) {
	s, fake := newTestStore(t)
	s.refreshInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	torrent, err := s.AddTorrent(ctx, &ImportRequest{Magnet: testMagnet(t), DownloadUncached: true})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateError, torrent.State)
	assert.Equal(t, []string{"77"}, fake.deleted)
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()

	p, err := safeJoin(root, "Movie/a.mkv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Movie", "a.mkv"), p)

	_, err = safeJoin(root, "../../etc/passwd")
	assert.Error(t, err)
}

func TestTorrentStorageList(t *testing.T) {
	ts := NewTorrentStorage()
	ts.AddOrUpdate(&Torrent{InfoHash: "b", Name: "b", AddedOn: 2})
	ts.AddOrUpdate(&Torrent{InfoHash: "a", Name: "a", AddedOn: 1})

	list := ts.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].InfoHash)

	ts.Delete("a")
	_, ok := ts.Get("a")
	assert.False(t, ok)
}
