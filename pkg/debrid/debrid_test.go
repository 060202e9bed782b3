package debrid

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
)

// stubClient accepts or rejects submissions without any network.
type stubClient struct {
	name      string
	submitErr error
	statusErr error
	uncached  bool

	mu        sync.Mutex
	submitted []*models.DebridTorrent
	deleted   []string
	accounts  *models.Accounts
}

var _ models.Client = (*stubClient)(nil)

func newStub(name string) *stubClient {
	return &stubClient{name: name, accounts: models.NewAccounts(config.Debrid{Name: name})}
}

func (s *stubClient) ClientOptions() models.ClientOptions {
	return models.ClientOptions{Name: s.name, DownloadUncached: s.uncached}
}

func (s *stubClient) Logger() zerolog.Logger { return zerolog.Nop() }
func (s *stubClient) GetAccounts() *models.Accounts { return s.accounts }
func (s *stubClient) GetAvailableSlots(context.Context) (int, error) { return 1, nil }

func (s *stubClient) GetProfile(context.Context) (*models.Profile, error) {
	return &models.Profile{Name: s.name}, nil
}

func (s *stubClient) GetTorrent(_ context.Context, id string) (*models.DebridTorrent, error) {
	return &models.DebridTorrent{Id: id, Debrid: s.name}, nil
}

func (s *stubClient) GetTorrents(context.Context) ([]*models.DebridTorrent, error) {
	return nil, nil
}

func (s *stubClient) SubmitMagnet(_ context.Context, tr *models.DebridTorrent) (*models.DebridTorrent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitted = append(s.submitted, tr)
	if s.submitErr != nil {
		return nil, s.submitErr
	}

	tr.Id = "1"
	tr.Debrid = s.name
	return tr, nil
}

func (s *stubClient) UpdateTorrent(context.Context, *models.DebridTorrent) error { return nil }

func (s *stubClient) DeleteTorrent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubClient) CheckStatus(_ context.Context, tr *models.DebridTorrent) (*models.DebridTorrent, error) {
	if s.statusErr != nil {
		return tr, s.statusErr
	}

	tr.Status = models.StatusDownloaded
	return tr, nil
}

func (s *stubClient) GetTorrentAvailable(context.Context, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (s *stubClient) GetDownloadLink(context.Context, *models.DebridTorrent, *models.File) (*models.DownloadLink, error) {
	return nil, models.ErrNoData
}

func (s *stubClient) GetFileDownloadLinks(context.Context, *models.DebridTorrent) error {
	return nil
}

func testMagnet(t *testing.T) *models.Magnet {
	t.Helper()

	m, err := models.ParseMagnet("magnet:?xt=urn:btih:08ada5a7a6183aae1e09d831df6748d566095a10&dn=Sintel")
	require.NoError(t, err)

	return m
}

func TestProcessFallsBackToNextClient(t *testing.T) {
	first := newStub("first")
	first.statusErr = models.ErrNotCached
	second := newStub("second")

	store := &Storage{clients: map[string]models.Client{}}
	store.Add("first", first)
	store.Add("second", second)

	torrent, err := Process(context.Background(), store, "", testMagnet(t), false)
	require.NoError(t, err)
	assert.Equal(t, "second", torrent.Debrid)
	assert.Equal(t, models.StatusDownloaded, torrent.Status)
	assert.Equal(t, "second", store.LastUsed())

	assert.Equal(t, []string{"1"}, first.deleted, "failed torrent is removed")
	assert.Empty(t, second.deleted)
}

func TestProcessSelectedDebrid(t *testing.T) {
	first := newStub("first")
	second := newStub("second")

	store := &Storage{clients: map[string]models.Client{}}
	store.Add("first", first)
	store.Add("second", second)

	torrent, err := Process(context.Background(), store, "second", testMagnet(t), true)
	require.NoError(t, err)
	assert.Equal(t, "second", torrent.Debrid)
	assert.Empty(t, first.submitted)
	require.Len(t, second.submitted, 1)
	assert.True(t, second.submitted[0].DownloadUncached)
}

func TestProcessJoinsErrors(t *testing.T) {
	boom := errors.New("boom")

	first := newStub("first")
	first.submitErr = boom
	second := newStub("second")
	second.statusErr = models.ErrNotCached

	store := &Storage{clients: map[string]models.Client{}}
	store.Add("first", first)
	store.Add("second", second)

	_, err := Process(context.Background(), store, "", testMagnet(t), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, models.ErrNotCached)
	assert.Contains(t, err.Error(), "failed to process torrent")
}

func TestProcessNoClients(t *testing.T) {
	store := &Storage{clients: map[string]models.Client{}}

	_, err := Process(context.Background(), store, "missing", testMagnet(t), false)
	require.Error(t, err)
}

func TestStorageFromConfig(t *testing.T) {
	cfg := &config.Config{
		Debrids: []config.Debrid{
			{Name: "main", APIKey: "a"},
			{Name: "broken"},
			{Name: "backup", APIKey: "b"},
		},
	}

	store := NewStorage(cfg)

	clients := store.Clients()
	assert.Len(t, clients, 2)
	assert.NotNil(t, store.Client("main"))
	assert.Nil(t, store.Client("broken"))

	ordered := store.FilterClients(func(string, models.Client) bool { return true })
	require.Len(t, ordered, 2)
	assert.Equal(t, "main", ordered[0].ClientOptions().Name)
	assert.Equal(t, "backup", ordered[1].ClientOptions().Name)

	store.Reset()
	assert.Empty(t, store.Clients())
}
