package store

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/rs/zerolog"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/internal/logger"
	"github.com/dylanmazurek/torbox-go/pkg/debrid"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
)

const (
	StateQueued      = "queued"
	StateDownloading = "downloading"
	StatePausedUP    = "pausedUP"
	StateError       = "error"
)

const (
	ActionDownload = "download"
	ActionNone     = "none"
)

// Torrent is the local view of one import.
type Torrent struct {
	InfoHash    string
	Name        string
	State       string
	DebridID    string
	Debrid      string
	SavePath    string
	TorrentPath string
	ContentPath string

	Size       int64
	Completed  int64
	AmountLeft int64
	Progress   float64
	Dlspeed    int64
	Eta        int
	NumSeeds   int
	AddedOn    int64
	FailReason string

	Files []*File
}

type File struct {
	Index int
	Name  string
	Size  int64
	Path  string
}

func (t *Torrent) IsReady() bool {
	return t.State == StatePausedUP
}

// ImportRequest is one magnet or .torrent to bring in.
type ImportRequest struct {
	Magnet           *models.Magnet
	SelectedDebrid   string
	Action           string
	DownloadUncached bool
	SavePath         string

	// Cleanup removes the torrent from the debrid once it is on disk.
	Cleanup bool
}

type Store struct {
	debrid   *debrid.Storage
	torrents *TorrentStorage
	logger   zerolog.Logger
	grab     *grab.Client

	downloadPath       string
	defaultAction      string
	maxConcurrent      int
	refreshInterval    time.Duration
	maxRefreshInterval time.Duration
	timeout            time.Duration

	queueMu sync.Mutex
	queue   []*ImportRequest
}

func New(storage *debrid.Storage, cfg *config.Config) *Store {
	dl := cfg.Download

	client := grab.NewClient()
	client.UserAgent = "torbox-go"

	return &Store{
		debrid:   storage,
		torrents: NewTorrentStorage(),
		logger:   logger.New("store"),
		grab:     client,

		downloadPath:       cmp.Or(dl.Path, "downloads"),
		defaultAction:      cmp.Or(dl.Action, ActionDownload),
		maxConcurrent:      max(dl.MaxConcurrent, 1),
		refreshInterval:    cmp.Or(dl.PollInterval, 2*time.Second),
		maxRefreshInterval: cmp.Or(dl.MaxPollInterval, 30*time.Second),
		timeout:            dl.Timeout,
	}
}

func (s *Store) Torrents() *TorrentStorage {
	return s.torrents
}

// TorrentStorage indexes imports by info hash.
type TorrentStorage struct {
	mu       sync.RWMutex
	torrents map[string]*Torrent
}

func NewTorrentStorage() *TorrentStorage {
	return &TorrentStorage{torrents: make(map[string]*Torrent)}
}

// AddOrUpdate stores a snapshot of t.
func (ts *TorrentStorage) AddOrUpdate(t *Torrent) {
	snapshot := *t

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.torrents[t.InfoHash] = &snapshot
}

func (ts *TorrentStorage) Get(hash string) (*Torrent, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	t, ok := ts.torrents[hash]
	if !ok {
		return nil, false
	}

	snapshot := *t
	return &snapshot, true
}

func (ts *TorrentStorage) Delete(hash string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	delete(ts.torrents, hash)
}

// List returns the torrents, oldest first.
func (ts *TorrentStorage) List() []*Torrent {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	list := make([]*Torrent, 0, len(ts.torrents))
	for _, t := range ts.torrents {
		snapshot := *t
		list = append(list, &snapshot)
	}

	slices.SortFunc(list, func(a, b *Torrent) int {
		return cmp.Or(cmp.Compare(a.AddedOn, b.AddedOn), cmp.Compare(a.Name, b.Name))
	})

	return list
}
