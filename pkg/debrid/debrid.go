package debrid

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/internal/logger"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/providers/torbox"
	api "github.com/dylanmazurek/torbox-go/pkg/torbox"
)

// Storage holds one client per configured debrid account.
type Storage struct {
	mu       sync.RWMutex
	clients  map[string]models.Client
	order    []string
	lastUsed string
}

// NewStorage creates a client for every account in cfg. Accounts that fail
// to initialise are logged and skipped. opts are passed to every client.
func NewStorage(cfg *config.Config, opts ...api.Option) *Storage {
	_logger := logger.Default()

	s := &Storage{
		clients: make(map[string]models.Client),
	}

	for _, dc := range cfg.Debrids {
		client, err := torbox.New(dc, cfg, opts...)
		if err != nil {
			_logger.Error().Err(err).Str("debrid", dc.Name).Msg("failed to create debrid client")
			continue
		}

		s.Add(dc.Name, client)
		_logger.Debug().Str("debrid", dc.Name).Msg("debrid client ready")
	}

	return s
}

// Add registers client under name, replacing any previous one.
func (s *Storage) Add(name string, client models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.clients[name]; !exists {
		s.order = append(s.order, name)
	}
	s.clients[name] = client
}

func (s *Storage) Client(name string) models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.clients[name]
}

func (s *Storage) Clients() map[string]models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clientsCopy := make(map[string]models.Client, len(s.clients))
	for name, client := range s.clients {
		clientsCopy[name] = client
	}

	return clientsCopy
}

// FilterClients returns the matching clients in configuration order.
func (s *Storage) FilterClients(filter func(name string, c models.Client) bool) []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]models.Client, 0, len(s.clients))
	for _, name := range s.order {
		if c := s.clients[name]; c != nil && filter(name, c) {
			filtered = append(filtered, c)
		}
	}

	return filtered
}

func (s *Storage) LastUsed() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastUsed
}

func (s *Storage) setLastUsed(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = name
}

// Reset drops every client and its cached links.
func (s *Storage) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if accounts := c.GetAccounts(); accounts != nil {
			accounts.Reset()
		}
	}

	s.clients = make(map[string]models.Client)
	s.order = nil
	s.lastUsed = ""
}

// Process submits magnet to the selected account, or to each account in
// turn until one accepts it. overrideDownloadUncached forces uncached
// downloads; otherwise each account's own setting applies.
func Process(ctx context.Context, store *Storage, selectedDebrid string, magnet *models.Magnet, overrideDownloadUncached bool) (*models.DebridTorrent, error) {
	debridTorrent := &models.DebridTorrent{
		InfoHash: magnet.InfoHash,
		Magnet:   magnet,
		Name:     magnet.Name,
		Size:     magnet.Size,
		Files:    make(map[string]models.File),
	}

	clients := store.FilterClients(func(name string, c models.Client) bool {
		return selectedDebrid == "" || name == selectedDebrid
	})

	if len(clients) == 0 {
		return nil, fmt.Errorf("no debrid clients available")
	}

	errs := make([]error, 0, len(clients))

	for _, db := range clients {
		opts := db.ClientOptions()
		_logger := db.Logger()
		_logger.Info().
			Str("debrid", opts.Name).
			Str("hash", debridTorrent.InfoHash).
			Str("name", debridTorrent.Name).
			Msg("processing torrent")

		candidate := *debridTorrent
		candidate.DownloadUncached = overrideDownloadUncached || opts.DownloadUncached

		dbt, err := db.SubmitMagnet(ctx, &candidate)
		if err != nil || dbt == nil || dbt.Id == "" {
			if err == nil {
				err = errors.New("torrent was not created")
			}
			errs = append(errs, fmt.Errorf("%s: %w", opts.Name, err))
			continue
		}

		store.setLastUsed(opts.Name)

		torrent, err := db.CheckStatus(ctx, dbt)
		if err != nil {
			if torrent != nil && torrent.Id != "" {
				// the torrent is of no use if it cannot be downloaded
				if delErr := db.DeleteTorrent(context.WithoutCancel(ctx), torrent.Id); delErr != nil {
					_logger.Warn().Err(delErr).Msgf("failed to delete torrent %s", torrent.Id)
				}
			}

			errs = append(errs, fmt.Errorf("%s: %w", opts.Name, err))
			continue
		}

		return torrent, nil
	}

	return nil, fmt.Errorf("failed to process torrent: %w", errors.Join(errs...))
}
