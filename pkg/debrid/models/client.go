package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrMissingAPIKey = errors.New("debrid api key is required")
	ErrNoData        = errors.New("debrid returned no data")
	ErrNotCached     = errors.New("torrent is not cached")
)

type ClientOptions struct {
	Name      string
	MountPath string
	Host      string
	APIKey    string

	DownloadUncached     bool
	CheckCached          bool
	AddSamples           bool
	AutoExpireLinksAfter time.Duration
	DownloadingStatus    []string
}

// Client is one debrid account. Every call takes a context and is safe for
// concurrent use.
type Client interface {
	ClientOptions() ClientOptions
	Logger() zerolog.Logger

	GetAccounts() *Accounts
	GetProfile(ctx context.Context) (*Profile, error)
	GetAvailableSlots(ctx context.Context) (int, error)

	GetTorrent(ctx context.Context, id string) (*DebridTorrent, error)
	GetTorrents(ctx context.Context) ([]*DebridTorrent, error)
	SubmitMagnet(ctx context.Context, tr *DebridTorrent) (*DebridTorrent, error)
	UpdateTorrent(ctx context.Context, tr *DebridTorrent) error
	DeleteTorrent(ctx context.Context, id string) error
	CheckStatus(ctx context.Context, tr *DebridTorrent) (*DebridTorrent, error)

	GetTorrentAvailable(ctx context.Context, hashes []string) (map[string]bool, error)

	GetDownloadLink(ctx context.Context, tr *DebridTorrent, file *File) (*DownloadLink, error)
	GetFileDownloadLinks(ctx context.Context, tr *DebridTorrent) error
}

type Profile struct {
	Name       string
	Id         int64
	Username   string
	Email      string
	Type       string
	Expiration *time.Time
	Slots      int
}
