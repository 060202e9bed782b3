package models

import (
	"encoding/json"
	"time"
)

type Torrent struct {
	Id               int64          `json:"id"`
	AuthId           string         `json:"auth_id"`
	Server           int            `json:"server"`
	Hash             string         `json:"hash"`
	Name             string         `json:"name"`
	Magnet           *string        `json:"magnet"`
	Size             int64          `json:"size"`
	Active           bool           `json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DownloadState    string         `json:"download_state"`
	Seeds            int            `json:"seeds"`
	Peers            int            `json:"peers"`
	Ratio            float64        `json:"ratio"`
	Progress         float64        `json:"progress"`
	DownloadSpeed    int64          `json:"download_speed"`
	UploadSpeed      int64          `json:"upload_speed"`
	ETA              int64          `json:"eta"`
	TorrentFile      bool           `json:"torrent_file"`
	ExpiresAt        *string        `json:"expires_at"`
	DownloadPresent  bool           `json:"download_present"`
	Files            []DownloadFile `json:"files"`
	DownloadPath     string         `json:"download_path"`
	InactiveCheck    int            `json:"inactive_check"`
	Availability     float64        `json:"availability"`
	DownloadFinished bool           `json:"download_finished"`
	Tracker          *string        `json:"tracker"`
	TotalUploaded    int64          `json:"total_uploaded"`
	TotalDownloaded  int64          `json:"total_downloaded"`
	Cached           bool           `json:"cached"`
	Owner            string         `json:"owner"`
	SeedTorrent      bool           `json:"seed_torrent"`
	AllowZipped      bool           `json:"allow_zipped"`
	LongTermSeeding  bool           `json:"long_term_seeding"`
	TrackerMessage   *string        `json:"tracker_message"`
}

// UnmarshalJSON also accepts queued entries, which carry torrent_id or
// queued_id instead of id.
func (t *Torrent) UnmarshalJSON(d []byte) error {
	type Alias Torrent
	type Aux struct {
		*Alias

		TorrentId *int64 `json:"torrent_id"`
		QueuedId  *int64 `json:"queued_id"`
	}

	aux := &Aux{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(d, &aux); err != nil {
		return err
	}

	if t.Id == 0 {
		if aux.TorrentId != nil {
			t.Id = *aux.TorrentId
		}

		if aux.QueuedId != nil {
			t.Id = *aux.QueuedId
		}
	}

	return nil
}

// CreateTorrentRequest is sent as multipart form data. Either Magnet or
// File must be set.
type CreateTorrentRequest struct {
	Magnet   *string `form:"magnet"`
	File     *Upload `form:"file"`
	Name     *string `form:"name"`
	Seed     *int    `form:"seed"`
	AllowZip *bool   `form:"allow_zip"`
	AsQueued *bool   `form:"as_queued"`
}

// Seed preferences for CreateTorrentRequest.Seed.
const (
	SeedAuto   = 1
	SeedAlways = 2
	SeedNever  = 3
)

type CreateTorrentData struct {
	ActiveLimit            *int    `json:"active_limit,omitempty"`
	AuthId                 *string `json:"auth_id,omitempty"`
	CurrentActiveDownloads *int    `json:"current_active_downloads,omitempty"`
	Hash                   *string `json:"hash,omitempty"`
	QueuedId               *int64  `json:"queued_id,omitempty"`
	TorrentId              *int64  `json:"torrent_id,omitempty"`
}

// Id returns the torrent id, or the queued id when the torrent was queued.
func (d *CreateTorrentData) Id() int64 {
	if d.TorrentId != nil {
		return *d.TorrentId
	}
	if d.QueuedId != nil {
		return *d.QueuedId
	}

	return 0
}

type ControlTorrentRequest struct {
	TorrentId *int64 `json:"torrent_id,omitempty"`
	Operation string `json:"operation"`
	All       *bool  `json:"all,omitempty"`
}

type TorrentDownloadParams struct {
	Token     *string `url:"token,omitempty"`
	TorrentId *int64  `url:"torrent_id,omitempty"`
	FileId    *int64  `url:"file_id,omitempty"`
	ZipLink   *bool   `url:"zip_link,omitempty"`
	UserIp    *string `url:"user_ip,omitempty"`
	Redirect  *bool   `url:"redirect,omitempty"`
}

type ExportParams struct {
	TorrentId *int64  `url:"torrent_id,omitempty"`
	Type      *string `url:"type,omitempty"`
}

const (
	ExportMagnet = "magnet"
	ExportFile   = "file"
)

type TorrentInfoParams struct {
	Hash    *string `url:"hash,omitempty"`
	Timeout *int    `url:"timeout,omitempty"`
}

// TorrentInfoRequest looks up metadata by hash, magnet or .torrent file.
type TorrentInfoRequest struct {
	Hash   *string `form:"hash"`
	Magnet *string `form:"magnet"`
	File   *Upload `form:"file"`
}

type TorrentInfo struct {
	Name     string       `json:"name"`
	Hash     string       `json:"hash"`
	Size     int64        `json:"size"`
	Trackers []string     `json:"trackers"`
	Seeds    int          `json:"seeds"`
	Peers    int          `json:"peers"`
	Files    []CachedFile `json:"files"`
}
