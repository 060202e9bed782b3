package models

import "time"

type QueuedDownload struct {
	Id          int64     `json:"id"`
	AuthId      string    `json:"auth_id"`
	Name        string    `json:"name"`
	Hash        string    `json:"hash"`
	Magnet      *string   `json:"magnet"`
	TorrentFile *string   `json:"torrent_file"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type QueuedParams struct {
	BypassCache *bool   `url:"bypass_cache,omitempty"`
	Id          *int64  `url:"id,omitempty"`
	Offset      *int    `url:"offset,omitempty"`
	Limit       *int    `url:"limit,omitempty"`
	Type        *string `url:"type,omitempty"`
}

type ControlQueuedRequest struct {
	QueuedId  *int64  `json:"queued_id,omitempty"`
	Operation string  `json:"operation"`
	Type      *string `json:"type,omitempty"`
	All       *bool   `json:"all,omitempty"`
}
