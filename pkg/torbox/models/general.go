package models

import "time"

type Stats struct {
	ActiveTorrents        int64 `json:"active_torrents"`
	ActiveUsenetDownloads int64 `json:"active_usenet_downloads"`
	ActiveWebDownloads    int64 `json:"active_web_downloads"`
	TotalBytesDownloaded  int64 `json:"total_bytes_downloaded"`
	TotalBytesUploaded    int64 `json:"total_bytes_uploaded"`
	TotalDownloads        int64 `json:"total_downloads"`
	TotalServers          int64 `json:"total_servers"`
	TotalTorrentDownloads int64 `json:"total_torrent_downloads"`
	TotalUsenetDownloads  int64 `json:"total_usenet_downloads"`
	TotalUsers            int64 `json:"total_users"`
	TotalWebDownloads     int64 `json:"total_web_downloads"`
}

type Changelog struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Html      string    `json:"html"`
	Markdown  string    `json:"markdown"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

type SpeedtestParams struct {
	TestLength *string `url:"test_length,omitempty"`
	Region     *string `url:"region,omitempty"`
}

const (
	SpeedtestShort = "short"
	SpeedtestLong  = "long"
)
