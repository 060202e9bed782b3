package models

import "time"

type WebDownload struct {
	Id               int64          `json:"id"`
	AuthId           string         `json:"auth_id"`
	Hash             string         `json:"hash"`
	Name             string         `json:"name"`
	Size             int64          `json:"size"`
	Active           bool           `json:"active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DownloadState    string         `json:"download_state"`
	Progress         float64        `json:"progress"`
	DownloadSpeed    int64          `json:"download_speed"`
	ETA              int64          `json:"eta"`
	Files            []DownloadFile `json:"files"`
	DownloadPresent  bool           `json:"download_present"`
	DownloadFinished bool           `json:"download_finished"`
	ExpiresAt        *string        `json:"expires_at"`
	Cached           bool           `json:"cached"`
}

type CreateWebDownloadRequest struct {
	Link     *string `form:"link"`
	Name     *string `form:"name"`
	Password *string `form:"password"`
	AsQueued *bool   `form:"as_queued"`
}

type CreateWebDownloadData struct {
	AuthId        *string `json:"auth_id,omitempty"`
	Hash          *string `json:"hash,omitempty"`
	WebDownloadId *string `json:"webdownload_id,omitempty"`
}

type ControlWebDownloadRequest struct {
	WebId     *int64 `json:"webdl_id,omitempty"`
	Operation string `json:"operation"`
	All       *bool  `json:"all,omitempty"`
}

type WebDownloadParams struct {
	Token    *string `url:"token,omitempty"`
	WebId    *int64  `url:"web_id,omitempty"`
	FileId   *int64  `url:"file_id,omitempty"`
	ZipLink  *bool   `url:"zip_link,omitempty"`
	UserIp   *string `url:"user_ip,omitempty"`
	Redirect *bool   `url:"redirect,omitempty"`
}

// Hoster is a file host supported by web downloads.
type Hoster struct {
	Name                string   `json:"name"`
	Domains             []string `json:"domains"`
	Url                 string   `json:"url"`
	Icon                string   `json:"icon"`
	Status              bool     `json:"status"`
	Type                string   `json:"type"`
	Note                *string  `json:"note"`
	DailyLinkLimit      int64    `json:"daily_link_limit"`
	DailyLinkUsed       int64    `json:"daily_link_used"`
	DailyBandwidthLimit int64    `json:"daily_bandwidth_limit"`
	DailyBandwidthUsed  int64    `json:"daily_bandwidth_used"`
	Limit               int64    `json:"limit"`
}
