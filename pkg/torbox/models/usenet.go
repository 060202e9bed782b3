package models

import "time"

type UsenetDownload struct {
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

// CreateUsenetDownloadRequest takes an .nzb upload or a link to one.
type CreateUsenetDownloadRequest struct {
	File     *Upload `form:"file"`
	Link     *string `form:"link"`
	Name     *string `form:"name"`
	Password *string `form:"password"`
	AsQueued *bool   `form:"as_queued"`
}

type CreateUsenetDownloadData struct {
	AuthId           *string `json:"auth_id,omitempty"`
	Hash             *string `json:"hash,omitempty"`
	UsenetDownloadId *string `json:"usenetdownload_id,omitempty"`
}

type ControlUsenetDownloadRequest struct {
	UsenetId  *int64 `json:"usenet_id,omitempty"`
	Operation string `json:"operation"`
	All       *bool  `json:"all,omitempty"`
}

type UsenetDownloadParams struct {
	Token    *string `url:"token,omitempty"`
	UsenetId *int64  `url:"usenet_id,omitempty"`
	FileId   *int64  `url:"file_id,omitempty"`
	ZipLink  *bool   `url:"zip_link,omitempty"`
	UserIp   *string `url:"user_ip,omitempty"`
	Redirect *bool   `url:"redirect,omitempty"`
}
