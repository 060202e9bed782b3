package models

import "time"

// Integration providers, used by AuthenticateOAuth.
const (
	ProviderGoogle   = "google"
	ProviderDropbox  = "dropbox"
	ProviderDiscord  = "discord"
	ProviderOnedrive = "onedrive"
)

// QueueIntegrationRequest sends a finished download to a cloud provider.
// Type is one of torrent, usenet or webdl.
type QueueIntegrationRequest struct {
	Id            int64   `json:"id"`
	FileId        *int64  `json:"file_id,omitempty"`
	Zip           *bool   `json:"zip,omitempty"`
	Type          string  `json:"type"`
	GoogleToken   *string `json:"google_token,omitempty"`
	OnedriveToken *string `json:"onedrive_token,omitempty"`
	GofileToken   *string `json:"gofile_token,omitempty"`
}

type IntegrationJob struct {
	Id          int64     `json:"id"`
	AuthId      string    `json:"auth_id"`
	Hash        string    `json:"hash"`
	Integration string    `json:"integration"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Progress    float64   `json:"progress"`
	Detail      string    `json:"detail"`
	DownloadUrl *string   `json:"download_url"`
	FileId      int64     `json:"file_id"`
	Zip         bool      `json:"zip"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
