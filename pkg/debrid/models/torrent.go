package models

import (
	"slices"
	"strings"
	"time"
)

const (
	StatusDownloaded  = "downloaded"
	StatusDownloading = "downloading"
	StatusSeeding     = "seeding"
	StatusError       = "error"
)

type DebridTorrent struct {
	Id               string
	InfoHash         string
	Name             string
	Folder           string
	Filename         string
	OriginalFilename string
	Size             int64
	Bytes            int64
	Progress         float64
	Status           string
	Speed            int64
	Seeders          int
	Added            string
	MountPath        string
	Debrid           string
	IsActive         *bool

	Magnet           *Magnet
	DownloadUncached bool

	Files map[string]File
}

// GetFiles returns the files ordered by path.
func (t *DebridTorrent) GetFiles() []File {
	files := make([]File, 0, len(t.Files))
	for _, f := range t.Files {
		files = append(files, f)
	}

	slices.SortFunc(files, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})

	return files
}

type File struct {
	TorrentId    string
	Id           string
	Name         string
	Size         int64
	Path         string
	Link         string
	DownloadLink *DownloadLink
}

type DownloadLink struct {
	Id           string
	Link         string
	DownloadLink string
	Generated    time.Time
	ExpiresAt    time.Time
}

// Valid reports whether the link can still be used.
func (d *DownloadLink) Valid() bool {
	if d == nil || d.DownloadLink == "" {
		return false
	}

	return d.ExpiresAt.IsZero() || time.Now().Before(d.ExpiresAt)
}
