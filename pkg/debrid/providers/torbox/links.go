package torbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	debridModels "github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	apiModels "github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

const linkConcurrency = 8

func (tb *Torbox) GetDownloadLink(ctx context.Context, t *debridModels.DebridTorrent, file *debridModels.File) (*debridModels.DownloadLink, error) {
	if cached, ok := tb.accounts.GetDownloadLink(file.Link); ok {
		return cached, nil
	}

	torrentId, err := parseId(t.Id)
	if err != nil {
		return nil, err
	}

	fileId, err := parseId(file.Id)
	if err != nil {
		return nil, err
	}

	resp, err := tb.client.Torrents.RequestDownloadLink(ctx, &apiModels.TorrentDownloadParams{
		Token:     apiModels.Ptr(tb.client.AccessToken()),
		TorrentId: apiModels.Ptr(torrentId),
		FileId:    apiModels.Ptr(fileId),
	})
	if err != nil {
		tb.logger.Error().
			Err(err).
			Str("torrent_id", t.Id).
			Str("file_id", file.Id).
			Msg("failed to request download link")

		return nil, err
	}

	if resp.Data == nil || *resp.Data == "" {
		tb.logger.Error().
			Str("torrent_id", t.Id).
			Str("file_id", file.Id).
			Bool("success", resp.Success).
			Interface("error", resp.Error).
			Str("detail", resp.Detail).
			Msg("torbox returned no download link")

		return nil, fmt.Errorf("error getting download link for %s: %w", file.Name, debridModels.ErrNoData)
	}

	now := time.Now()
	downloadLink := &debridModels.DownloadLink{
		Link:         file.Link,
		DownloadLink: *resp.Data,
		Id:           file.Id,
		Generated:    now,
		ExpiresAt:    now.Add(tb.clientOptions.AutoExpireLinksAfter),
	}

	tb.accounts.SetDownloadLink(file.Link, downloadLink)

	return downloadLink, nil
}

// GetFileDownloadLinks resolves every file of t concurrently. The first
// failure cancels the rest and t.Files is left untouched.
func (tb *Torbox) GetFileDownloadLinks(ctx context.Context, t *debridModels.DebridTorrent) error {
	files := make(map[string]debridModels.File, len(t.Files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(linkConcurrency)

	for name, file := range t.Files {
		g.Go(func() error {
			link, err := tb.GetDownloadLink(ctx, t, &file)
			if err != nil {
				return err
			}

			file.DownloadLink = link

			mu.Lock()
			files[name] = file
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	t.Files = files
	return nil
}
