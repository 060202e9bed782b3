package torbox

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	debridModels "github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	apiModels "github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

const (
	cachedBatchSize   = 100
	cachedConcurrency = 4
)

var sampleRe = regexp.MustCompile(`(?i)(^|[\\/._ -])sample([\\/._ -]|$)`)

func isSampleFile(p string) bool {
	return sampleRe.MatchString(p)
}

func parseId(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid torbox id %q", id)
	}

	return n, nil
}

// fillTorrent copies a TorBox torrent into t, keeping only the files that
// pass the sample, extension and size filters.
func (tb *Torbox) fillTorrent(t *debridModels.DebridTorrent, data *apiModels.Torrent) {
	active := data.Active

	t.Id = strconv.FormatInt(data.Id, 10)
	t.Name = data.Name
	t.Bytes = data.Size
	t.Folder = data.Name
	t.Progress = data.Progress * 100
	t.Status = getTorboxStatus(data.DownloadState, data.DownloadFinished)
	t.Speed = data.DownloadSpeed
	t.Seeders = data.Seeds
	t.Filename = data.Name
	t.MountPath = tb.clientOptions.MountPath
	t.Debrid = tb.clientOptions.Name
	t.Added = data.CreatedAt.Format(time.RFC3339)
	t.IsActive = &active
	if data.Hash != "" {
		t.InfoHash = strings.ToLower(data.Hash)
	}

	t.Files = make(map[string]debridModels.File)

	skipped := 0
	for _, f := range data.Files {
		fileName := filepath.Base(f.Name)

		if !tb.clientOptions.AddSamples && isSampleFile(f.AbsolutePath+"/"+f.Name) {
			skipped++
			continue
		}
		if !tb.cfg.IsAllowedFile(fileName) || !tb.cfg.IsSizeAllowed(f.Size) {
			skipped++
			continue
		}

		file := debridModels.File{
			TorrentId: t.Id,
			Id:        strconv.FormatInt(f.Id, 10),
			Name:      fileName,
			Size:      f.Size,
			Path:      f.Name,
		}

		// placeholder until a CDN link is requested
		if data.DownloadFinished {
			file.Link = fmt.Sprintf("torbox://%s/%d", t.Id, f.Id)
		}

		t.Files[fileName] = file
	}

	var cleanPath string
	if len(data.Files) > 0 {
		cleanPath = path.Clean(data.Files[0].Name)
	} else {
		cleanPath = path.Clean(data.Name)
	}
	t.OriginalFilename = strings.Split(cleanPath, "/")[0]

	tb.logger.Debug().
		Str("torrent_id", t.Id).
		Str("status", t.Status).
		Int("total_files", len(data.Files)).
		Int("skipped_files", skipped).
		Msg("torrent file processing completed")
}

func (tb *Torbox) GetTorrents(ctx context.Context) ([]*debridModels.DebridTorrent, error) {
	resp, err := tb.client.Torrents.GetTorrentList(ctx, &apiModels.ListParams{BypassCache: apiModels.Ptr(true)})
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, fmt.Errorf("torbox API error: %v: %w", resp.Error, debridModels.ErrNoData)
	}

	list := *resp.Data
	torrents := make([]*debridModels.DebridTorrent, 0, len(list))
	for i := range list {
		t := &debridModels.DebridTorrent{}
		tb.fillTorrent(t, &list[i])
		torrents = append(torrents, t)
	}

	return torrents, nil
}

func (tb *Torbox) GetTorrent(ctx context.Context, torrentId string) (*debridModels.DebridTorrent, error) {
	t := &debridModels.DebridTorrent{Id: torrentId}
	if err := tb.UpdateTorrent(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// SubmitMagnet creates the torrent on TorBox. With cache checks enabled an
// uncached torrent is refused unless uncached downloads are allowed.
func (tb *Torbox) SubmitMagnet(ctx context.Context, torrent *debridModels.DebridTorrent) (*debridModels.DebridTorrent, error) {
	if torrent.Magnet == nil {
		return nil, fmt.Errorf("torrent %s has no magnet", torrent.Name)
	}

	if tb.clientOptions.CheckCached && !torrent.DownloadUncached && torrent.InfoHash != "" {
		available, err := tb.GetTorrentAvailable(ctx, []string{torrent.InfoHash})
		if err != nil {
			return nil, err
		}
		if !available[strings.ToLower(torrent.InfoHash)] {
			return nil, fmt.Errorf("torrent: %s: %w", torrent.Name, debridModels.ErrNotCached)
		}
	}

	req := &apiModels.CreateTorrentRequest{}
	if torrent.Magnet.IsTorrent() {
		req.File = apiModels.NewUpload(torrent.Magnet.Name+".torrent", torrent.Magnet.File)
	} else {
		req.Magnet = apiModels.Ptr(torrent.Magnet.Link)
	}

	resp, err := tb.client.Torrents.CreateTorrent(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, fmt.Errorf("error adding torrent: %s: %w", resp.Detail, debridModels.ErrNoData)
	}

	id := resp.Data.Id()
	if id == 0 {
		return nil, fmt.Errorf("error adding torrent: invalid ID")
	}

	torrent.Id = strconv.FormatInt(id, 10)
	torrent.MountPath = tb.clientOptions.MountPath
	torrent.Debrid = tb.clientOptions.Name

	tb.logger.Info().Str("id", torrent.Id).Msgf("torrent %s submitted", torrent.Name)

	return torrent, nil
}

func (tb *Torbox) UpdateTorrent(ctx context.Context, t *debridModels.DebridTorrent) error {
	id, err := parseId(t.Id)
	if err != nil {
		return err
	}

	resp, err := tb.client.Torrents.GetTorrent(ctx, id, true)
	if err != nil {
		return err
	}

	if resp.Data == nil {
		return fmt.Errorf("error getting torrent %s: %w", t.Id, debridModels.ErrNoData)
	}

	tb.fillTorrent(t, resp.Data)

	return nil
}

func (tb *Torbox) DeleteTorrent(ctx context.Context, torrentId string) error {
	id, err := parseId(torrentId)
	if err != nil {
		return err
	}

	_, err = tb.client.Torrents.ControlTorrent(ctx, &apiModels.ControlTorrentRequest{
		TorrentId: apiModels.Ptr(id),
		Operation: apiModels.OperationDelete,
	})
	if err != nil {
		return err
	}

	tb.logger.Info().Msgf("torrent %s deleted from torbox", torrentId)
	return nil
}

// GetTorrentAvailable checks hashes against the TorBox cache in batches of
// 100. Keys of the result are lower case.
func (tb *Torbox) GetTorrentAvailable(ctx context.Context, hashes []string) (map[string]bool, error) {
	result := make(map[string]bool)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cachedConcurrency)

	for i := 0; i < len(hashes); i += cachedBatchSize {
		end := min(i+cachedBatchSize, len(hashes))

		validHashes := make([]string, 0, end-i)
		for _, hash := range hashes[i:end] {
			if hash != "" {
				validHashes = append(validHashes, strings.ToLower(hash))
			}
		}

		if len(validHashes) == 0 {
			continue
		}

		g.Go(func() error {
			resp, err := tb.client.Torrents.GetTorrentCachedAvailability(ctx, &apiModels.CachedParams{
				Hash:   validHashes,
				Format: apiModels.Ptr(apiModels.CachedFormatObject),
			})
			if err != nil {
				tb.logger.Error().Err(err).Msg("error checking availability")
				return err
			}

			if resp.Data == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			for h, c := range resp.Data.Items {
				if c.Size > 0 {
					result[strings.ToLower(h)] = true
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}
