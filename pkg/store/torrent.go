package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dylanmazurek/torbox-go/pkg/debrid"
	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	"github.com/dylanmazurek/torbox-go/pkg/torbox"
)

// activeLimitCodes are the error codes TorBox answers with when every
// download slot is taken.
var activeLimitCodes = []string{"ACTIVE_LIMIT", "too_many_active_downloads"}

func isActiveLimit(err error) bool {
	var apiErr *torbox.APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return slices.Contains(activeLimitCodes, apiErr.ErrorCode)
}

// AddTorrent submits the request, waits for the debrid to finish and runs
// the post download action. A request refused for lack of slots is queued
// and returned with state queued and no error.
func (s *Store) AddTorrent(ctx context.Context, importReq *ImportRequest) (*Torrent, error) {
	if importReq.Magnet == nil {
		return nil, errors.New("import request has no magnet")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	torrent := s.createTorrentFromMagnet(importReq)

	debridTorrent, err := debrid.Process(ctx, s.debrid, importReq.SelectedDebrid, importReq.Magnet, importReq.DownloadUncached)
	if err != nil {
		if isActiveLimit(err) {
			s.logger.Warn().Msgf("too many active downloads for %s, adding to queue", importReq.Magnet.Name)
			s.addToQueue(importReq)

			torrent.State = StateQueued
			s.torrents.AddOrUpdate(torrent)

			return torrent, nil
		}

		torrent.FailReason = err.Error()
		s.markAsFailed(torrent)
		return torrent, err
	}

	torrent = s.partialTorrentUpdate(torrent, debridTorrent)
	s.torrents.AddOrUpdate(torrent)

	return s.processFiles(ctx, torrent, debridTorrent, importReq)
}

func (s *Store) createTorrentFromMagnet(importReq *ImportRequest) *Torrent {
	savePath := cmp.Or(importReq.SavePath, s.downloadPath)

	return &Torrent{
		InfoHash: importReq.Magnet.InfoHash,
		Name:     importReq.Magnet.Name,
		Size:     importReq.Magnet.Size,
		State:    StateDownloading,
		SavePath: savePath,
		AddedOn:  time.Now().Unix(),
	}
}

func (s *Store) processFiles(ctx context.Context, torrent *Torrent, debridTorrent *models.DebridTorrent, importReq *ImportRequest) (*Torrent, error) {
	client := s.debrid.Client(debridTorrent.Debrid)
	if client == nil {
		err := fmt.Errorf("debrid %q is not configured", debridTorrent.Debrid)
		s.onFailed(ctx, err, torrent, debridTorrent, nil)
		return torrent, err
	}
	downloadingStatuses := client.ClientOptions().DownloadingStatus

	interval := s.refreshInterval
	backoff := time.NewTimer(interval)
	defer backoff.Stop()

	for debridTorrent.Status != models.StatusDownloaded {
		if !slices.Contains(downloadingStatuses, debridTorrent.Status) {
			break
		}

		s.logger.Debug().Msgf("%s <- (%s) download progress: %.2f%%", debridTorrent.Debrid, debridTorrent.Name, debridTorrent.Progress)

		select {
		case <-ctx.Done():
			s.onFailed(ctx, ctx.Err(), torrent, debridTorrent, client)
			return torrent, ctx.Err()
		case <-backoff.C:
		}

		dbT, err := client.CheckStatus(ctx, debridTorrent)
		if err != nil {
			s.logger.Error().
				Str("torrent_id", debridTorrent.Id).
				Str("torrent_name", debridTorrent.Name).
				Err(err).
				Msg("error checking torrent status")

			s.onFailed(ctx, err, torrent, debridTorrent, client)
			return torrent, err
		}

		debridTorrent = dbT
		torrent = s.partialTorrentUpdate(torrent, debridTorrent)
		s.torrents.AddOrUpdate(torrent)

		interval = min(interval*2, s.maxRefreshInterval)
		backoff.Reset(interval)
	}

	if debridTorrent.Status != models.StatusDownloaded && debridTorrent.Status != models.StatusSeeding {
		err := fmt.Errorf("torrent %s finished with status %s", debridTorrent.Name, debridTorrent.Status)
		s.onFailed(ctx, err, torrent, debridTorrent, client)
		return torrent, err
	}

	timer := time.Now()

	switch cmp.Or(importReq.Action, s.defaultAction) {
	case ActionDownload:
		s.logger.Debug().Msg("post-download action: download")

		if err := client.GetFileDownloadLinks(ctx, debridTorrent); err != nil {
			s.onFailed(ctx, err, torrent, debridTorrent, client)
			return torrent, err
		}

		torrentPath, err := s.processDownload(ctx, torrent, debridTorrent)
		if err != nil {
			s.onFailed(ctx, err, torrent, debridTorrent, client)
			return torrent, err
		}

		torrent.TorrentPath = torrentPath
		torrent.ContentPath = torrentPath + string(os.PathSeparator)
	case ActionNone:
		s.logger.Debug().Msg("post-download action: none")
	default:
		err := fmt.Errorf("unknown action %q", importReq.Action)
		s.onFailed(ctx, err, torrent, debridTorrent, nil)
		return torrent, err
	}

	s.onSuccess(ctx, torrent, debridTorrent, importReq, client, timer)

	return torrent, nil
}

func (s *Store) onSuccess(ctx context.Context, torrent *Torrent, debridTorrent *models.DebridTorrent, importReq *ImportRequest, client models.Client, timer time.Time) {
	torrent.State = StatePausedUP
	torrent.Progress = 1
	torrent.Completed = torrent.Size
	torrent.AmountLeft = 0
	s.torrents.AddOrUpdate(torrent)

	s.logger.Info().Msgf("adding %s took %s", debridTorrent.Name, time.Since(timer))

	if importReq.Cleanup {
		s.deleteFromDebrid(ctx, client, debridTorrent)
	}
}

func (s *Store) onFailed(ctx context.Context, err error, torrent *Torrent, debridTorrent *models.DebridTorrent, client models.Client) {
	torrent.FailReason = err.Error()
	s.markAsFailed(torrent)

	s.deleteFromDebrid(ctx, client, debridTorrent)

	s.logger.Error().Err(err).Msgf("error occurred while processing torrent %s", debridTorrent.Name)
}

func (s *Store) deleteFromDebrid(ctx context.Context, client models.Client, debridTorrent *models.DebridTorrent) {
	if client == nil || debridTorrent == nil || debridTorrent.Id == "" {
		return
	}

	// the caller's context may already be cancelled
	if err := client.DeleteTorrent(context.WithoutCancel(ctx), debridTorrent.Id); err != nil {
		s.logger.Warn().Err(err).Msgf("failed to delete torrent %s", debridTorrent.Id)
	}
}

func (s *Store) markAsFailed(t *Torrent) *Torrent {
	t.State = StateError
	s.torrents.AddOrUpdate(t)

	return t
}

func (s *Store) partialTorrentUpdate(t *Torrent, debridTorrent *models.DebridTorrent) *Torrent {
	if debridTorrent == nil {
		return t
	}

	addedOn, err := time.Parse(time.RFC3339, debridTorrent.Added)
	if err == nil && !addedOn.IsZero() && addedOn.Year() > 1 {
		t.AddedOn = addedOn.Unix()
	}

	totalSize := cmp.Or(debridTorrent.Bytes, debridTorrent.Size)
	progress := debridTorrent.Progress / 100.0
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		progress = 0
	}

	sizeCompleted := int64(float64(totalSize) * progress)

	var eta int
	if debridTorrent.Speed != 0 {
		eta = int((totalSize - sizeCompleted) / debridTorrent.Speed)
	}

	files := make([]*File, 0, len(debridTorrent.Files))
	for index, file := range debridTorrent.GetFiles() {
		files = append(files, &File{
			Index: index,
			Name:  file.Name,
			Size:  file.Size,
			Path:  file.Path,
		})
	}

	if debridTorrent.Name != "" {
		t.Name = debridTorrent.Name
	}
	t.DebridID = debridTorrent.Id
	t.Debrid = debridTorrent.Debrid
	t.Files = files
	t.Size = totalSize
	t.Completed = sizeCompleted
	t.AmountLeft = totalSize - sizeCompleted
	t.NumSeeds = debridTorrent.Seeders
	t.Progress = progress
	t.Eta = eta
	t.Dlspeed = debridTorrent.Speed
	t.ContentPath = filepath.Join(t.SavePath, t.Name) + string(os.PathSeparator)

	return t
}
