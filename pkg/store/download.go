package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"golang.org/x/sync/errgroup"

	"github.com/dylanmazurek/torbox-go/pkg/debrid/models"
)

const progressInterval = 5 * time.Second

// processDownload fetches every resolved file of debridTorrent below the
// save path and returns the torrent's folder on disk.
func (s *Store) processDownload(ctx context.Context, torrent *Torrent, debridTorrent *models.DebridTorrent) (string, error) {
	savePath, err := filepath.Abs(torrent.SavePath)
	if err != nil {
		return "", fmt.Errorf("invalid save path: %w", err)
	}

	torrentPath := filepath.Join(savePath, debridTorrent.OriginalFilename)
	if debridTorrent.OriginalFilename == "" {
		torrentPath = filepath.Join(savePath, debridTorrent.Name)
	}

	files := debridTorrent.GetFiles()
	if len(files) == 0 {
		return "", fmt.Errorf("no files to download for %s", debridTorrent.Name)
	}

	targets := make([]string, len(files))
	for i, file := range files {
		if !file.DownloadLink.Valid() {
			return "", fmt.Errorf("file %s has no download link", file.Name)
		}

		targets[i], err = safeJoin(savePath, file.Path)
		if err != nil {
			return "", err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, file := range files {
		g.Go(func() error {
			return s.downloadFile(ctx, targets[i], file)
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return torrentPath, nil
}

func (s *Store) downloadFile(ctx context.Context, dst string, file models.File) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", file.Name, err)
	}

	req, err := grab.NewRequest(dst, file.DownloadLink.DownloadLink)
	if err != nil {
		return fmt.Errorf("invalid download request for %s: %w", file.Name, err)
	}
	req = req.WithContext(ctx)
	if file.Size > 0 {
		req.Size = file.Size
	}

	resp := s.grab.Do(req)

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.logger.Debug().
				Str("file", file.Name).
				Float64("progress", resp.Progress()*100).
				Float64("bytes_per_second", resp.BytesPerSecond()).
				Msg("downloading")
		case <-resp.Done:
			if err := resp.Err(); err != nil {
				return fmt.Errorf("failed to download %s: %w", file.Name, err)
			}

			s.logger.Info().Str("file", resp.Filename).Msgf("downloaded %s", file.Name)
			return nil
		}
	}
}

// safeJoin keeps rel below root.
func safeJoin(root, rel string) (string, error) {
	dst := filepath.Join(root, filepath.FromSlash(rel))

	if dst != root && !strings.HasPrefix(dst, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("file path %q escapes the save path", rel)
	}

	return dst, nil
}
