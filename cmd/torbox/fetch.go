package torbox

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dylanmazurek/torbox-go/pkg/debrid"
	debridModels "github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	"github.com/dylanmazurek/torbox-go/pkg/store"
)

var (
	fetchDebrid    string
	fetchAction    string
	fetchUncached  bool
	fetchCleanup   bool
	fetchSavePath  string
	fetchQueueWait time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <magnet|hash|file.torrent>",
	Short: "Add a torrent, wait for TorBox to finish it and download the files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		magnet, err := debridModels.ParseInput(args[0])
		if err != nil {
			return err
		}

		storage := debrid.NewStorage(cfg)
		if len(storage.Clients()) == 0 {
			return fmt.Errorf("no debrid accounts configured: set api.api_key or debrids")
		}

		s := store.New(storage, cfg)
		ctx := cmd.Context()

		torrent, err := s.AddTorrent(ctx, &store.ImportRequest{
			Magnet:           magnet,
			SelectedDebrid:   fetchDebrid,
			Action:           fetchAction,
			DownloadUncached: fetchUncached,
			SavePath:         fetchSavePath,
			Cleanup:          fetchCleanup,
		})
		if err != nil {
			return err
		}

		// keep retrying until a slot frees up
		for torrent.State == store.StateQueued {
			_log.Info().Msgf("%s is queued, retrying in %s", magnet.Name, fetchQueueWait)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(fetchQueueWait):
			}

			if _, err := s.ProcessQueue(ctx); err != nil {
				return err
			}

			stored, ok := s.Torrents().Get(torrent.InfoHash)
			if !ok {
				return fmt.Errorf("lost track of %s", torrent.InfoHash)
			}
			torrent = stored
			if torrent.State == store.StateError {
				return fmt.Errorf("failed to fetch %s: %s", torrent.Name, torrent.FailReason)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s ready on %s (%d files)\n", torrent.Name, torrent.Debrid, len(torrent.Files))
		if torrent.TorrentPath != "" {
			fmt.Fprintf(out, "saved to %s\n", torrent.TorrentPath)
		}

		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDebrid, "debrid", "", "only use this debrid account")
	fetchCmd.Flags().StringVar(&fetchAction, "action", "", "post download action: download or none (default download.action)")
	fetchCmd.Flags().BoolVar(&fetchUncached, "uncached", false, "allow torrents that are not cached yet")
	fetchCmd.Flags().BoolVar(&fetchCleanup, "cleanup", false, "remove the torrent from TorBox once downloaded")
	fetchCmd.Flags().StringVar(&fetchSavePath, "save-path", "", "download directory (default download.path)")
	fetchCmd.Flags().DurationVar(&fetchQueueWait, "queue-wait", time.Minute, "how long to wait between retries while queued")
}
