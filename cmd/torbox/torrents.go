package torbox

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	debridModels "github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	apiModels "github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

var (
	listBypassCache bool
	listLimit       int
	listOffset      int

	addName     string
	addAsQueued bool
	addSeed     int

	linkZip       bool
	linkPermalink bool
)

var torrentsCmd = &cobra.Command{
	Use:     "torrents",
	Aliases: []string{"t"},
	Short:   "Manage torrents on the account",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeApp(cmd, args); err != nil {
			return err
		}

		return requireAPIKey()
	},
}

var torrentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the torrents on the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &apiModels.ListParams{}
		if listBypassCache {
			params.BypassCache = apiModels.Ptr(true)
		}
		if listLimit > 0 {
			params.Limit = apiModels.Ptr(listLimit)
		}
		if listOffset > 0 {
			params.Offset = apiModels.Ptr(listOffset)
		}

		resp, err := client.Torrents.GetTorrentList(cmd.Context(), params)
		if err != nil {
			return err
		}

		var torrents []apiModels.Torrent
		if resp.Data != nil {
			torrents = *resp.Data
		}

		return writeTorrents(cmd.OutOrStdout(), torrents)
	},
}

var torrentsAddCmd = &cobra.Command{
	Use:   "add <magnet|hash|file.torrent>",
	Short: "Add a magnet link, info hash or torrent file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		magnet, err := debridModels.ParseInput(args[0])
		if err != nil {
			return err
		}

		req := &apiModels.CreateTorrentRequest{}
		if magnet.IsTorrent() {
			req.File = apiModels.NewUpload(magnet.Name+".torrent", magnet.File)
		} else {
			req.Magnet = apiModels.Ptr(magnet.Link)
		}
		if addName != "" {
			req.Name = apiModels.Ptr(addName)
		}
		if addAsQueued {
			req.AsQueued = apiModels.Ptr(true)
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = apiModels.Ptr(addSeed)
		}

		resp, err := client.Torrents.CreateTorrent(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if resp.Data == nil {
			fmt.Fprintln(out, resp.Detail)
			return nil
		}

		if resp.Data.QueuedId != nil {
			fmt.Fprintf(out, "queued %s as %d\n", magnet.InfoHash, resp.Data.Id())
		} else {
			fmt.Fprintf(out, "added %s as %d\n", magnet.InfoHash, resp.Data.Id())
		}

		return nil
	},
}

var torrentsLinkCmd = &cobra.Command{
	Use:   "link <torrent-id> [file-id]",
	Short: "Print a download link for a torrent or one of its files",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		torrentId, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid torrent id %q: %w", args[0], err)
		}

		var fileId *int64
		if len(args) == 2 {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid file id %q: %w", args[1], err)
			}
			fileId = &id
		}

		out := cmd.OutOrStdout()

		if linkPermalink {
			link, err := client.Torrents.DownloadPermalink(torrentId, fileId, linkZip)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, link)
			return nil
		}

		params := &apiModels.TorrentDownloadParams{
			Token:     apiModels.Ptr(cfg.API.APIKey),
			TorrentId: &torrentId,
			FileId:    fileId,
		}
		if linkZip {
			params.ZipLink = apiModels.Ptr(true)
		}

		resp, err := client.Torrents.RequestDownloadLink(cmd.Context(), params)
		if err != nil {
			return err
		}
		if resp.Data == nil {
			return fmt.Errorf("no link returned for torrent %d", torrentId)
		}

		fmt.Fprintln(out, *resp.Data)
		return nil
	},
}

func init() {
	torrentsListCmd.Flags().BoolVar(&listBypassCache, "bypass-cache", false, "skip the server side list cache")
	torrentsListCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of torrents")
	torrentsListCmd.Flags().IntVar(&listOffset, "offset", 0, "skip this many torrents")

	torrentsAddCmd.Flags().StringVar(&addName, "name", "", "name to give the torrent")
	torrentsAddCmd.Flags().BoolVar(&addAsQueued, "queued", false, "add the torrent to the queue instead of starting it")
	torrentsAddCmd.Flags().IntVar(&addSeed, "seed", apiModels.SeedAuto, "seeding preference: 1 auto, 2 always, 3 never")

	torrentsLinkCmd.Flags().BoolVar(&linkZip, "zip", false, "link to a zip of the whole torrent")
	torrentsLinkCmd.Flags().BoolVar(&linkPermalink, "permalink", false, "print a redirecting permalink instead of requesting a link")

	torrentsCmd.AddCommand(torrentsListCmd)
	torrentsCmd.AddCommand(torrentsAddCmd)
	torrentsCmd.AddCommand(torrentsLinkCmd)
}

func writeTorrents(w io.Writer, torrents []apiModels.Torrent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tPROGRESS\tSIZE\tFILES")

	for _, t := range torrents {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f%%\t%s\t%d\n",
			t.Id, t.Name, t.DownloadState, t.Progress*100, formatSize(t.Size), len(t.Files))
	}

	return tw.Flush()
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
