package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// TorrentsService handles /api/torrents.
type TorrentsService service

// CreateTorrent adds a torrent from a magnet link or a .torrent upload.
// Cached torrents are ready immediately; otherwise the torrent downloads on
// TorBox, or is queued when the account has no free slot.
func (s *TorrentsService) CreateTorrent(ctx context.Context, req *models.CreateTorrentRequest) (*models.CreateTorrentResponse, error) {
	return decode[models.CreateTorrentResponse](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/torrents/createtorrent",
		body:     req,
		bodyKind: bodyMultipart,
	})
}

// ControlTorrent reannounces, pauses, resumes or deletes a torrent, or every
// torrent when All is set.
func (s *TorrentsService) ControlTorrent(ctx context.Context, req *models.ControlTorrentRequest) (*models.Envelope, error) {
	return decode[models.Envelope](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/torrents/controltorrent",
		body:     req,
		bodyKind: bodyJSON,
	})
}

// RequestDownloadLink returns a CDN link for one file, or a zip of the
// whole torrent when ZipLink is set.
func (s *TorrentsService) RequestDownloadLink(ctx context.Context, params *models.TorrentDownloadParams) (*models.DownloadLinkResponse, error) {
	return decode[models.DownloadLinkResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/requestdl",
		options:  params,
	})
}

// DownloadPermalink returns a requestdl URL that redirects to the file. The
// access token travels in the query string, so treat the URL as a secret.
func (s *TorrentsService) DownloadPermalink(torrentId int64, fileId *int64, zip bool) (string, error) {
	token := s.core.credential.Token()

	params := &models.TorrentDownloadParams{
		Token:     models.Ptr(token),
		TorrentId: models.Ptr(torrentId),
		FileId:    fileId,
		Redirect:  models.Ptr(true),
	}
	if zip {
		params.ZipLink = models.Ptr(true)
	}

	return s.core.permalink(endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/requestdl",
		options:  params,
		required: []pathParam{
			{"token", token},
			{"torrent_id", formatID(torrentId)},
		},
	})
}

// GetTorrentList returns the account's torrents. The service caches the
// list for a few minutes unless BypassCache is set.
func (s *TorrentsService) GetTorrentList(ctx context.Context, params *models.ListParams) (*models.TorrentListResponse, error) {
	return decode[models.TorrentListResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/mylist",
		options:  params,
	})
}

// GetTorrent returns a single torrent. With an id, mylist answers with an
// object instead of a list.
func (s *TorrentsService) GetTorrent(ctx context.Context, torrentId int64, bypassCache bool) (*models.TorrentResponse, error) {
	params := &models.ListParams{Id: models.Ptr(torrentId)}
	if bypassCache {
		params.BypassCache = models.Ptr(true)
	}

	return decode[models.TorrentResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/mylist",
		options:  params,
		required: []pathParam{{"id", formatID(torrentId)}},
	})
}

func (s *TorrentsService) GetTorrentCachedAvailability(ctx context.Context, params *models.CachedParams) (*models.Response[models.CachedAvailability], error) {
	return decode[models.Response[models.CachedAvailability]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/checkcached",
		options:  params,
	})
}

// ExportTorrentData returns the magnet link of a torrent.
func (s *TorrentsService) ExportTorrentData(ctx context.Context, params *models.ExportParams) (*models.Response[string], error) {
	return decode[models.Response[string]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/exportdata",
		options:  params,
	})
}

// GetTorrentInfo fetches metadata for a hash from the swarm. It can take up
// to Timeout seconds.
func (s *TorrentsService) GetTorrentInfo(ctx context.Context, params *models.TorrentInfoParams) (*models.Response[models.TorrentInfo], error) {
	return decode[models.Response[models.TorrentInfo]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/torrents/torrentinfo",
		options:  params,
	})
}

func (s *TorrentsService) PostTorrentInfo(ctx context.Context, req *models.TorrentInfoRequest) (*models.Response[models.TorrentInfo], error) {
	return decode[models.Response[models.TorrentInfo]](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/torrents/torrentinfo",
		body:     req,
		bodyKind: bodyMultipart,
	})
}
