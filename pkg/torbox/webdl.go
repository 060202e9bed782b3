package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// WebDownloadsService handles /api/webdl, downloads from file hosters.
type WebDownloadsService service

func (s *WebDownloadsService) CreateWebDownload(ctx context.Context, req *models.CreateWebDownloadRequest) (*models.Response[models.CreateWebDownloadData], error) {
	return decode[models.Response[models.CreateWebDownloadData]](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/webdl/createwebdownload",
		body:     req,
		bodyKind: bodyMultipart,
	})
}

// ControlWebDownload also accepts the list query parameters; the service
// uses them to pick the cached list the operation runs against.
func (s *WebDownloadsService) ControlWebDownload(ctx context.Context, req *models.ControlWebDownloadRequest, params *models.ListParams) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/webdl/controlwebdownload",
		options:  params,
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *WebDownloadsService) RequestDownloadLink(ctx context.Context, params *models.WebDownloadParams) (*models.DownloadLinkResponse, error) {
	return decode[models.DownloadLinkResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/webdl/requestdl",
		options:  params,
	})
}

func (s *WebDownloadsService) DownloadPermalink(webId int64, fileId *int64, zip bool) (string, error) {
	token := s.core.credential.Token()

	params := &models.WebDownloadParams{
		Token:    models.Ptr(token),
		WebId:    models.Ptr(webId),
		FileId:   fileId,
		Redirect: models.Ptr(true),
	}
	if zip {
		params.ZipLink = models.Ptr(true)
	}

	return s.core.permalink(endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/webdl/requestdl",
		options:  params,
		required: []pathParam{
			{"token", token},
			{"web_id", formatID(webId)},
		},
	})
}

func (s *WebDownloadsService) GetWebDownloadList(ctx context.Context, params *models.ListParams) (*models.Response[[]models.WebDownload], error) {
	return decode[models.Response[[]models.WebDownload]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/webdl/mylist",
		options:  params,
	})
}

func (s *WebDownloadsService) GetWebDownloadCachedAvailability(ctx context.Context, params *models.CachedParams) (*models.Response[models.CachedAvailability], error) {
	return decode[models.Response[models.CachedAvailability]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/webdl/checkcached",
		options:  params,
	})
}

// GetHosterList returns the supported hosters and the account's usage of
// each.
func (s *WebDownloadsService) GetHosterList(ctx context.Context) (*models.Response[[]models.Hoster], error) {
	return decode[models.Response[[]models.Hoster]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/webdl/hosters",
	})
}
