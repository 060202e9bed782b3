package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// UsenetService handles /api/usenet.
type UsenetService service

// CreateUsenetDownload adds an NZB, either uploaded or fetched from Link.
func (s *UsenetService) CreateUsenetDownload(ctx context.Context, req *models.CreateUsenetDownloadRequest) (*models.Response[models.CreateUsenetDownloadData], error) {
	return decode[models.Response[models.CreateUsenetDownloadData]](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/usenet/createusenetdownload",
		body:     req,
		bodyKind: bodyMultipart,
	})
}

func (s *UsenetService) ControlUsenetDownload(ctx context.Context, req *models.ControlUsenetDownloadRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/usenet/controlusenetdownload",
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *UsenetService) RequestDownloadLink(ctx context.Context, params *models.UsenetDownloadParams) (*models.DownloadLinkResponse, error) {
	return decode[models.DownloadLinkResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/usenet/requestdl",
		options:  params,
	})
}

// DownloadPermalink is the usenet variant of TorrentsService.DownloadPermalink.
func (s *UsenetService) DownloadPermalink(usenetId int64, fileId *int64, zip bool) (string, error) {
	token := s.core.credential.Token()

	params := &models.UsenetDownloadParams{
		Token:    models.Ptr(token),
		UsenetId: models.Ptr(usenetId),
		FileId:   fileId,
		Redirect: models.Ptr(true),
	}
	if zip {
		params.ZipLink = models.Ptr(true)
	}

	return s.core.permalink(endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/usenet/requestdl",
		options:  params,
		required: []pathParam{
			{"token", token},
			{"usenet_id", formatID(usenetId)},
		},
	})
}

func (s *UsenetService) GetUsenetList(ctx context.Context, params *models.ListParams) (*models.Response[[]models.UsenetDownload], error) {
	return decode[models.Response[[]models.UsenetDownload]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/usenet/mylist",
		options:  params,
	})
}

func (s *UsenetService) GetUsenetCachedAvailability(ctx context.Context, params *models.CachedParams) (*models.Response[models.CachedAvailability], error) {
	return decode[models.Response[models.CachedAvailability]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/usenet/checkcached",
		options:  params,
	})
}
