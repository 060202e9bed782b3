package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// GeneralService covers the service wide endpoints. None of them need a
// token.
type GeneralService service

// GetUpStatus reports whether the API is available. It calls the bare base
// URL, without an API version.
func (s *GeneralService) GetUpStatus(ctx context.Context) (*models.Envelope, error) {
	return decode[models.Envelope](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "",
	})
}

func (s *GeneralService) GetStats(ctx context.Context) (*models.Response[models.Stats], error) {
	return decode[models.Response[models.Stats]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/stats",
	})
}

// GetChangelogsRSSFeed returns the changelog as an RSS document.
func (s *GeneralService) GetChangelogsRSSFeed(ctx context.Context) (string, error) {
	return text(ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/changelogs/rss",
	})
}

func (s *GeneralService) GetChangelogsJSON(ctx context.Context) (*models.Response[[]models.Changelog], error) {
	return decode[models.Response[[]models.Changelog]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/changelogs/json",
	})
}

func (s *GeneralService) GetSpeedtestFiles(ctx context.Context, params *models.SpeedtestParams) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/speedtest",
		options:  params,
	})
}
