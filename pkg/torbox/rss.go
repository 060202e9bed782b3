package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// RSSFeedsService manages RSS feeds that add matching items automatically.
type RSSFeedsService service

func (s *RSSFeedsService) AddRSSFeed(ctx context.Context, req *models.AddRSSFeedRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/rss/addrss",
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *RSSFeedsService) ControlRSSFeed(ctx context.Context, req *models.ControlRSSFeedRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/rss/controlrss",
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *RSSFeedsService) ModifyRSSFeed(ctx context.Context, req *models.ModifyRSSFeedRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/rss/modifyrss",
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *RSSFeedsService) GetUserRSSFeeds(ctx context.Context, params *models.RSSFeedParams) (*models.Response[[]models.RSSFeed], error) {
	return decode[models.Response[[]models.RSSFeed]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/rss/getfeeds",
		options:  params,
	})
}

func (s *RSSFeedsService) GetRSSFeedItems(ctx context.Context, params *models.RSSFeedItemsParams) (*models.Response[[]models.RSSFeedItem], error) {
	return decode[models.Response[[]models.RSSFeedItem]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/rss/getfeeditems",
		options:  params,
	})
}
