package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// QueuedService lists and starts downloads waiting for a free slot.
type QueuedService service

func (s *QueuedService) GetQueuedDownloads(ctx context.Context, params *models.QueuedParams) (*models.Response[[]models.QueuedDownload], error) {
	return decode[models.Response[[]models.QueuedDownload]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/queued/getqueued",
		options:  params,
	})
}

func (s *QueuedService) ControlQueuedDownloads(ctx context.Context, req *models.ControlQueuedRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/queued/controlqueued",
		body:     req,
		bodyKind: bodyJSON,
	})
}
