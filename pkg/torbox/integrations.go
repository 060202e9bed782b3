package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

// IntegrationsService uploads finished downloads to third party storage.
// Uploads run as jobs on TorBox.
type IntegrationsService service

// AuthenticateOAuth starts the OAuth flow for provider. The service answers
// with a redirect meant for a browser.
func (s *IntegrationsService) AuthenticateOAuth(ctx context.Context, provider string) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/integration/oauth/{provider}",
		path:     []pathParam{{"provider", provider}},
	})
}

func (s *IntegrationsService) QueueGoogleDrive(ctx context.Context, req *models.QueueIntegrationRequest) error {
	return s.queue(ctx, "googledrive", req)
}

func (s *IntegrationsService) QueuePixeldrain(ctx context.Context, req *models.QueueIntegrationRequest) error {
	return s.queue(ctx, "pixeldrain", req)
}

func (s *IntegrationsService) QueueOnedrive(ctx context.Context, req *models.QueueIntegrationRequest) error {
	return s.queue(ctx, "onedrive", req)
}

func (s *IntegrationsService) QueueGofile(ctx context.Context, req *models.QueueIntegrationRequest) error {
	return s.queue(ctx, "gofile", req)
}

func (s *IntegrationsService) Queue1Fichier(ctx context.Context, req *models.QueueIntegrationRequest) error {
	return s.queue(ctx, "1fichier", req)
}

func (s *IntegrationsService) queue(ctx context.Context, target string, req *models.QueueIntegrationRequest) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/integration/" + target,
		body:     req,
		bodyKind: bodyJSON,
	})
}

func (s *IntegrationsService) GetAllJobs(ctx context.Context) (*models.Response[[]models.IntegrationJob], error) {
	return decode[models.Response[[]models.IntegrationJob]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/integration/jobs",
	})
}

func (s *IntegrationsService) GetSpecificJob(ctx context.Context, jobId string) (*models.Response[models.IntegrationJob], error) {
	return decode[models.Response[models.IntegrationJob]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/integration/job/{job_id}",
		path:     []pathParam{{"job_id", jobId}},
	})
}

// CancelSpecificJob stops a job that has not finished yet.
func (s *IntegrationsService) CancelSpecificJob(ctx context.Context, jobId string) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodDelete,
		template: "{api_version}/api/integration/job/{job_id}",
		path:     []pathParam{{"job_id", jobId}},
	})
}

func (s *IntegrationsService) GetAllJobsByHash(ctx context.Context, hash string) (*models.Response[[]models.IntegrationJob], error) {
	return decode[models.Response[[]models.IntegrationJob]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/integration/jobs/{hash}",
		path:     []pathParam{{"hash", hash}},
	})
}
