package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

type UserService service

// RefreshAPIToken exchanges a website session token for a new API token.
// The old API token stops working.
func (s *UserService) RefreshAPIToken(ctx context.Context, req *models.RefreshTokenRequest) (*models.Response[string], error) {
	return decode[models.Response[string]](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/user/refreshtoken",
		body:     req,
		bodyKind: bodyJSON,
	})
}

// GetUserData returns the account. Settings are included only when asked.
func (s *UserService) GetUserData(ctx context.Context, params *models.UserDataParams) (*models.UserResponse, error) {
	return decode[models.UserResponse](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/user/me",
		options:  params,
	})
}

func (s *UserService) AddReferralToAccount(ctx context.Context, referral *string) (*models.Envelope, error) {
	return decode[models.Envelope](ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/user/addreferral",
		query:    []queryParam{{"referral", referral}},
	})
}

func (s *UserService) GetConfirmationCode(ctx context.Context) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/user/getconfirmation",
	})
}
