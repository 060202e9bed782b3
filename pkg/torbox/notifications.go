package torbox

import (
	"context"
	"net/http"

	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

type NotificationsService service

// GetRSSNotificationFeed returns the notifications as RSS. Feed readers
// cannot send headers, so the token may be passed as a query parameter.
func (s *NotificationsService) GetRSSNotificationFeed(ctx context.Context, token *string) (string, error) {
	return text(ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/notifications/rss",
		query:    []queryParam{{"token", token}},
	})
}

func (s *NotificationsService) GetNotificationFeed(ctx context.Context) (*models.Response[[]models.Notification], error) {
	return decode[models.Response[[]models.Notification]](ctx, s.core, endpoint{
		method:   http.MethodGet,
		template: "{api_version}/api/notifications/mynotifications",
	})
}

func (s *NotificationsService) ClearAllNotifications(ctx context.Context) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/notifications/clear",
	})
}

func (s *NotificationsService) ClearSingleNotification(ctx context.Context, notificationId string) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/notifications/clear/{notification_id}",
		path:     []pathParam{{"notification_id", notificationId}},
	})
}

// SendTestNotification pushes a test message to every configured channel.
func (s *NotificationsService) SendTestNotification(ctx context.Context) error {
	return execute(ctx, s.core, endpoint{
		method:   http.MethodPost,
		template: "{api_version}/api/notifications/test",
	})
}
