package api

import (
	"context"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// GetNotifications fetches the signed-in user's notifications
func GetNotifications(ctx context.Context) ([]model.Notification, error) {
	logger.Debug("Fetching notifications")

	var list []Notification
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&list).
		Get("/api/notifications")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := make([]model.Notification, 0, len(list))
	for _, n := range list {
		out = append(out, n.ToModel())
	}
	return out, nil
}

// MarkNotificationRead marks one notification as read
func MarkNotificationRead(ctx context.Context, id int64) error {
	logger.Debug("Marking notification read", "notification_id", id)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(id)).
		Put("/api/notifications/{id}/read")

	return CheckResponse(resp, err)
}
