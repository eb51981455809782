package service

import (
	"context"
	"fmt"
	"time"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/config"
	"github.com/YagorVitor/CodeReview/pkg/formatter"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
	"github.com/YagorVitor/CodeReview/pkg/output"
)

// DefaultPollInterval is used when notifications.poll_interval is unset.
const DefaultPollInterval = 30 * time.Second

// NotificationFetcher loads the current notification list.
type NotificationFetcher func(ctx context.Context) ([]model.Notification, error)

// NotificationService lists and watches notifications
type NotificationService struct {
	fetch    NotificationFetcher
	interval time.Duration
}

// NewNotificationService creates a service polling at the configured interval.
func NewNotificationService() *NotificationService {
	interval := config.GetDuration("notifications.poll_interval")
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &NotificationService{fetch: api.GetNotifications, interval: interval}
}

// List prints the notifications, unread ones marked.
func (ns *NotificationService) List(ctx context.Context) ([]model.Notification, error) {
	list, err := ns.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 && !output.IsJSON() {
		output.PrintInfo("No notifications")
		return list, nil
	}
	return list, output.PrintList(list, formatter.NotificationColumns, formatter.NotificationRows(list, now()))
}

// MarkRead marks one notification as read.
func (ns *NotificationService) MarkRead(ctx context.Context, id int64) error {
	if err := api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	output.PrintSuccess("Notification #%d marked as read", id)
	return nil
}

// Watch polls until ctx ends and calls emit for each notification not seen
// before. The first poll only establishes what has been seen and reports the
// unread count. Failed polls are logged and retried on the next tick; an
// unauthorized response ends the watch.
func (ns *NotificationService) Watch(ctx context.Context, emit func(model.Notification)) error {
	seen := make(map[int64]struct{})

	poll := func(first bool) error {
		list, err := ns.fetch(ctx)
		if err != nil {
			if api.IsUnauthorized(err) || ctx.Err() != nil {
				return err
			}
			logger.Warn("Notification poll failed", "error", err)
			return nil
		}

		unread := 0
		// the server lists newest first; emit oldest first
		for i := len(list) - 1; i >= 0; i-- {
			n := list[i]
			if !n.Read {
				unread++
			}
			if _, ok := seen[n.ID]; ok {
				continue
			}
			seen[n.ID] = struct{}{}
			if !first {
				emit(n)
			}
		}
		if first {
			output.PrintInfo("%d unread notification%s. Watching every %s, Ctrl+C to stop", unread, pluralize(unread), ns.interval)
		}
		return nil
	}

	if err := poll(true); err != nil {
		return err
	}

	ticker := time.NewTicker(ns.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(false); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// PrintNotification is the default emit for Watch.
func PrintNotification(n model.Notification) {
	fmt.Fprintf(output.Out, "[%s] %s\n", n.CreatedAt.Local().Format("15:04:05"), n.Message)
}
