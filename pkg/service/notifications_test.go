package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

// scripted returns one response per poll, repeating the last one.
func scripted(steps ...func() ([]model.Notification, error)) NotificationFetcher {
	var mu sync.Mutex
	i := 0
	return func(context.Context) ([]model.Notification, error) {
		mu.Lock()
		defer mu.Unlock()
		step := steps[min(i, len(steps)-1)]
		i++
		return step()
	}
}

func list(ns ...model.Notification) func() ([]model.Notification, error) {
	return func() ([]model.Notification, error) { return ns, nil }
}

func fail(err error) func() ([]model.Notification, error) {
	return func() ([]model.Notification, error) { return nil, err }
}

func TestWatchEmitsOnlyNewNotifications(t *testing.T) {
	_, out := setup(t, "text")
	n1 := model.Notification{ID: 1, Message: "old, read", Read: true}
	n2 := model.Notification{ID: 2, Message: "old, unread"}
	n3 := model.Notification{ID: 3, Message: "bob commented"}
	n4 := model.Notification{ID: 4, Message: "ana mentioned you"}

	ns := &NotificationService{
		interval: 5 * time.Millisecond,
		fetch: scripted(
			list(n2, n1),
			fail(errors.New("connection reset")),
			list(n4, n3, n2, n1),
		),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []int64
	err := ns.Watch(ctx, func(n model.Notification) {
		got = append(got, n.ID)
		if len(got) == 2 {
			cancel()
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, got)
	assert.Contains(t, out.String(), "1 unread notification.")
}

func TestWatchStopsWhenUnauthorized(t *testing.T) {
	setup(t, "text")
	ns := &NotificationService{
		interval: time.Millisecond,
		fetch:    scripted(list(), fail(&api.APIError{StatusCode: 401, Message: "Token expirado"})),
	}

	err := ns.Watch(context.Background(), func(model.Notification) {})
	assert.True(t, api.IsUnauthorized(err))
}

func TestNotificationList(t *testing.T) {
	_, out := setup(t, "table")
	ns := &NotificationService{fetch: scripted(list(model.Notification{ID: 9, Message: "bob comentou no seu post."}))}

	got, err := ns.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, out.String(), "bob comentou no seu post.")
	assert.Contains(t, out.String(), "MESSAGE")
}

func TestNewNotificationServiceInterval(t *testing.T) {
	setup(t, "text")
	assert.Equal(t, 30*time.Second, NewNotificationService().interval)
}
