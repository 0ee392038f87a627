package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-seo-dashboard/pkg/logger"
)

// NotificationHooks fans a notification out to several hooks, joining errors.
type NotificationHooks []NotificationHook

// Notify delivers n to every hook.
func (hooks NotificationHooks) Notify(ctx context.Context, n Notification) error {
	var errs error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, n); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// NotificationsClient is the minimal contract of an external notification sink.
type NotificationsClient interface {
	PublishNotification(ctx context.Context, n Notification) error
}

// NotificationsHook forwards notifications to an external client.
type NotificationsHook struct {
	Client NotificationsClient
}

// Notify publishes n to the configured client.
func (h *NotificationsHook) Notify(ctx context.Context, n Notification) error {
	if h == nil || h.Client == nil {
		return nil
	}
	return h.Client.PublishNotification(ctx, n)
}

// LogHook writes notifications to a logger; errors log at error level.
type LogHook struct {
	Logger logger.Logger
}

// Notify logs n.
func (h LogHook) Notify(_ context.Context, n Notification) error {
	log := logger.Normalize(h.Logger)
	keyvals := []any{"page", n.Page, "action", n.Action, "level", string(n.Level)}
	if n.Level == LevelError {
		log.Error(n.Message, keyvals...)
		return nil
	}
	log.Info(n.Message, keyvals...)
	return nil
}

type noopNotificationHook struct{}

func (noopNotificationHook) Notify(context.Context, Notification) error { return nil }

// NewNotification builds a notification with a fresh id and timestamp.
func NewNotification(level NotificationLevel, page, action, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Page:      page,
		Action:    action,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
