package cartsync

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Cheertaboi/storefront-cart/internal/cartapi"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a transient message for the shopper, the toast of a web
// storefront.
type Notification struct {
	Level   Level
	Message string
	Err     error
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to a slog.Logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	if n.Level == LevelError {
		log.ErrorContext(ctx, n.Message, slog.Any("err", n.Err))
		return
	}
	log.InfoContext(ctx, n.Message)
}

// UserMessage prefers the backend's own wording over transport detail.
func UserMessage(err error) string {
	var apiErr *cartapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
