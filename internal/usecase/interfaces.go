package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/clinitech/internal/infra/queue"
)

type NotificationPublisher interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

// Clock is injected so tests can pin "today".
type Clock func() time.Time
