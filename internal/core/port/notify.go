package port

import (
	"context"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/domain"
)

//go:generate mockgen -source=notify.go -destination=mock/notify.go -package=mock
type Notifier interface {
	Notify(kind domain.ChannelKind, identity string, event string, payload any) error
}

// Mailer never blocks and never reports delivery failures.
type Mailer interface {
	SendEmail(kind string, recipient string, payload any)
}

// OrderStaging tracks orders still open for grabbing.
type OrderStaging interface {
	Stage(ctx context.Context, orderID string, ttl time.Duration) error
	IsOpen(ctx context.Context, orderID string) (bool, error)
	Remove(ctx context.Context, orderID string) error
}
