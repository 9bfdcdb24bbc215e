package ports

import (
	"context"
	"fleet-dashboard/internal/domain"
)

// Sink for change notifications. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.ChangeEvent) error
}
