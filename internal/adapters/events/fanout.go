package events

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/ports"
)

// Fanout publishes each event to every sink and joins their errors.
type Fanout []ports.EventPublisher

func (f Fanout) Publish(ctx context.Context, evt domain.ChangeEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
