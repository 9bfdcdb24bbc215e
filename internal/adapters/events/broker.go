package events

import (
	"context"
	"fleet-dashboard/internal/domain"
	"sync"
)

// Broker fans events out to in-process subscribers. Slow subscribers
// miss events instead of blocking publishers.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan domain.ChangeEvent]struct{}
	size int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broker{subs: make(map[chan domain.ChangeEvent]struct{}), size: buffer}
}

// Subscribe registers a subscriber. The returned cancel func closes the channel.
func (b *Broker) Subscribe() (<-chan domain.ChangeEvent, func()) {
	ch := make(chan domain.ChangeEvent, b.size)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) Publish(ctx context.Context, evt domain.ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}
