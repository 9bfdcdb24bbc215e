package ui

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrBusy is returned when a save, delete or route calculation is
	// triggered while the previous one is still running.
	ErrBusy = errors.New("operation already in progress")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled by user")
)

const busyMessage = "Aguarde, operação em andamento"

// inflight admits one operation at a time and rejects the rest.
type inflight struct {
	mu sync.Mutex
}

func (g *inflight) run(n *Notifier, fn func() error) error {
	if !g.mu.TryLock() {
		n.Info(busyMessage)
		return ErrBusy
	}
	defer g.mu.Unlock()
	return fn()
}

// sharedLoad runs fn once for all concurrent callers of key. The fetch is
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func sharedLoad(ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) error) error {
	detached := context.WithoutCancel(ctx)
	ch := g.DoChan(key, func() (any, error) {
		return nil, fn(detached)
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}
