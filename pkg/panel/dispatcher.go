package panel

import (
	"context"
	"sync"
)

// Dispatcher delivers events to all handlers in order.
type Dispatcher struct {
	Events <-chan Event

	handlers []EventHandler
	lock     sync.RWMutex
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(events <-chan Event) *Dispatcher {
	return &Dispatcher{Events: events}
}

// AddHandler registers handlers.
func (d *Dispatcher) AddHandler(handlers ...EventHandler) *Dispatcher {
	d.lock.Lock()
	d.handlers = append(d.handlers, handlers...)
	d.lock.Unlock()
	return d
}

// Dispatch delivers one event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	d.lock.RLock()
	handlers := d.handlers
	d.lock.RUnlock()
	for _, h := range handlers {
		h.HandleEvent(ctx, ev)
	}
}

// Run implements framework.Runnable.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.Events:
			if !ok {
				return nil
			}
			d.Dispatch(ctx, ev)
		}
	}
}
