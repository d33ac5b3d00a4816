// Package publisher emits audit events synchronously or through a buffered
// channel drained by a background goroutine.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
)

// Publisher writes audit events to a store. In sync mode Emit blocks until
// the append completes; with an async buffer Emit enqueues and a worker
// goroutine appends, dropping to a warning log on failure.
type Publisher struct {
	store audit.Store

	inbox chan audit.Event
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches Emit to async mode with the given channel
// capacity. Close drains the buffer before returning.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one event. The timestamp defaults to now.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.Action(event.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	case <-p.done:
		// Late emit after Close; append directly rather than losing it.
		return p.store.Append(ctx, event)
	}
}

// List returns the audit trail for one claim.
func (p *Publisher) List(ctx context.Context, claimID id.ClaimID) ([]audit.Event, error) {
	return p.store.ListByClaim(ctx, claimID)
}

// Close stops the background worker, draining any buffered events first.
func (p *Publisher) Close() {
	p.once.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			p.append(event)
		case <-p.done:
			// Flush whatever is still buffered, then stop.
			for {
				select {
				case event := <-p.inbox:
					p.append(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) append(event audit.Event) {
	if err := p.store.Append(context.Background(), event); err != nil {
		p.logger.Warn("audit append failed",
			"action", event.Action,
			"claim_id", event.ClaimID.String(),
			"error", err)
	}
}
