// Package publisher emits audit events to a pluggable store, either
// synchronously or through a bounded in-process buffer.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/platform/sentinel"
)

// Store is the persistence sink for audit events.
type Store interface {
	Append(ctx context.Context, event audit.Event) error
}

// Lister is implemented by stores that support reading events back.
// Fire-and-forget sinks such as Kafka do not.
type Lister interface {
	ListByTransaction(ctx context.Context, transactionID string) ([]audit.Event, error)
}

// Publisher captures structured audit events. In sync mode Emit writes
// through to the store; with an async buffer Emit enqueues and a background
// worker drains, dropping events when the buffer is full rather than
// blocking the request path.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox chan audit.Event
	done  chan struct{}
	once  sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		go p.drain()
	}
	return p
}

// Emit records an event. A zero timestamp is stamped with the current time.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", event.Action)
		return nil
	}
}

// List reads back events for a transaction when the store supports it.
func (p *Publisher) List(ctx context.Context, transactionID string) ([]audit.Event, error) {
	lister, ok := p.store.(Lister)
	if !ok {
		return nil, sentinel.ErrUnavailable
	}
	return lister.ListByTransaction(ctx, transactionID)
}

// Close stops the async worker after draining any buffered events.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("audit append failed", "action", event.Action, "error", err)
		}
	}
}
