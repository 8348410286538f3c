package eventlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	id "authchain/pkg/domain"
)

// Publisher owns the committed side of the event log: it persists events via
// the store and hands them to the outbox channel for sink fan-out. Only the
// ledger calls Append/Notify; everything else reads.
type Publisher struct {
	store  Store
	outbox chan Event
	logger *slog.Logger
}

const defaultOutboxSize = 256

type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func WithOutboxSize(n int) PublisherOption {
	return func(p *Publisher) { p.outbox = make(chan Event, n) }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		outbox: make(chan Event, defaultOutboxSize),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append stamps and persists a single event. Inside a ledger transaction the
// store write joins the transaction, so the event commits atomically with the
// state change that produced it.
func (p *Publisher) Append(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// Notify hands committed events to the outbox for sink delivery. Delivery is
// best effort: a full outbox drops for the live sinks (the store remains the
// source of truth) rather than stalling the serialized ledger.
func (p *Publisher) Notify(events []Event) {
	for _, ev := range events {
		select {
		case p.outbox <- ev:
		default:
			p.logger.Warn("event outbox full, sink delivery skipped",
				"event", ev.Name,
				"seq", ev.Seq,
			)
		}
	}
}

// Outbox exposes the committed-event stream for the worker.
func (p *Publisher) Outbox() <-chan Event {
	return p.outbox
}

// List returns committed events in sequence order.
func (p *Publisher) List(ctx context.Context, limit int) ([]Event, error) {
	return p.store.List(ctx, limit)
}

// ListByProduct returns the committed history of one product code.
func (p *Publisher) ListByProduct(ctx context.Context, code id.ProductCode) ([]Event, error) {
	return p.store.ListByProduct(ctx, code)
}
