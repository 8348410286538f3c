package eventlog

import (
	"context"
	"log/slog"
)

// Sink receives committed events after the owning transaction has committed.
// Sinks are observability surfaces: a failing sink is logged and skipped,
// never allowed to fail or delay a ledger operation.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event Event) error
}

// Worker drains the publisher's outbox into the configured sinks.
type Worker struct {
	outbox <-chan Event
	sinks  []Sink
	logger *slog.Logger
}

func NewWorker(outbox <-chan Event, sinks []Sink, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{outbox: outbox, sinks: sinks, logger: logger}
}

// Run delivers events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.outbox:
			for _, sink := range w.sinks {
				if err := sink.Publish(ctx, event); err != nil {
					w.logger.Error("event sink publish failed",
						"sink", sink.Name(),
						"event", event.Name,
						"seq", event.Seq,
						"error", err,
					)
				}
			}
		}
	}
}
