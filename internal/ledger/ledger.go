// Package ledger provides the single mutation entry point for all ledger
// state. The execution environment this service models guarantees a global
// total order over mutating calls and all-or-nothing commits; Execute
// recreates that contract in-process.
package ledger

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"authchain/internal/eventlog"
	dErrors "authchain/pkg/domain-errors"
	txcontext "authchain/pkg/platform/tx"
)

// Ledger serializes mutating operations and guarantees that the state change
// and its event commit together or not at all.
//
// The mutex enforces the total order: every operation observes the latest
// committed state, so services re-validate all preconditions inside Execute
// rather than trusting anything read earlier. Services keep every
// precondition check ahead of the first store write, which makes the
// in-memory path atomic by construction; the SQL path additionally rolls the
// transaction back on error.
type Ledger struct {
	mu     sync.Mutex
	db     *sql.DB
	events *eventlog.Publisher
	logger *slog.Logger
}

type Option func(*Ledger)

// WithDB routes every operation through a SQL transaction shared by all
// stores via the context.
func WithDB(db *sql.DB) Option {
	return func(l *Ledger) { l.db = db }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func New(events *eventlog.Publisher, opts ...Option) *Ledger {
	l := &Ledger{events: events, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Execute runs op as one indivisible ledger transaction. Events recorded by
// op through eventlog.Record are persisted at commit time and fanned out to
// live sinks only after the commit succeeds. If op returns an error the
// whole operation aborts with zero observable side effects and the error is
// surfaced unchanged.
func (l *Ledger) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := eventlog.NewRecorder()
	ctx = eventlog.WithRecorder(ctx, rec)

	if l.db == nil {
		if err := op(ctx); err != nil {
			return err
		}
		return l.commit(ctx, rec)
	}

	sqlTx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "begin ledger transaction")
	}
	txCtx := txcontext.WithTx(ctx, sqlTx)

	if err := op(txCtx); err != nil {
		l.rollback(sqlTx)
		return err
	}
	if err := l.appendStaged(txCtx, rec); err != nil {
		l.rollback(sqlTx)
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "commit ledger transaction")
	}

	l.events.Notify(rec.Events())
	return nil
}

func (l *Ledger) commit(ctx context.Context, rec *eventlog.Recorder) error {
	if err := l.appendStaged(ctx, rec); err != nil {
		return err
	}
	l.events.Notify(rec.Events())
	return nil
}

func (l *Ledger) appendStaged(ctx context.Context, rec *eventlog.Recorder) error {
	events := rec.Events()
	for i := range events {
		if err := l.events.Append(ctx, &events[i]); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "append ledger event")
		}
	}
	return nil
}

func (l *Ledger) rollback(sqlTx *sql.Tx) {
	if err := sqlTx.Rollback(); err != nil {
		l.logger.Error("ledger transaction rollback failed", "error", err)
	}
}
