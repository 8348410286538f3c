package eventlog

import (
	"context"

	dErrors "authchain/pkg/domain-errors"
)

// Recorder stages events produced during one ledger transaction. The ledger
// installs a fresh recorder per Execute call and persists the staged events
// only when the operation commits, so aborted operations leave no trace in
// the log.
type Recorder struct {
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(ev Event) {
	r.events = append(r.events, ev)
}

// Events returns the staged events in record order.
func (r *Recorder) Events() []Event {
	return r.events
}

type recorderKey struct{}

// WithRecorder installs a recorder into the context.
func WithRecorder(ctx context.Context, r *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, r)
}

// Record stages an event on the transaction's recorder. It fails when no
// recorder is present, which means the caller mutated state outside the
// ledger's Execute entry point.
func Record(ctx context.Context, ev Event) error {
	r, ok := ctx.Value(recorderKey{}).(*Recorder)
	if !ok {
		return dErrors.New(dErrors.CodeInternal, "event recorded outside a ledger transaction")
	}
	r.add(ev)
	return nil
}
