package eventlog

import (
	"context"

	id "authchain/pkg/domain"
)

// Store persists the append-only event sequence. Implementations assign Seq
// on append and never delete or rewrite entries.
type Store interface {
	Append(ctx context.Context, event *Event) error
	List(ctx context.Context, limit int) ([]Event, error)
	ListByProduct(ctx context.Context, code id.ProductCode) ([]Event, error)
}
