package eventlog

import (
	"context"
	"database/sql"
	"fmt"

	id "authchain/pkg/domain"
	txcontext "authchain/pkg/platform/tx"
)

// PostgresStore persists events in the ledger_events table. Appends performed
// inside a ledger transaction join that transaction via the context, so an
// aborted operation never leaves an event row behind.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const eventColumns = `seq, id, occurred_at, name, actor, account, role, brand, uid, product_code, product_name, quantity, handler`

func (s *PostgresStore) Append(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO ledger_events
			(id, occurred_at, name, actor, account, role, brand, uid, product_code, product_name, quantity, handler)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING seq
	`
	err := s.querier(ctx).QueryRowContext(ctx, query,
		event.ID,
		event.Timestamp,
		event.Name,
		event.Actor.String(),
		event.Account.String(),
		event.Role,
		event.Brand,
		event.UID,
		event.ProductCode.String(),
		event.ProductName,
		event.Quantity,
		event.Handler.String(),
	).Scan(&event.Seq)
	if err != nil {
		return fmt.Errorf("append ledger event: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_events ORDER BY seq`, eventColumns)
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *PostgresStore) ListByProduct(ctx context.Context, code id.ProductCode) ([]Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_events WHERE product_code = $1 ORDER BY seq`, eventColumns)
	rows, err := s.querier(ctx).QueryContext(ctx, query, code.String())
	if err != nil {
		return nil, fmt.Errorf("list ledger events by product: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var (
			ev      Event
			actor   string
			account string
			code    string
			handler string
		)
		if err := rows.Scan(
			&ev.Seq, &ev.ID, &ev.Timestamp, &ev.Name,
			&actor, &account, &ev.Role, &ev.Brand, &ev.UID,
			&code, &ev.ProductName, &ev.Quantity, &handler,
		); err != nil {
			return nil, fmt.Errorf("scan ledger event: %w", err)
		}
		ev.Actor = id.Account(actor)
		ev.Account = id.Account(account)
		ev.ProductCode = id.ProductCode(code)
		ev.Handler = id.Account(handler)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger events: %w", err)
	}
	return out, nil
}
