package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
	txcontext "authchain/pkg/platform/tx"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execer(ctx context.Context, db *sql.DB) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// PostgresConsumerStore persists consumer profiles.
type PostgresConsumerStore struct {
	db *sql.DB
}

func NewPostgresConsumerStore(db *sql.DB) *PostgresConsumerStore {
	return &PostgresConsumerStore{db: db}
}

func (s *PostgresConsumerStore) Save(ctx context.Context, profile *ConsumerProfile) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO consumer_profiles (account, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (account) DO NOTHING
	`, profile.Account.String(), profile.RegisteredAt)
	if err != nil {
		return fmt.Errorf("save consumer profile: %w", err)
	}
	return nil
}

func (s *PostgresConsumerStore) Find(ctx context.Context, account id.Account) (*ConsumerProfile, error) {
	var (
		profile ConsumerProfile
		acct    string
	)
	err := execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT account, registered_at FROM consumer_profiles WHERE account = $1
	`, account.String()).Scan(&acct, &profile.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consumer profile: %w", err)
	}
	profile.Account = id.Account(acct)
	return &profile, nil
}

// PostgresSaleStore persists cumulative sale records.
type PostgresSaleStore struct {
	db *sql.DB
}

func NewPostgresSaleStore(db *sql.DB) *PostgresSaleStore {
	return &PostgresSaleStore{db: db}
}

func (s *PostgresSaleStore) Save(ctx context.Context, record *SaleRecord) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO sale_records (code, consumer, purchased, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code, consumer) DO UPDATE SET
			purchased = EXCLUDED.purchased,
			updated_at = EXCLUDED.updated_at
	`, record.Code.String(), record.Consumer.String(), record.Purchased, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save sale record: %w", err)
	}
	return nil
}

func (s *PostgresSaleStore) Find(ctx context.Context, code id.ProductCode, consumer id.Account) (*SaleRecord, error) {
	row := execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT code, consumer, purchased, updated_at
		FROM sale_records WHERE code = $1 AND consumer = $2
	`, code.String(), consumer.String())
	record, err := scanSaleRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find sale record: %w", err)
	}
	return record, nil
}

func (s *PostgresSaleStore) ListByProduct(ctx context.Context, code id.ProductCode) ([]SaleRecord, error) {
	rows, err := execer(ctx, s.db).QueryContext(ctx, `
		SELECT code, consumer, purchased, updated_at
		FROM sale_records WHERE code = $1 ORDER BY consumer
	`, code.String())
	if err != nil {
		return nil, fmt.Errorf("list sale records: %w", err)
	}
	defer rows.Close()

	var out []SaleRecord
	for rows.Next() {
		record, err := scanSaleRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan sale record: %w", err)
		}
		out = append(out, *record)
	}
	return out, rows.Err()
}

func scanSaleRecord(scan func(dest ...any) error) (*SaleRecord, error) {
	var (
		record   SaleRecord
		code     string
		consumer string
	)
	if err := scan(&code, &consumer, &record.Purchased, &record.UpdatedAt); err != nil {
		return nil, err
	}
	record.Code = id.ProductCode(code)
	record.Consumer = id.Account(consumer)
	return &record, nil
}
