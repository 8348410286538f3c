package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
	txcontext "authchain/pkg/platform/tx"
)

// PostgresProductStore persists product stock records.
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresProductStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresProductStore) Save(ctx context.Context, product *Product) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO products
			(code, name, description, price, expiry_date, batch_id, production_date, batch_label, image_ref, manufacturer, on_hand, total_added, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			expiry_date = EXCLUDED.expiry_date,
			batch_id = EXCLUDED.batch_id,
			production_date = EXCLUDED.production_date,
			batch_label = EXCLUDED.batch_label,
			image_ref = EXCLUDED.image_ref,
			on_hand = EXCLUDED.on_hand,
			total_added = EXCLUDED.total_added,
			updated_at = EXCLUDED.updated_at
	`,
		product.Code.String(),
		product.Name,
		product.Description,
		product.Price,
		product.ExpiryDate,
		product.BatchID,
		product.ProductionDate,
		product.BatchLabel,
		product.ImageRef,
		product.Manufacturer.String(),
		product.OnHand,
		product.TotalAdded,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *PostgresProductStore) Find(ctx context.Context, code id.ProductCode) (*Product, error) {
	var (
		product      Product
		productCode  string
		manufacturer string
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT code, name, description, price, expiry_date, batch_id, production_date, batch_label, image_ref, manufacturer, on_hand, total_added, created_at, updated_at
		FROM products WHERE code = $1
	`, code.String()).Scan(
		&productCode,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ExpiryDate,
		&product.BatchID,
		&product.ProductionDate,
		&product.BatchLabel,
		&product.ImageRef,
		&manufacturer,
		&product.OnHand,
		&product.TotalAdded,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	product.Code = id.ProductCode(productCode)
	product.Manufacturer = id.Account(manufacturer)
	return &product, nil
}
