package custody

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

// PostgresRetailerStore persists retailer profiles.
type PostgresRetailerStore struct {
	db *sql.DB
}

func NewPostgresRetailerStore(db *sql.DB) *PostgresRetailerStore {
	return &PostgresRetailerStore{db: db}
}

func (s *PostgresRetailerStore) Save(ctx context.Context, profile *RetailerProfile) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO retailer_profiles (account, brand_name, registered_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account) DO UPDATE SET
			brand_name = EXCLUDED.brand_name,
			updated_at = EXCLUDED.updated_at
	`, profile.Account.String(), profile.BrandName, profile.RegisteredAt, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save retailer profile: %w", err)
	}
	return nil
}

func (s *PostgresRetailerStore) Find(ctx context.Context, account id.Account) (*RetailerProfile, error) {
	var (
		profile RetailerProfile
		acct    string
	)
	err := execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT account, brand_name, registered_at, updated_at
		FROM retailer_profiles WHERE account = $1
	`, account.String()).Scan(&acct, &profile.BrandName, &profile.RegisteredAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find retailer profile: %w", err)
	}
	profile.Account = id.Account(acct)
	return &profile, nil
}

// PostgresPersonnelStore persists logistics personnel records.
type PostgresPersonnelStore struct {
	db *sql.DB
}

func NewPostgresPersonnelStore(db *sql.DB) *PostgresPersonnelStore {
	return &PostgresPersonnelStore{db: db}
}

func (s *PostgresPersonnelStore) Save(ctx context.Context, record *LogisticsPersonnel) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO logistics_personnel (account, uid, brand, active, registered_by, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account) DO UPDATE SET
			uid = EXCLUDED.uid,
			brand = EXCLUDED.brand,
			active = EXCLUDED.active,
			registered_by = EXCLUDED.registered_by
	`, record.Account.String(), record.UID, record.Brand, record.Active, record.RegisteredBy.String(), record.RegisteredAt)
	if err != nil {
		return fmt.Errorf("save logistics personnel: %w", err)
	}
	return nil
}

func (s *PostgresPersonnelStore) Find(ctx context.Context, account id.Account) (*LogisticsPersonnel, error) {
	var (
		record LogisticsPersonnel
		acct   string
		by     string
	)
	err := execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT account, uid, brand, active, registered_by, registered_at
		FROM logistics_personnel WHERE account = $1
	`, account.String()).Scan(&acct, &record.UID, &record.Brand, &record.Active, &by, &record.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find logistics personnel: %w", err)
	}
	record.Account = id.Account(acct)
	record.RegisteredBy = id.Account(by)
	return &record, nil
}

// PostgresHoldingStore persists retailer holdings.
type PostgresHoldingStore struct {
	db *sql.DB
}

func NewPostgresHoldingStore(db *sql.DB) *PostgresHoldingStore {
	return &PostgresHoldingStore{db: db}
}

func (s *PostgresHoldingStore) Save(ctx context.Context, holding *Holding) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO retailer_holdings (code, retailer, received, sold, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code, retailer) DO UPDATE SET
			received = EXCLUDED.received,
			sold = EXCLUDED.sold,
			updated_at = EXCLUDED.updated_at
	`, holding.Code.String(), holding.Retailer.String(), holding.Received, holding.Sold, holding.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save retailer holding: %w", err)
	}
	return nil
}

func (s *PostgresHoldingStore) Find(ctx context.Context, code id.ProductCode, retailer id.Account) (*Holding, error) {
	row := execer(ctx, s.db).QueryRowContext(ctx, `
		SELECT code, retailer, received, sold, updated_at
		FROM retailer_holdings WHERE code = $1 AND retailer = $2
	`, code.String(), retailer.String())
	holding, err := scanHolding(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find retailer holding: %w", err)
	}
	return holding, nil
}

func (s *PostgresHoldingStore) ListByProduct(ctx context.Context, code id.ProductCode) ([]Holding, error) {
	rows, err := execer(ctx, s.db).QueryContext(ctx, `
		SELECT code, retailer, received, sold, updated_at
		FROM retailer_holdings WHERE code = $1 ORDER BY retailer
	`, code.String())
	if err != nil {
		return nil, fmt.Errorf("list retailer holdings: %w", err)
	}
	defer rows.Close()

	var out []Holding
	for rows.Next() {
		holding, err := scanHolding(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan retailer holding: %w", err)
		}
		out = append(out, *holding)
	}
	return out, rows.Err()
}

func scanHolding(scan func(dest ...any) error) (*Holding, error) {
	var (
		holding  Holding
		code     string
		retailer string
	)
	if err := scan(&code, &retailer, &holding.Received, &holding.Sold, &holding.UpdatedAt); err != nil {
		return nil, err
	}
	holding.Code = id.ProductCode(code)
	holding.Retailer = id.Account(retailer)
	return &holding, nil
}

// PostgresTransferStore persists the append-only transfer history.
type PostgresTransferStore struct {
	db *sql.DB
}

func NewPostgresTransferStore(db *sql.DB) *PostgresTransferStore {
	return &PostgresTransferStore{db: db}
}

func (s *PostgresTransferStore) Append(ctx context.Context, transfer *Transfer) error {
	_, err := execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO transfers (id, code, from_account, retailer, quantity, handler, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		transfer.ID,
		transfer.Code.String(),
		transfer.From.String(),
		transfer.Retailer.String(),
		transfer.Quantity,
		transfer.Handler.String(),
		transfer.At,
	)
	if err != nil {
		return fmt.Errorf("append transfer: %w", err)
	}
	return nil
}

func (s *PostgresTransferStore) ListByProduct(ctx context.Context, code id.ProductCode) ([]Transfer, error) {
	rows, err := execer(ctx, s.db).QueryContext(ctx, `
		SELECT id, code, from_account, retailer, quantity, handler, at
		FROM transfers WHERE code = $1 ORDER BY at, id
	`, code.String())
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		var (
			transfer Transfer
			productCode, from, retailer, handler string
		)
		if err := rows.Scan(&transfer.ID, &productCode, &from, &retailer, &transfer.Quantity, &handler, &transfer.At); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		transfer.Code = id.ProductCode(productCode)
		transfer.From = id.Account(from)
		transfer.Retailer = id.Account(retailer)
		transfer.Handler = id.Account(handler)
		out = append(out, transfer)
	}
	return out, rows.Err()
}
