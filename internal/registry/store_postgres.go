package registry

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
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresRoleStore persists the account→role mapping.
type PostgresRoleStore struct {
	db *sql.DB
}

func NewPostgresRoleStore(db *sql.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func (s *PostgresRoleStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresRoleStore) Role(ctx context.Context, account id.Account) (id.Role, error) {
	var role int16
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT role FROM account_roles WHERE account = $1`,
		account.String(),
	).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return id.RoleUnassigned, nil
		}
		return id.RoleUnassigned, fmt.Errorf("find role: %w", err)
	}
	return id.Role(role), nil
}

func (s *PostgresRoleStore) SetRole(ctx context.Context, account id.Account, role id.Role) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO account_roles (account, role)
		VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET role = EXCLUDED.role
	`, account.String(), int16(role))
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

// PostgresAdminStore persists admin grants.
type PostgresAdminStore struct {
	db *sql.DB
}

func NewPostgresAdminStore(db *sql.DB) *PostgresAdminStore {
	return &PostgresAdminStore{db: db}
}

func (s *PostgresAdminStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresAdminStore) Save(ctx context.Context, record AdminRecord) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO admin_records (account, granted_by, granted_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account) DO UPDATE SET granted_by = EXCLUDED.granted_by, granted_at = EXCLUDED.granted_at
	`, record.Account.String(), record.GrantedBy.String(), record.GrantedAt)
	if err != nil {
		return fmt.Errorf("save admin record: %w", err)
	}
	return nil
}

func (s *PostgresAdminStore) Find(ctx context.Context, account id.Account) (AdminRecord, error) {
	var (
		record    AdminRecord
		acct      string
		grantedBy string
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT account, granted_by, granted_at FROM admin_records WHERE account = $1`,
		account.String(),
	).Scan(&acct, &grantedBy, &record.GrantedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AdminRecord{}, sentinel.ErrNotFound
		}
		return AdminRecord{}, fmt.Errorf("find admin record: %w", err)
	}
	record.Account = id.Account(acct)
	record.GrantedBy = id.Account(grantedBy)
	return record, nil
}

func (s *PostgresAdminStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_records`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count admin records: %w", err)
	}
	return count, nil
}
