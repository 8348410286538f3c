package manufacturer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "authchain/pkg/domain"
	"authchain/pkg/platform/sentinel"
	txcontext "authchain/pkg/platform/tx"
)

// PostgresProfileStore persists manufacturer profiles.
type PostgresProfileStore struct {
	db *sql.DB
}

func NewPostgresProfileStore(db *sql.DB) *PostgresProfileStore {
	return &PostgresProfileStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresProfileStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresProfileStore) Save(ctx context.Context, profile *Profile) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO manufacturer_profiles
			(account, brand_name, regulatory_id, registration_number, year_of_registration, location, verified, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (account) DO UPDATE SET
			brand_name = EXCLUDED.brand_name,
			regulatory_id = EXCLUDED.regulatory_id,
			registration_number = EXCLUDED.registration_number,
			year_of_registration = EXCLUDED.year_of_registration,
			location = EXCLUDED.location,
			verified = EXCLUDED.verified,
			updated_at = EXCLUDED.updated_at
	`,
		profile.Account.String(),
		profile.BrandName,
		profile.RegulatoryID,
		profile.RegistrationNumber,
		profile.YearOfRegistration,
		profile.Location,
		profile.Verified,
		profile.RegisteredAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save manufacturer profile: %w", err)
	}
	return nil
}

func (s *PostgresProfileStore) Find(ctx context.Context, account id.Account) (*Profile, error) {
	var (
		profile Profile
		acct    string
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT account, brand_name, regulatory_id, registration_number, year_of_registration, location, verified, registered_at, updated_at
		FROM manufacturer_profiles WHERE account = $1
	`, account.String()).Scan(
		&acct,
		&profile.BrandName,
		&profile.RegulatoryID,
		&profile.RegistrationNumber,
		&profile.YearOfRegistration,
		&profile.Location,
		&profile.Verified,
		&profile.RegisteredAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find manufacturer profile: %w", err)
	}
	profile.Account = id.Account(acct)
	return &profile, nil
}
