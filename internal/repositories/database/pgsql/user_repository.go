package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_flow_app/internal/models"
	"github.com/SscSPs/invoice_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
	user_id, name, email, password_hash, company_name, address, city, state, zip_code, country,
	phone, tax_id, currency, created_at, created_by, last_updated_at, last_updated_by, version, deleted_at`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);`,
		m.UserID, m.Name, m.Email, m.PasswordHash, m.CompanyName, m.Address, m.City, m.State, m.ZipCode, m.Country,
		m.Phone, m.TaxID, m.Currency, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version, m.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("email already registered")
		}
		return apperrors.NewAppError(500, "failed to save user", err)
	}
	return nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` AND deleted_at IS NULL;`, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query user", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findOne(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE users SET
			name = $1, company_name = $2, address = $3, city = $4, state = $5, zip_code = $6,
			country = $7, phone = $8, tax_id = $9, currency = $10,
			last_updated_at = $11, last_updated_by = $12, version = version + 1
		WHERE user_id = $13 AND deleted_at IS NULL;`,
		m.Name, m.CompanyName, m.Address, m.City, m.State, m.ZipCode,
		m.Country, m.Phone, m.TaxID, m.Currency,
		m.LastUpdatedAt, m.LastUpdatedBy, m.UserID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user not found or already deleted")
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE users
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE user_id = $3 AND deleted_at IS NULL;`, deletedAt, deletedBy, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark user as deleted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("user not found or already deleted")
	}
	return nil
}
