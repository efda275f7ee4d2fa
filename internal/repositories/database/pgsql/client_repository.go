package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_flow_app/internal/models"
	"github.com/SscSPs/invoice_flow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const clientColumns = `
	client_id, owner_id, name, email, phone, company, address, city, state, zip_code, country, notes,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		m.ClientID, m.OwnerID, m.Name, m.Email, m.Phone, m.Company, m.Address, m.City, m.State, m.ZipCode, m.Country, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("a client with email " + m.Email + " already exists")
		}
		return apperrors.NewAppError(500, "failed to insert client", err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, ownerID, clientID string) (*domain.Client, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE client_id = $1 AND owner_id = $2;`, clientID, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query client "+clientID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("client not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan client "+clientID, err)
	}
	client := mapping.ToDomainClient(m)
	return &client, nil
}

// ListClients returns an owner's clients by name. A non-empty search matches name, email or company.
func (r *PgxClientRepository) ListClients(ctx context.Context, ownerID string, search string, limit, offset int) ([]domain.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE owner_id = $1
		  AND ($2::text = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%' OR company ILIKE '%' || $2 || '%')
		ORDER BY name, client_id
		LIMIT $3 OFFSET $4;`, ownerID, search, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query clients", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Client])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan client rows", err)
	}
	return mapping.ToDomainClientSlice(ms), nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE clients SET
			name = $1, email = $2, phone = $3, company = $4, address = $5, city = $6, state = $7,
			zip_code = $8, country = $9, notes = $10, last_updated_at = $11, last_updated_by = $12,
			version = version + 1
		WHERE client_id = $13 AND owner_id = $14;`,
		m.Name, m.Email, m.Phone, m.Company, m.Address, m.City, m.State,
		m.ZipCode, m.Country, m.Notes, m.LastUpdatedAt, m.LastUpdatedBy,
		m.ClientID, m.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("a client with email " + m.Email + " already exists")
		}
		return apperrors.NewAppError(500, "failed to update client "+m.ClientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("client not found")
	}
	return nil
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, ownerID, clientID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1 AND owner_id = $2;`, clientID, ownerID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewInvalidStateError("client has invoices and cannot be deleted")
		}
		return apperrors.NewAppError(500, "failed to delete client "+clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("client not found")
	}
	return nil
}
