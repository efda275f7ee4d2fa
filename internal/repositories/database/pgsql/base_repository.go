package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the pool shared by the pgx repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// inTx runs fn in a transaction that commits only when fn returns nil.
// Errors already classified by fn pass through untouched.
func (r *BaseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	err := pgx.BeginFunc(ctx, r.Pool, fn)
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "transaction failed", err)
}
