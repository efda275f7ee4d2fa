package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_flow_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_flow_app/internal/models"
	"github.com/SscSPs/invoice_flow_app/internal/utils/mapping"
	"github.com/SscSPs/invoice_flow_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const invoiceColumns = `
	i.invoice_id, i.owner_id, i.invoice_number, i.status, i.client_id, i.issue_date, i.due_date,
	i.subtotal, i.tax_rate, i.tax_amount, i.discount_amount, i.total, i.amount_paid, i.currency,
	i.notes, i.terms, i.sent_at, i.viewed_at, i.paid_at,
	i.is_recurring, i.recurring_interval, i.next_recurring_date, i.view_token,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by, i.version,
	c.name AS client_name, c.email AS client_email, c.company AS client_company`

const invoiceFrom = `
	FROM invoices i
	JOIN clients c ON c.client_id = i.client_id`

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func (r *PgxInvoiceRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	modelInvoices, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.InvoiceWithClient])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan invoice rows", err)
	}
	return mapping.ToDomainInvoiceSlice(modelInvoices), nil
}

// findOne loads a single invoice with all of its children.
func (r *PgxInvoiceRepository) findOne(ctx context.Context, where string, arg ...any) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceFrom + ` WHERE ` + where + `;`
	rows, err := r.Pool.Query(ctx, query, arg...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.InvoiceWithClient])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice not found")
		}
		return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
	}
	invoice := mapping.ToDomainInvoiceWithClient(m)
	if err := r.loadChildren(ctx, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *PgxInvoiceRepository) loadChildren(ctx context.Context, invoice *domain.Invoice) error {
	itemRows, err := r.Pool.Query(ctx, `
		SELECT line_item_id, invoice_id, description, quantity, unit_price, amount, sort_order
		FROM line_items WHERE invoice_id = $1 ORDER BY sort_order;`, invoice.InvoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query line items for invoice "+invoice.InvoiceID, err)
	}
	items, err := pgx.CollectRows(itemRows, pgx.RowToStructByName[models.LineItem])
	if err != nil {
		return apperrors.NewAppError(500, "failed to scan line items for invoice "+invoice.InvoiceID, err)
	}
	invoice.LineItems = make([]domain.LineItem, len(items))
	for i, item := range items {
		invoice.LineItems[i] = mapping.ToDomainLineItem(item)
	}

	paymentRows, err := r.Pool.Query(ctx, `
		SELECT payment_id, invoice_id, amount, method, transaction_id, notes, paid_at
		FROM payments WHERE invoice_id = $1 ORDER BY paid_at;`, invoice.InvoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query payments for invoice "+invoice.InvoiceID, err)
	}
	payments, err := pgx.CollectRows(paymentRows, pgx.RowToStructByName[models.Payment])
	if err != nil {
		return apperrors.NewAppError(500, "failed to scan payments for invoice "+invoice.InvoiceID, err)
	}
	invoice.Payments = make([]domain.Payment, len(payments))
	for i, p := range payments {
		invoice.Payments[i] = mapping.ToDomainPayment(p)
	}

	activityRows, err := r.Pool.Query(ctx, `
		SELECT activity_id, invoice_id, action, description, metadata, created_at
		FROM activities WHERE invoice_id = $1 ORDER BY created_at;`, invoice.InvoiceID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query activities for invoice "+invoice.InvoiceID, err)
	}
	activities, err := pgx.CollectRows(activityRows, pgx.RowToStructByName[models.Activity])
	if err != nil {
		return apperrors.NewAppError(500, "failed to scan activities for invoice "+invoice.InvoiceID, err)
	}
	invoice.Activities = make([]domain.Activity, len(activities))
	for i, a := range activities {
		invoice.Activities[i] = mapping.ToDomainActivity(a)
	}
	return nil
}

// FindInvoiceByID retrieves an owner's invoice with its children.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	return r.findOne(ctx, `i.invoice_id = $1 AND i.owner_id = $2`, invoiceID, ownerID)
}

// FindInvoiceByViewToken retrieves an invoice through its public view token.
func (r *PgxInvoiceRepository) FindInvoiceByViewToken(ctx context.Context, viewToken string) (*domain.Invoice, error) {
	return r.findOne(ctx, `i.view_token = $1`, viewToken)
}

func (r *PgxInvoiceRepository) FindInvoiceOwnerID(ctx context.Context, invoiceID string) (string, error) {
	var ownerID string
	err := r.Pool.QueryRow(ctx, `SELECT owner_id FROM invoices WHERE invoice_id = $1;`, invoiceID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("invoice not found")
		}
		return "", apperrors.NewAppError(500, "failed to find owner of invoice "+invoiceID, err)
	}
	return ownerID, nil
}

// LastInvoiceNumber returns the number of the owner's most recently created invoice.
func (r *PgxInvoiceRepository) LastInvoiceNumber(ctx context.Context, ownerID string) (string, error) {
	var number string
	err := r.Pool.QueryRow(ctx, `
		SELECT invoice_number FROM invoices
		WHERE owner_id = $1
		ORDER BY created_at DESC, invoice_number DESC
		LIMIT 1;`, ownerID).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.NewAppError(500, "failed to read last invoice number", err)
	}
	return number, nil
}

// ListInvoices retrieves a page of an owner's invoices ordered by issue date, newest first.
// It returns the invoices, a token for the next page (if any), and an error.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, ownerID string, filter portsrepo.InvoiceListFilter, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	args := []any{ownerID}
	filterClause := `WHERE i.owner_id = $1`
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		filterClause += ` AND i.status = $` + strconv.Itoa(len(args))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		filterClause += ` AND i.client_id = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, cursor.SortDate, cursor.CreatedAt, cursor.ID)
		n := len(args)
		filterClause += ` AND (i.issue_date, i.created_at, i.invoice_id) < ($` + strconv.Itoa(n-2) + `, $` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}

	args = append(args, fetchLimit)
	query := `SELECT ` + invoiceColumns + invoiceFrom + ` ` + filterClause +
		` ORDER BY i.issue_date DESC, i.created_at DESC, i.invoice_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	invoices, err := r.queryInvoices(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.Cursor{SortDate: last.IssueDate, CreatedAt: last.CreatedAt, ID: last.InvoiceID}.Encode()
		nextTokenVal = &token
		invoices = invoices[:limit]
	}
	return invoices, nextTokenVal, nil
}

func insertLineItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, item := range items {
		m := mapping.ToModelLineItem(item)
		m.InvoiceID = invoiceID
		m.SortOrder = i
		batch.Queue(`
			INSERT INTO line_items (line_item_id, invoice_id, description, quantity, unit_price, amount, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			m.LineItemID, m.InvoiceID, m.Description, m.Quantity, m.UnitPrice, m.Amount, m.SortOrder)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert line items for invoice "+invoiceID, err)
	}
	return nil
}

func insertActivity(ctx context.Context, tx pgx.Tx, activity domain.Activity) error {
	m := mapping.ToModelActivity(activity)
	_, err := tx.Exec(ctx, `
		INSERT INTO activities (activity_id, invoice_id, action, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		m.ActivityID, m.InvoiceID, m.Action, m.Description, m.Metadata, m.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert activity for invoice "+m.InvoiceID, err)
	}
	return nil
}

func insertInvoiceRow(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	_, err := tx.Exec(ctx, `
		INSERT INTO invoices (
			invoice_id, owner_id, invoice_number, status, client_id, issue_date, due_date,
			subtotal, tax_rate, tax_amount, discount_amount, total, amount_paid, currency,
			notes, terms, sent_at, viewed_at, paid_at,
			is_recurring, recurring_interval, next_recurring_date, view_token,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, $24, $25, $26, $27, $28);`,
		m.InvoiceID, m.OwnerID, m.InvoiceNumber, m.Status, m.ClientID, m.IssueDate, m.DueDate,
		m.Subtotal, m.TaxRate, m.TaxAmount, m.DiscountAmount, m.Total, m.AmountPaid, m.Currency,
		m.Notes, m.Terms, m.SentAt, m.ViewedAt, m.PaidAt,
		m.IsRecurring, m.RecurringInterval, m.NextRecurringDate, m.ViewToken,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("invoice number " + m.InvoiceNumber + " already exists")
		}
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("client not found")
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}
	return nil
}

// SaveInvoice persists a new invoice with its line items and creation activity in one transaction.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertInvoiceRow(ctx, tx, invoice); err != nil {
			return err
		}
		if err := insertLineItems(ctx, tx, invoice.InvoiceID, invoice.LineItems); err != nil {
			return err
		}
		return insertActivity(ctx, tx, activity)
	})
}

// updateInvoiceRow writes every mutable column. The caller's invoice carries the version it
// was read at; the row must still hold it, and is bumped to the next version.
func updateInvoiceRow(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	cmdTag, err := tx.Exec(ctx, `
		UPDATE invoices SET
			status = $1, client_id = $2, issue_date = $3, due_date = $4,
			subtotal = $5, tax_rate = $6, tax_amount = $7, discount_amount = $8, total = $9, amount_paid = $10,
			currency = $11, notes = $12, terms = $13, sent_at = $14, viewed_at = $15, paid_at = $16,
			is_recurring = $17, recurring_interval = $18, next_recurring_date = $19,
			last_updated_at = $20, last_updated_by = $21, version = version + 1
		WHERE invoice_id = $22 AND owner_id = $23 AND version = $24;`,
		m.Status, m.ClientID, m.IssueDate, m.DueDate,
		m.Subtotal, m.TaxRate, m.TaxAmount, m.DiscountAmount, m.Total, m.AmountPaid,
		m.Currency, m.Notes, m.Terms, m.SentAt, m.ViewedAt, m.PaidAt,
		m.IsRecurring, m.RecurringInterval, m.NextRecurringDate,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.InvoiceID, m.OwnerID, m.Version,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("client not found")
		}
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConflictError("invoice " + m.InvoiceID + " was modified concurrently")
	}
	return nil
}

// UpdateInvoice replaces the invoice row and its line items.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, activity *domain.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateInvoiceRow(ctx, tx, invoice); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
			return apperrors.NewAppError(500, "failed to clear line items for invoice "+invoice.InvoiceID, err)
		}
		if err := insertLineItems(ctx, tx, invoice.InvoiceID, invoice.LineItems); err != nil {
			return err
		}
		if activity != nil {
			if err := insertActivity(ctx, tx, *activity); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveTransition stores a status change and its activity.
func (r *PgxInvoiceRepository) SaveTransition(ctx context.Context, invoice domain.Invoice, activity domain.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateInvoiceRow(ctx, tx, invoice); err != nil {
			return err
		}
		return insertActivity(ctx, tx, activity)
	})
}

// ApplyPayment stores the payment, the invoice's new money fields and the activity atomically.
func (r *PgxInvoiceRepository) ApplyPayment(ctx context.Context, invoice domain.Invoice, payment domain.Payment, activity domain.Activity) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateInvoiceRow(ctx, tx, invoice); err != nil {
			return err
		}
		p := mapping.ToModelPayment(payment)
		_, err := tx.Exec(ctx, `
			INSERT INTO payments (payment_id, invoice_id, amount, method, transaction_id, notes, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			p.PaymentID, p.InvoiceID, p.Amount, p.Method, p.TransactionID, p.Notes, p.PaidAt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert payment for invoice "+p.InvoiceID, err)
		}
		return insertActivity(ctx, tx, activity)
	})
}

func (r *PgxInvoiceRepository) AppendActivity(ctx context.Context, activity domain.Activity) error {
	m := mapping.ToModelActivity(activity)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO activities (activity_id, invoice_id, action, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		m.ActivityID, m.InvoiceID, m.Action, m.Description, m.Metadata, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError("invoice not found")
		}
		return apperrors.NewAppError(500, "failed to insert activity for invoice "+m.InvoiceID, err)
	}
	return nil
}

// DeleteInvoice removes an invoice. Line items, payments and activities cascade.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, ownerID, invoiceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND owner_id = $2;`, invoiceID, ownerID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice not found")
	}
	return nil
}

// ListDueRecurring returns due recurring sources across all owners, including their line items.
func (r *PgxInvoiceRepository) ListDueRecurring(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	invoices, err := r.queryInvoices(ctx, `SELECT `+invoiceColumns+invoiceFrom+`
		WHERE i.is_recurring AND i.next_recurring_date <= $1 AND i.status IN ('SENT', 'PAID')
		ORDER BY i.next_recurring_date, i.invoice_id;`, now)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := r.loadChildren(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) ListRecurring(ctx context.Context, ownerID string) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, `SELECT `+invoiceColumns+invoiceFrom+`
		WHERE i.owner_id = $1 AND i.is_recurring
		ORDER BY i.next_recurring_date NULLS LAST, i.created_at DESC;`, ownerID)
}

// SaveGenerated inserts a generated invoice and clears the next recurring date of its source.
func (r *PgxInvoiceRepository) SaveGenerated(ctx context.Context, source domain.Invoice, generated domain.Invoice, activity domain.Activity, requireScheduled bool) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		// Claim the source first so two sweepers cannot both generate from it.
		claim := `UPDATE invoices SET next_recurring_date = NULL, last_updated_at = $3, version = version + 1
			WHERE invoice_id = $1 AND owner_id = $2`
		if requireScheduled {
			claim += ` AND next_recurring_date IS NOT NULL`
		}
		cmdTag, err := tx.Exec(ctx, claim+`;`, source.InvoiceID, source.OwnerID, source.LastUpdatedAt)
		if err != nil {
			return apperrors.NewAppError(500, "failed to clear next recurring date of invoice "+source.InvoiceID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			if requireScheduled {
				return apperrors.NewConflictError("recurring invoice " + source.InvoiceID + " was already generated")
			}
			return apperrors.NewNotFoundError("invoice not found")
		}

		if err := insertInvoiceRow(ctx, tx, generated); err != nil {
			return err
		}
		if err := insertLineItems(ctx, tx, generated.InvoiceID, generated.LineItems); err != nil {
			return err
		}
		return insertActivity(ctx, tx, activity)
	})
}

func (r *PgxInvoiceRepository) ListOverdueCandidates(ctx context.Context, today time.Time) ([]domain.Invoice, error) {
	return r.queryInvoices(ctx, `SELECT `+invoiceColumns+invoiceFrom+`
		WHERE i.status IN ('SENT', 'VIEWED', 'PARTIALLY_PAID') AND i.due_date < $1
		ORDER BY i.due_date;`, today)
}
