package repositories

import (
	"context"
	"encoding/json"
	"time"

	"facture-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, user_id, invoice_number, client_name, client_email,
       line_items, subtotal, tax, total, status, due_date, paid_at, deleted,
       created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.ClientName,
		&inv.ClientEmail, &items, &inv.Subtotal, &inv.Tax, &inv.Total,
		&inv.Status, &inv.DueDate, &inv.PaidAt, &inv.Deleted,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.LineItems); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		return err
	}

	return r.DB.QueryRow(ctx,
		`INSERT INTO invoices(user_id, invoice_number, client_name, client_email,
                              line_items, subtotal, tax, total, status, due_date)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, deleted, created_at, updated_at`,
		inv.UserID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail,
		items, inv.Subtotal, inv.Tax, inv.Total, inv.Status, inv.DueDate,
	).Scan(&inv.ID, &inv.Deleted, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *InvoiceRepository) Get(ctx context.Context, userID, id int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id=$1 AND user_id=$2`,
		id, userID)
	return scanInvoice(row)
}

// ListActive returns the user's invoices with deleted = false
func (r *InvoiceRepository) ListActive(ctx context.Context, userID int) ([]*models.Invoice, error) {
	return r.list(ctx, userID, false)
}

// ListTrashed returns the user's invoices with deleted = true
func (r *InvoiceRepository) ListTrashed(ctx context.Context, userID int) ([]*models.Invoice, error) {
	return r.list(ctx, userID, true)
}

func (r *InvoiceRepository) list(ctx context.Context, userID int, deleted bool) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+`
         FROM invoices WHERE user_id=$1 AND deleted=$2 ORDER BY created_at DESC`,
		userID, deleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// Update rewrites the editable fields of an invoice. The invoice number is
// never changed after allocation.
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(ctx,
		`UPDATE invoices SET client_name=$1, client_email=$2, line_items=$3,
                subtotal=$4, tax=$5, total=$6, due_date=$7, updated_at=CURRENT_TIMESTAMP
         WHERE id=$8 AND user_id=$9`,
		inv.ClientName, inv.ClientEmail, items, inv.Subtotal, inv.Tax,
		inv.Total, inv.DueDate, inv.ID, inv.UserID)
	return err
}

// UpdateStatus applies a manual status override. paidAt is stamped when
// moving to paid and cleared otherwise.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, userID, id int, status string, paidAt *time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status=$1, paid_at=$2, updated_at=CURRENT_TIMESTAMP
         WHERE id=$3 AND user_id=$4`,
		status, paidAt, id, userID)
	return err
}

// MarkOverdue transitions every pending, non-deleted invoice whose due date
// has passed to overdue. The status condition is evaluated at write time,
// so an invoice paid between read and write is never reverted. Idempotent:
// already-overdue invoices do not match the predicate.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status=$1, updated_at=CURRENT_TIMESTAMP
         WHERE status=$2 AND due_date < $3 AND deleted=false`,
		models.StatusOverdue, models.StatusPending, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// SoftDelete flags the invoice as deleted. Idempotent.
func (r *InvoiceRepository) SoftDelete(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET deleted=true, updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// Restore clears the deleted flag. Idempotent.
func (r *InvoiceRepository) Restore(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET deleted=false, updated_at=CURRENT_TIMESTAMP
         WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// PermanentlyDelete removes the invoice row regardless of its deleted flag.
// The consumed invoice number is never reused.
func (r *InvoiceRepository) PermanentlyDelete(ctx context.Context, userID, id int) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM invoices WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

// PurgeTrash removes every trashed invoice in one transaction. Same
// snapshot semantics as ClientRepository.PurgeTrash.
func (r *InvoiceRepository) PurgeTrash(ctx context.Context, userID int) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id FROM invoices WHERE user_id=$1 AND deleted=true FOR UPDATE`, userID)
	if err != nil {
		return 0, err
	}

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, tx.Commit(ctx)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM invoices WHERE user_id=$1 AND id=ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

// Stats aggregates the dashboard counters over the user's active invoices
func (r *InvoiceRepository) Stats(ctx context.Context, userID int) (*models.InvoiceStats, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT
            COUNT(*) FILTER (WHERE status='draft'),
            COUNT(*) FILTER (WHERE status='pending'),
            COUNT(*) FILTER (WHERE status='paid'),
            COUNT(*) FILTER (WHERE status='overdue'),
            COALESCE(SUM(total), 0),
            COALESCE(SUM(total) FILTER (WHERE status='paid'), 0)
         FROM invoices WHERE user_id=$1 AND deleted=false`, userID)

	var stats models.InvoiceStats
	err := row.Scan(&stats.DraftCount, &stats.PendingCount, &stats.PaidCount,
		&stats.OverdueCount, &stats.TotalBilled, &stats.TotalPaid)
	return &stats, err
}
