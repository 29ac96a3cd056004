package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL (usable con pool o tx).
// Todos los valores van como parámetros; nunca se interpola input del usuario.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste una nueva factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Amount, invoice.Status, invoice.Date,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update reescribe cliente, monto y estado. La fecha de emisión no se toca.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET customer_id = $2, amount = $3, status = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Amount, invoice.Status,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve nil sin error si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, date
		FROM invoices WHERE id = $1`
	var i entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.CustomerID, &i.Amount, &i.Status, &i.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &i, nil
}

// List lista facturas con paginación, las más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, date
		FROM invoices ORDER BY date DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var i entity.Invoice
		if err := rows.Scan(&i.ID, &i.CustomerID, &i.Amount, &i.Status, &i.Date); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// CountByCustomerAndStatus cuenta facturas de un cliente con el estado dado.
func (r *InvoiceRepo) CountByCustomerAndStatus(ctx context.Context, customerID, status string) (int64, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE customer_id = $1 AND status = $2`
	var n int64
	if err := r.q.QueryRow(ctx, query, customerID, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}
