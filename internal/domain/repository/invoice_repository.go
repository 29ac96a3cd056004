package repository

import (
	"context"

	"github.com/jcastellanos/registros-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reescribe customer_id, amount y status; la fecha de emisión no se toca.
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	// CountByCustomerAndStatus cuenta facturas de un cliente con el estado dado
	// (precondición del borrado protegido de clientes).
	CountByCustomerAndStatus(ctx context.Context, customerID, status string) (int64, error)
}
