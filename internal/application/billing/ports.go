package billing

import (
	"context"

	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

// ViewInvalidator marca una vista cacheada como obsoleta para que la próxima
// lectura la recalcule. Best-effort: no devuelve error; la implementación
// registra el fallo y sigue.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, view string)
}

// ViewCache extiende el invalidador con lectura/escritura del payload de la
// vista (listados read-through).
type ViewCache interface {
	ViewInvalidator
	Get(ctx context.Context, view string) ([]byte, bool)
	Set(ctx context.Context, view string, payload []byte)
}

// TxRunner ejecuta fn con repos de clientes y facturas atados a una misma
// transacción (borrado protegido: conteo y delete sin carrera entre ambos).
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customers repository.CustomerRepository,
		invoices repository.InvoiceRepository,
	) error) error
}

// ReceiptGenerator produce la representación imprimible de una factura.
type ReceiptGenerator interface {
	InvoiceReceipt(invoice *entity.Invoice, customer *entity.Customer) ([]byte, error)
}
