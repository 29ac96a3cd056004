package entity

import "time"

// Estados válidos de una factura.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice representa una factura del panel de registros.
// Amount se guarda en unidades menores (centavos) para evitar errores de coma flotante.
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64 // centavos; siempre > 0
	Status     string
	Date       time.Time // fecha calendario de emisión
}
