package billing

import (
	"context"

	"github.com/jcastellanos/registros-api/internal/domain"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

// PDFUseCase genera la representación imprimible de una factura.
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	generator ReceiptGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	generator ReceiptGenerator,
) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, customers: customers, generator: generator}
}

// InvoicePDF arma el recibo PDF de la factura con los datos del cliente.
func (uc *PDFUseCase) InvoicePDF(ctx context.Context, id string) ([]byte, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customers.GetByID(ctx, invoice.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.InvoiceReceipt(invoice, customer)
}
