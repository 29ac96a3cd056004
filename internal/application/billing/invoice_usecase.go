package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jcastellanos/registros-api/internal/application/dto"
	"github.com/jcastellanos/registros-api/internal/application/validation"
	"github.com/jcastellanos/registros-api/internal/domain"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

// InvoiceUseCase coordina las mutaciones de facturas:
// validar → escribir → invalidar vista → redirigir.
// No guarda estado entre invocaciones; cada llamada es independiente.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	views    ViewCache
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoices repository.InvoiceRepository, views ViewCache) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, views: views}
}

// Create valida el form y crea la factura: monto en centavos (x100) y fecha de hoy.
// Con errores de validación no se toca el almacenamiento. Un fallo de escritura
// se captura aquí mismo y se convierte en mensaje; no se relanza.
func (uc *InvoiceUseCase) Create(ctx context.Context, form url.Values) Outcome {
	in, errs := validation.ValidateInvoice(form)
	if errs != nil {
		return ResultOf(dto.State{
			Errors:  errs,
			Message: "Missing Fields. Failed to Create Invoice.",
		})
	}

	invoice := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents(),
		Status:     in.Status,
		Date:       time.Now(),
	}
	if err := uc.invoices.Create(ctx, invoice); err != nil {
		return ResultOf(dto.State{
			Message: fmt.Sprintf("Database Error: Failed to Create Invoice. %v", err),
		})
	}

	uc.views.Invalidate(ctx, InvoicesView)
	return RedirectTo(InvoicesView)
}

// Update valida el form y reescribe cliente, monto (en centavos) y estado.
// La fecha de emisión no cambia. Último escritor gana.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, form url.Values) Outcome {
	in, errs := validation.ValidateInvoice(form)
	if errs != nil {
		return ResultOf(dto.State{
			Errors:  errs,
			Message: "Missing Fields. Failed to Update Invoice.",
		})
	}

	invoice := &entity.Invoice{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents(),
		Status:     in.Status,
	}
	if err := uc.invoices.Update(ctx, invoice); err != nil {
		return ResultOf(dto.State{
			Message: fmt.Sprintf("Database Error: Failed to Update Invoice. %v", err),
		})
	}

	uc.views.Invalidate(ctx, InvoicesView)
	return RedirectTo(InvoicesView)
}

// Delete borra la factura sin condiciones. Se invoca in-place desde el listado,
// así que devuelve un mensaje en lugar de redirigir.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) dto.State {
	if err := uc.invoices.Delete(ctx, id); err != nil {
		return dto.State{Message: "Database Error: Failed to Delete Invoice."}
	}
	uc.views.Invalidate(ctx, InvoicesView)
	return dto.State{Message: "Deleted Invoice."}
}

// GetByID devuelve una factura para el formulario de edición.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(invoice), nil
}

// List devuelve el listado JSON de facturas, sirviendo la vista cacheada cuando
// está vigente. Solo la primera página por defecto se memoiza: es la vista que
// la invalidación marca como obsoleta.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) ([]byte, error) {
	page.DefaultPage()
	cacheable := page.Limit == 20 && page.Offset == 0

	if cacheable {
		if payload, ok := uc.views.Get(ctx, InvoicesView); ok {
			return payload, nil
		}
	}

	list, err := uc.invoices.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, invoice := range list {
		out = append(out, toInvoiceResponse(invoice))
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	if cacheable {
		uc.views.Set(ctx, InvoicesView, payload)
	}
	return payload, nil
}

func toInvoiceResponse(invoice *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount,
		Status:     invoice.Status,
		Date:       invoice.Date.Format("2006-01-02"),
	}
}
