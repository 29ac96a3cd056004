package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/jcastellanos/registros-api/internal/application/dto"
	"github.com/jcastellanos/registros-api/internal/application/validation"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

// CustomerUseCase coordina las mutaciones de clientes. El borrado está
// protegido por la regla de negocio: un cliente con facturas pendientes
// no se elimina.
type CustomerUseCase struct {
	customers repository.CustomerRepository
	tx        TxRunner
	views     ViewCache
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(customers repository.CustomerRepository, tx TxRunner, views ViewCache) *CustomerUseCase {
	return &CustomerUseCase{customers: customers, tx: tx, views: views}
}

// Create valida el form y crea el cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, form url.Values) Outcome {
	in, errs := validation.ValidateCustomer(form)
	if errs != nil {
		return ResultOf(dto.State{
			Errors:  errs,
			Message: "Missing Fields. Failed to Create Customer.",
		})
	}

	customer := &entity.Customer{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Email:    in.Email,
		ImageURL: in.ImageURL,
	}
	if err := uc.customers.Create(ctx, customer); err != nil {
		return ResultOf(dto.State{
			Message: fmt.Sprintf("Database Error: Failed to Create Customer. %v", err),
		})
	}

	uc.views.Invalidate(ctx, CustomersView)
	return RedirectTo(CustomersView)
}

// Update valida el form y reescribe el cliente. Último escritor gana.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, form url.Values) Outcome {
	in, errs := validation.ValidateCustomer(form)
	if errs != nil {
		return ResultOf(dto.State{
			Errors:  errs,
			Message: "Missing Fields. Failed to Update Customer.",
		})
	}

	customer := &entity.Customer{
		ID:       id,
		Name:     in.Name,
		Email:    in.Email,
		ImageURL: in.ImageURL,
	}
	if err := uc.customers.Update(ctx, customer); err != nil {
		return ResultOf(dto.State{
			Message: fmt.Sprintf("Database Error: Failed to Update Customer. %v", err),
		})
	}

	uc.views.Invalidate(ctx, CustomersView)
	return RedirectTo(CustomersView)
}

// Delete borra el cliente solo si no tiene facturas pendientes. El conteo es
// una precondición: se evalúa antes de emitir el DELETE, y ambos corren dentro
// de la misma transacción para que un insert concurrente no se cuele entre
// el chequeo y el borrado.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) dto.State {
	rejected := false
	err := uc.tx.RunBilling(ctx, func(
		customers repository.CustomerRepository,
		invoices repository.InvoiceRepository,
	) error {
		pending, err := invoices.CountByCustomerAndStatus(ctx, id, entity.InvoiceStatusPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			// Regla de negocio: la fila queda intacta y no se invalida nada.
			rejected = true
			return nil
		}
		return customers.Delete(ctx, id)
	})
	if err != nil {
		return dto.State{Message: "Database Error: Failed to Delete Customer."}
	}
	if rejected {
		return dto.State{Message: "no se elimino"}
	}

	uc.views.Invalidate(ctx, CustomersView)
	return dto.State{Message: "se elimino"}
}

// GetByID devuelve un cliente para el formulario de edición.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, nil
	}
	return toCustomerResponse(customer), nil
}

// List devuelve el listado JSON de clientes, read-through sobre la vista cacheada.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]byte, error) {
	page.DefaultPage()
	cacheable := page.Limit == 20 && page.Offset == 0

	if cacheable {
		if payload, ok := uc.views.Get(ctx, CustomersView); ok {
			return payload, nil
		}
	}

	list, err := uc.customers.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, customer := range list {
		out = append(out, toCustomerResponse(customer))
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	if cacheable {
		uc.views.Set(ctx, CustomersView, payload)
	}
	return payload, nil
}

func toCustomerResponse(customer *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		ImageURL: customer.ImageURL,
	}
}
