package billing_test

import (
	"context"
	"sort"

	"github.com/jcastellanos/registros-api/internal/application/billing"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
)

// Dobles en memoria de los puertos, para probar el coordinador sin PostgreSQL ni Redis.

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	failWith error // si no es nil, toda operación de escritura falla con este error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	if r.failWith != nil {
		return r.failWith
	}
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	if r.failWith != nil {
		return r.failWith
	}
	existing, ok := r.invoices[invoice.ID]
	if !ok {
		return nil // UPDATE sin filas afectadas no es error
	}
	existing.CustomerID = invoice.CustomerID
	existing.Amount = invoice.Amount
	existing.Status = invoice.Status
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	if invoice, ok := r.invoices[id]; ok {
		cp := *invoice
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	ids := make([]string, 0, len(r.invoices))
	for id := range r.invoices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Invoice
	for _, id := range ids {
		out = append(out, r.invoices[id])
	}
	return out, nil
}

func (r *fakeInvoiceRepo) CountByCustomerAndStatus(_ context.Context, customerID, status string) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	var n int64
	for _, invoice := range r.invoices {
		if invoice.CustomerID == customerID && invoice.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
	failWith  error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if r.failWith != nil {
		return r.failWith
	}
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.customers[customer.ID]; ok {
		cp := *customer
		r.customers[customer.ID] = &cp
	}
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id string) error {
	if r.failWith != nil {
		return r.failWith
	}
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if customer, ok := r.customers[id]; ok {
		cp := *customer
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	ids := make([]string, 0, len(r.customers))
	for id := range r.customers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Customer
	for _, id := range ids {
		out = append(out, r.customers[id])
	}
	return out, nil
}

// fakeViewCache registra invalidaciones y sirve de cache en memoria.
type fakeViewCache struct {
	store       map[string][]byte
	invalidated []string
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{store: make(map[string][]byte)}
}

func (c *fakeViewCache) Get(_ context.Context, view string) ([]byte, bool) {
	payload, ok := c.store[view]
	return payload, ok
}

func (c *fakeViewCache) Set(_ context.Context, view string, payload []byte) {
	c.store[view] = payload
}

func (c *fakeViewCache) Invalidate(_ context.Context, view string) {
	delete(c.store, view)
	c.invalidated = append(c.invalidated, view)
}

// fakeTxRunner pasa los mismos fakes como repos "transaccionales".
type fakeTxRunner struct {
	customers *fakeCustomerRepo
	invoices  *fakeInvoiceRepo
	beginErr  error
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
) error) error {
	if r.beginErr != nil {
		return r.beginErr
	}
	return fn(r.customers, r.invoices)
}

var _ billing.ViewCache = (*fakeViewCache)(nil)
var _ billing.TxRunner = (*fakeTxRunner)(nil)
var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)
var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)
