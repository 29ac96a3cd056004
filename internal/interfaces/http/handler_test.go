package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcastellanos/registros-api/internal/application/auth"
	"github.com/jcastellanos/registros-api/internal/application/billing"
	"github.com/jcastellanos/registros-api/internal/application/dto"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
	"github.com/jcastellanos/registros-api/internal/infrastructure/cache"
	apphttp "github.com/jcastellanos/registros-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de persistencia en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memInvoiceRepo struct {
	rows map[string]*entity.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{rows: map[string]*entity.Invoice{}}
}

func (r *memInvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	cp := *invoice
	r.rows[invoice.ID] = &cp
	return nil
}

func (r *memInvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	if existing, ok := r.rows[invoice.ID]; ok {
		existing.CustomerID = invoice.CustomerID
		existing.Amount = invoice.Amount
		existing.Status = invoice.Status
	}
	return nil
}

func (r *memInvoiceRepo) Delete(_ context.Context, id string) error {
	delete(r.rows, id)
	return nil
}

func (r *memInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.rows[id], nil
}

func (r *memInvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for _, invoice := range r.rows {
		list = append(list, invoice)
	}
	return list, nil
}

func (r *memInvoiceRepo) CountByCustomerAndStatus(_ context.Context, customerID, status string) (int64, error) {
	var n int64
	for _, invoice := range r.rows {
		if invoice.CustomerID == customerID && invoice.Status == status {
			n++
		}
	}
	return n, nil
}

type memCustomerRepo struct {
	rows map[string]*entity.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{rows: map[string]*entity.Customer{}}
}

func (r *memCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	cp := *customer
	r.rows[customer.ID] = &cp
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	if _, ok := r.rows[customer.ID]; ok {
		cp := *customer
		r.rows[customer.ID] = &cp
	}
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id string) error {
	delete(r.rows, id)
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return r.rows[id], nil
}

func (r *memCustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var list []*entity.Customer
	for _, customer := range r.rows {
		list = append(list, customer)
	}
	return list, nil
}

// memTxRunner ejecuta el callback directo contra los repos en memoria.
type memTxRunner struct {
	customers *memCustomerRepo
	invoices  *memInvoiceRepo
}

func (r *memTxRunner) RunBilling(_ context.Context, fn func(
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
) error) error {
	return fn(r.customers, r.invoices)
}

// stubProvider responde siempre igual; suficiente para el flujo de login.
type stubProvider struct {
	token string
	err   error
}

func (p *stubProvider) Authenticate(_ context.Context, _, _ string) (string, error) {
	return p.token, p.err
}

func (p *stubProvider) Register(_ context.Context, email, _, name string) (*entity.User, error) {
	return &entity.User{ID: "u1", Email: email, Name: name, Status: "active"}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de test con el router completo
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app       *fiber.App
	invoices  *memInvoiceRepo
	customers *memCustomerRepo
}

func buildEnv(t *testing.T, provider auth.IdentityProvider) *testEnv {
	t.Helper()

	invoices := newMemInvoiceRepo()
	customers := newMemCustomerRepo()
	views := cache.NewMemoryViewCache(time.Minute)
	tx := &memTxRunner{customers: customers, invoices: invoices}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		InvoiceUC:  billing.NewInvoiceUseCase(invoices, views),
		CustomerUC: billing.NewCustomerUseCase(customers, tx, views),
		PDFUC:      billing.NewPDFUseCase(invoices, customers, nil),
		AuthUC:     auth.NewAuthUseCase(provider),
		JWTSecret:  testJWTSecret,
	})
	return &testEnv{app: app, invoices: invoices, customers: customers}
}

// doForm lanza una petición con body x-www-form-urlencoded y token Bearer.
func doForm(t *testing.T, app *fiber.App, method, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+testToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceHandler_CreateValido_Redirige303(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})

	resp := doForm(t, env.app, http.MethodPost, "/api/invoices/", url.Values{
		"customerId": {"c1"},
		"amount":     {"50"},
		"status":     {"pending"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/invoices", resp.Header.Get("Location"))
	assert.Len(t, env.invoices.rows, 1, "la factura debe quedar persistida")
	for _, invoice := range env.invoices.rows {
		assert.Equal(t, int64(5000), invoice.Amount, "el monto se guarda en centavos")
	}
}

func TestInvoiceHandler_CreateInvalido_Retorna422ConErrores(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})

	resp := doForm(t, env.app, http.MethodPost, "/api/invoices/", url.Values{
		"amount": {"-5"},
		"status": {"cerrada"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "Missing Fields. Failed to Create Invoice.", state.Message)
	assert.Contains(t, state.Errors, "customerId")
	assert.Contains(t, state.Errors, "amount")
	assert.Contains(t, state.Errors, "status")
	assert.Empty(t, env.invoices.rows, "con errores no se escribe nada")
}

func TestInvoiceHandler_Delete_RespondeStateEnElLugar(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})
	env.invoices.rows["f1"] = &entity.Invoice{ID: "f1", CustomerID: "c1", Status: entity.InvoiceStatusPaid}

	resp := doForm(t, env.app, http.MethodDelete, "/api/invoices/f1", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "Deleted Invoice.", state.Message)
	assert.Empty(t, env.invoices.rows)
}

func TestInvoiceHandler_SinToken_Retorna401(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomerHandler_DeleteConPendientes_NoElimina(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})
	env.customers.rows["c1"] = &entity.Customer{ID: "c1", Name: "Acme"}
	env.invoices.rows["f1"] = &entity.Invoice{ID: "f1", CustomerID: "c1", Status: entity.InvoiceStatusPending}

	resp := doForm(t, env.app, http.MethodDelete, "/api/customers/c1", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "no se elimino", state.Message)
	assert.Contains(t, env.customers.rows, "c1", "el cliente debe quedar intacto")
}

func TestCustomerHandler_DeleteSinPendientes_Elimina(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})
	env.customers.rows["c1"] = &entity.Customer{ID: "c1", Name: "Acme"}
	env.invoices.rows["f1"] = &entity.Invoice{ID: "f1", CustomerID: "c1", Status: entity.InvoiceStatusPaid}

	resp := doForm(t, env.app, http.MethodDelete, "/api/customers/c1", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "se elimino", state.Message)
	assert.NotContains(t, env.customers.rows, "c1")
}

func TestCustomerHandler_CreateValido_Redirige303(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "tok"})

	resp := doForm(t, env.app, http.MethodPost, "/api/customers/", url.Values{
		"name":      {"Acme"},
		"email":     {"acme@example.com"},
		"image_url": {"/customers/acme.png"},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/customers", resp.Header.Get("Location"))
	assert.Len(t, env.customers.rows, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthHandler_LoginExitoso_CookieYRedireccion(t *testing.T) {
	env := buildEnv(t, &stubProvider{token: "session-token"})

	resp := doLogin(t, env.app, "user@acme.com", "secreta")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	var sessionValue string
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.SessionCookie {
			sessionValue = ck.Value
		}
	}
	assert.Equal(t, "session-token", sessionValue, "el token debe viajar en la cookie de sesión")
}

func TestAuthHandler_LoginCredencialesMalas_Retorna401(t *testing.T) {
	env := buildEnv(t, &stubProvider{err: &auth.Error{Kind: auth.KindCredentialsSignin}})

	resp := doLogin(t, env.app, "user@acme.com", "incorrecta")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "Invalid credentials.", state.Message)
}

func TestAuthHandler_LoginFalloClasificadoGenerico_Retorna401(t *testing.T) {
	env := buildEnv(t, &stubProvider{err: &auth.Error{Kind: auth.KindAccessDenied}})

	resp := doLogin(t, env.app, "user@acme.com", "secreta")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var state dto.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, "Something went wrong.", state.Message)
}

func doLogin(t *testing.T, app *fiber.App, email, password string) *http.Response {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
