package validation

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors mapea nombre de campo -> lista ordenada de mensajes para el usuario.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// validate instancia compartida; los nombres de campo en errores salen del tag `form`.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// InvoiceInput formulario de factura ya tipado. Un solo esquema sirve para
// creación y actualización: id y fecha los asigna el sistema y nunca viajan en el form.
type InvoiceInput struct {
	CustomerID string          `form:"customerId" validate:"required"`
	Amount     decimal.Decimal `form:"amount" validate:"-"`
	Status     string          `form:"status" validate:"required,oneof=pending paid"`
}

// AmountInCents devuelve el monto en unidades menores (x100).
func (in *InvoiceInput) AmountInCents() int64 {
	return in.Amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// Mensajes fijos por campo del esquema de factura.
var invoiceMessages = map[string]string{
	"customerId": "Please select a customer.",
	"amount":     "Please enter an amount greater than $0.",
	"status":     "Please select an invoice status.",
}

// ValidateInvoice aplica el esquema de factura sobre el form crudo.
// Nunca lanza: una coerción fallida (monto no numérico) es un error de campo más.
func ValidateInvoice(form url.Values) (*InvoiceInput, FieldErrors) {
	errs := FieldErrors{}

	in := &InvoiceInput{
		CustomerID: strings.TrimSpace(form.Get("customerId")),
		Status:     form.Get("status"),
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(form.Get("amount")))
	if err != nil || !amount.GreaterThan(decimal.Zero) {
		errs.add("amount", invoiceMessages["amount"])
	} else {
		in.Amount = amount
	}

	applyRules(in, invoiceMessages, errs)

	if len(errs) > 0 {
		return nil, errs
	}
	return in, nil
}

// CustomerInput formulario de cliente ya tipado.
type CustomerInput struct {
	Name     string
	Email    string
	ImageURL string
}

// Campos requeridos del esquema de cliente, en orden de formulario.
// Solo se exige presencia: un string vacío pasa la validación actual.
var customerFields = []struct {
	name    string
	message string
}{
	{"name", "Please enter a name."},
	{"email", "Please enter an email."},
	{"image_url", "Please provide an image URL."},
}

// ValidateCustomer aplica el esquema de cliente sobre el form crudo.
func ValidateCustomer(form url.Values) (*CustomerInput, FieldErrors) {
	errs := FieldErrors{}
	for _, f := range customerFields {
		if !form.Has(f.name) {
			errs.add(f.name, f.message)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &CustomerInput{
		Name:     form.Get("name"),
		Email:    form.Get("email"),
		ImageURL: form.Get("image_url"),
	}, nil
}

// applyRules corre las reglas declarativas del struct y traduce cada violación
// al mensaje fijo del campo.
func applyRules(s any, messages map[string]string, errs FieldErrors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError solo ocurre con un tipo no-struct; no pasa en runtime.
		return
	}
	for _, fe := range verrs {
		msg := messages[fe.Field()]
		if msg == "" {
			msg = "Invalid value."
		}
		errs.add(fe.Field(), msg)
	}
}
