package billing

import "github.com/jcastellanos/registros-api/internal/application/dto"

// Vistas cacheadas que dependen de estas mutaciones. El nombre de la vista es
// a la vez la ruta de redirección del panel.
const (
	InvoicesView  = "/dashboard/invoices"
	CustomersView = "/dashboard/customers"
)

// OutcomeKind discrimina el resultado de una mutación.
type OutcomeKind int

const (
	// OutcomeResult lleva un State (errores de campo y/o mensaje).
	OutcomeResult OutcomeKind = iota
	// OutcomeRedirect transfiere el control a la vista destino; no hay payload.
	OutcomeRedirect
)

// Outcome es el resultado etiquetado de una mutación: o una redirección
// terminal o un State para pintar en el formulario. Modelarlo como valor
// evita el salto no-local y obliga al caller a manejar ambos casos.
type Outcome struct {
	Kind   OutcomeKind
	Target string    // destino, solo con Kind == OutcomeRedirect
	State  dto.State // payload, solo con Kind == OutcomeResult
}

// RedirectTo construye un resultado de redirección terminal.
func RedirectTo(target string) Outcome {
	return Outcome{Kind: OutcomeRedirect, Target: target}
}

// ResultOf construye un resultado con estado para el formulario.
func ResultOf(state dto.State) Outcome {
	return Outcome{Kind: OutcomeResult, State: state}
}
