package auth

// Kinds de fallo que el proveedor de identidad sabe clasificar.
const (
	KindCredentialsSignin = "CredentialsSignin" // email o contraseña incorrectos
	KindAccessDenied      = "AccessDenied"      // cuenta suspendida o sin acceso
)

// Error es un fallo de autenticación ya clasificado por el proveedor.
// Cualquier error que no sea de este tipo se considera sin clasificar y no
// es responsabilidad de este componente interpretarlo.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "auth: " + e.Kind + ": " + e.Err.Error()
	}
	return "auth: " + e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}
