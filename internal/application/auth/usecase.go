package auth

import (
	"context"
	"errors"

	"github.com/jcastellanos/registros-api/internal/application/dto"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
)

// Mensajes fijos para el usuario según la clasificación del fallo.
const (
	msgInvalidCredentials = "Invalid credentials."
	msgSomethingWentWrong = "Something went wrong."
)

// IdentityProvider intercambia credenciales por una sesión. Los fallos que el
// proveedor reconoce llegan como *Error; el resto se propaga tal cual.
type IdentityProvider interface {
	Authenticate(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, email, password, name string) (*entity.User, error)
}

// AuthUseCase delega los intentos de autenticación en el proveedor de identidad
// y traduce el desenlace para el formulario de login.
type AuthUseCase struct {
	provider IdentityProvider
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(provider IdentityProvider) *AuthUseCase {
	return &AuthUseCase{provider: provider}
}

// SignIn intenta autenticar. Éxito: token de sesión y mensaje vacío.
// Fallo clasificado: mensaje fijo para el usuario, sin error.
// Fallo sin clasificar: se devuelve sin modificar, el caller decide.
func (uc *AuthUseCase) SignIn(ctx context.Context, in dto.LoginRequest) (token, message string, err error) {
	token, err = uc.provider.Authenticate(ctx, in.Email, in.Password)
	if err == nil {
		return token, "", nil
	}

	var authErr *Error
	if !errors.As(err, &authErr) {
		return "", "", err
	}
	switch authErr.Kind {
	case KindCredentialsSignin:
		return "", msgInvalidCredentials, nil
	default:
		return "", msgSomethingWentWrong, nil
	}
}

// Register crea una cuenta a través del proveedor.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := uc.provider.Register(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}, nil
}
