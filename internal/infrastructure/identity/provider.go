package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcastellanos/registros-api/internal/application/auth"
	"github.com/jcastellanos/registros-api/internal/domain"
	"github.com/jcastellanos/registros-api/internal/domain/entity"
	"github.com/jcastellanos/registros-api/internal/domain/repository"
	"github.com/jcastellanos/registros-api/pkg/jwt"
)

var _ auth.IdentityProvider = (*Provider)(nil)

// Config para la emisión del token de sesión.
type Config struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Provider es el proveedor de identidad local: verifica credenciales con
// bcrypt y emite el token de sesión. Clasifica los fallos de autenticación;
// los fallos de infraestructura (DB caída, etc.) salen sin clasificar.
type Provider struct {
	users repository.UserRepository
	cfg   Config
}

// NewProvider construye el proveedor.
func NewProvider(users repository.UserRepository, cfg Config) *Provider {
	return &Provider{users: users, cfg: cfg}
}

// Authenticate verifica email/password y devuelve el token de sesión.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		// Fallo de infraestructura, no de credenciales: sin clasificar.
		return "", fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return "", &auth.Error{Kind: auth.KindCredentialsSignin, Err: domain.ErrUserNotFound}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", &auth.Error{Kind: auth.KindCredentialsSignin, Err: domain.ErrUnauthorized}
	}
	if user.Status != "active" {
		return "", &auth.Error{Kind: auth.KindAccessDenied, Err: domain.ErrForbidden}
	}

	token, err := jwt.Generate(p.cfg.Secret, user.ID, user.Email, p.cfg.Issuer, p.cfg.ExpMinutes)
	if err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return token, nil
}

// Register crea un usuario: hashea la contraseña con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (p *Provider) Register(ctx context.Context, email, password, name string) (*entity.User, error) {
	existing, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
