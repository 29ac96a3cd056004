package repository

import (
	"context"

	"github.com/jcastellanos/registros-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (proveedor de identidad).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
