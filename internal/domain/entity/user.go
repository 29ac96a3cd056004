package entity

import "time"

// User cuenta con credenciales para iniciar sesión en el panel.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Status       string // active | suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
