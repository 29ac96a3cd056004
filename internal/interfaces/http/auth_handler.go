package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/registros-api/internal/application/auth"
	"github.com/jcastellanos/registros-api/internal/application/dto"
	"github.com/jcastellanos/registros-api/internal/domain"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	if len(in.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password debe tener al menos 6 caracteres"})
	}
	user, err := h.uc.Register(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        email     formData  string  true  "email"
// @Param        password  formData  string  true  "password"
// @Success      303
// @Failure      401  {object}  dto.State
// @Router       /api/auth/login [post]
//
// El formulario de login reenvía aquí. Un fallo clasificado vuelve como State
// con mensaje fijo; un error sin clasificar se relanza tal cual al error
// handler de Fiber.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	in := dto.LoginRequest{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.State{Message: "Invalid credentials."})
	}

	token, message, err := h.uc.SignIn(c.Context(), in)
	if err != nil {
		return err
	}
	if message != "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.State{Message: message})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout borra la cookie de sesión y vuelve al login.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}
