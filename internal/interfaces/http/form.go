package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastellanos/registros-api/internal/application/billing"
)

// formValues copia el body x-www-form-urlencoded a url.Values para la
// validación de esquema.
func formValues(c *fiber.Ctx) url.Values {
	form := url.Values{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form.Add(string(key), string(value))
	})
	return form
}

// respondOutcome traduce el Outcome de una mutación a HTTP: redirección 303
// a la vista, o el State como JSON. Errores de campo son 422; un fallo de
// escritura sin errores de campo es 500.
func respondOutcome(c *fiber.Ctx, out billing.Outcome) error {
	if out.Kind == billing.OutcomeRedirect {
		return c.Redirect(out.Target, fiber.StatusSeeOther)
	}
	status := fiber.StatusInternalServerError
	if len(out.State.Errors) > 0 {
		status = fiber.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(out.State)
}
