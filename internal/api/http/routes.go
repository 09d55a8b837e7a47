package httpapi

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/uv-alert/internal/uv"
)

var validate = validator.New()

// Engine is the part of uv.Engine exposed over HTTP.
type Engine interface {
	ApplySunscreen(ctx context.Context, spf int) (uv.SunscreenRecord, bool)
	Status(ctx context.Context) uv.Status
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, engine Engine) {
	v1 := app.Group("/api/v1")

	v1.Get("/uv/status", func(c *fiber.Ctx) error {
		return c.JSON(engine.Status(c.UserContext()))
	})

	v1.Post("/sunscreen", func(c *fiber.Ctx) error {
		var req sunscreenRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		spf := uv.DefaultSPF
		if req.SPF != nil {
			spf = *req.SPF
		}
		rec, corrected := engine.ApplySunscreen(c.UserContext(), spf)

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"sunscreen": rec,
			"corrected": corrected,
		})
	})
}

// sunscreenRequest is the body of POST /api/v1/sunscreen. Values outside the
// accepted SPF range are replaced by the default, not rejected.
type sunscreenRequest struct {
	SPF *int `json:"spf" validate:"omitempty,gte=0,lte=1000"`
}
