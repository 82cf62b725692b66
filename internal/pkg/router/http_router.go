package router

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/jpmoura/asaasbridge/app/controllers"
	"github.com/jpmoura/asaasbridge/internal/pkg/constants"
	"github.com/jpmoura/asaasbridge/internal/pkg/env"
	"github.com/jpmoura/asaasbridge/internal/pkg/middleware"
	"github.com/jpmoura/asaasbridge/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	// Inbound gateway notifications. Unauthenticated by default; the
	// controller enforces the shared secret when one is configured.
	if env.GetEnv("ASAAS_WEBHOOK_SECRET", "") == "" {
		log.Print("ASAAS_WEBHOOK_SECRET is not set: every webhook notification will be processed")
	}
	app.Post(constants.WebhookRoute, controllers.HandleBillingWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
