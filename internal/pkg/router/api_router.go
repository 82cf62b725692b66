package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jpmoura/asaasbridge/app/controllers"
	"github.com/jpmoura/asaasbridge/internal/pkg/constants"
	"github.com/jpmoura/asaasbridge/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIV1Route, limiter.New())

	auth := api.Group("/auth")
	auth.Post("/register", controllers.HandleAuthRegister)
	auth.Post("/login", controllers.HandleAuthLogin)
	auth.Post("/logout", controllers.HandleAuthLogout)

	billing := api.Group("/billing", middleware.RequireAPISessionAuth)
	billing.Get("/customer", controllers.HandleGetBillingCustomer)
	billing.Post("/subscriptions", controllers.HandleCreateSubscription)
	billing.Get("/subscriptions", controllers.HandleListSubscriptions)
	billing.Delete("/subscriptions/:id", controllers.HandleCancelSubscription)
	billing.Post("/payments", controllers.HandleCreatePayment)
	billing.Get("/payments", controllers.HandleListPayments)
	billing.Delete("/payments/:id", controllers.HandleCancelPayment)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
