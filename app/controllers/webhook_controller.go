package controllers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
	"github.com/jpmoura/asaasbridge/internal/pkg/billing"
	"github.com/jpmoura/asaasbridge/internal/pkg/database"
	"github.com/jpmoura/asaasbridge/internal/pkg/env"
	"github.com/jpmoura/asaasbridge/internal/pkg/metrics/counter"
)

// WebhookTokenHeader is the header the gateway sends the shared secret in.
const WebhookTokenHeader = "asaas-access-token"

var webhookHandlers *billing.WebhookHandlers

// SetWebhookHandlers registers the caller-supplied dispatch surface used
// by the default webhook route. All slots are optional.
func SetWebhookHandlers(h *billing.WebhookHandlers) {
	webhookHandlers = h
}

// NewWebhookHandler builds the inbound webhook endpoint around a
// processor. When secret is empty every notification is processed, a
// reduced-security default the operator is warned about at startup.
//
// The acknowledgment is unconditional on everything past the secret
// check: the gateway treats non-2xx as a delivery failure and retries,
// which would duplicate side effects downstream.
func NewWebhookHandler(secret string, processor *billing.Processor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret != "" {
			if c.Get(WebhookTokenHeader) != secret {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_access_token"})
			}
		}

		var ev billing.WebhookEvent
		if err := json.Unmarshal(c.BodyRaw(), &ev); err != nil {
			log.Printf("webhook: unparseable payload: %v", err)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		cat := processor.Process(ctx, &ev)

		if err := counter.AddWebhookEvent(string(cat)); err != nil {
			log.Printf("webhook: counter update failed: %v", err)
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}
}

// HandleBillingWebhook is the default wiring of the webhook endpoint:
// GORM repository, gateway client from env, registered handlers.
func HandleBillingWebhook(c *fiber.Ctx) error {
	processor := billing.NewProcessor(
		billing.NewRepository(database.GetDB()),
		asaas.NewClientFromEnv(),
		webhookHandlers,
	)
	secret := env.GetEnv("ASAAS_WEBHOOK_SECRET", "")
	return NewWebhookHandler(secret, processor)(c)
}
