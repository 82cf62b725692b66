package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
	"github.com/jpmoura/asaasbridge/internal/pkg/billing"
	"github.com/jpmoura/asaasbridge/internal/pkg/database"
	"github.com/jpmoura/asaasbridge/internal/pkg/usercontext"
)

const dateLayout = "2006-01-02"

type createSubscriptionRequest struct {
	BillingType       string  `json:"billingType" validate:"required,oneof=BOLETO CREDIT_CARD PIX UNDEFINED"`
	Value             float64 `json:"value" validate:"required,gt=0"`
	NextDueDate       string  `json:"nextDueDate" validate:"omitempty,datetime=2006-01-02"`
	Cycle             string  `json:"cycle" validate:"omitempty,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY SEMIANNUALLY YEARLY"`
	TrialDays         int     `json:"trialDays" validate:"omitempty,gte=0,lte=365"`
	Description       string  `json:"description" validate:"omitempty,max=500"`
	ExternalReference string  `json:"externalReference" validate:"omitempty,max=191"`
}

type createPaymentRequest struct {
	BillingType       string  `json:"billingType" validate:"required,oneof=BOLETO CREDIT_CARD PIX UNDEFINED"`
	Value             float64 `json:"value" validate:"required,gt=0"`
	DueDate           string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Description       string  `json:"description" validate:"omitempty,max=500"`
	ExternalReference string  `json:"externalReference" validate:"omitempty,max=191"`
}

func billingService() *billing.Service {
	return billing.NewServiceFromDB(database.GetDB(), asaas.NewClientFromEnv())
}

func billingCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 20*time.Second)
}

// billingError maps service errors to JSON responses.
func billingError(c *fiber.Ctx, err error) error {
	var apiErr *asaas.APIError
	switch {
	case errors.Is(err, billing.ErrNoCustomer):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "no gateway customer for user"})
	case errors.Is(err, billing.ErrNotOwned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.As(err, &apiErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "gateway_error", "status": apiErr.StatusCode, "body": apiErr.Body})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
	}
}

// HandleGetBillingCustomer returns the caller's gateway customer link.
func HandleGetBillingCustomer(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ctx, cancel := billingCtx()
	defer cancel()

	customer, err := billingService().GetCustomer(ctx, userCtx.UserID)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(customer)
}

// HandleCreateSubscription creates a subscription at the gateway for the
// authenticated user and stores the local mirror row.
func HandleCreateSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid JSON body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	in := billing.CreateSubscriptionInput{
		BillingType:       req.BillingType,
		Value:             req.Value,
		Cycle:             req.Cycle,
		TrialDays:         req.TrialDays,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	}
	if req.NextDueDate != "" {
		due, err := time.Parse(dateLayout, req.NextDueDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "nextDueDate must be YYYY-MM-DD"})
		}
		in.NextDueDate = &due
	}
	if in.NextDueDate == nil && in.TrialDays <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "nextDueDate or trialDays is required"})
	}

	ctx, cancel := billingCtx()
	defer cancel()
	sub, err := billingService().CreateSubscription(ctx, userCtx.UserID, in)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleListSubscriptions lists the caller's subscription mirror rows.
func HandleListSubscriptions(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ctx, cancel := billingCtx()
	defer cancel()

	subs, err := billingService().ListSubscriptions(ctx, userCtx.UserID)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": subs, "totalCount": len(subs)})
}

// HandleCancelSubscription cancels one of the caller's subscriptions.
func HandleCancelSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid subscription id"})
	}

	ctx, cancel := billingCtx()
	defer cancel()
	sub, err := billingService().CancelSubscription(ctx, userCtx.UserID, uint(id))
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(sub)
}

// HandleCreatePayment creates a one-time charge for the authenticated
// user. Pix charges include the QR block in the response when the
// enrichment fetch succeeds.
func HandleCreatePayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid JSON body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "dueDate must be YYYY-MM-DD"})
	}

	ctx, cancel := billingCtx()
	defer cancel()
	payment, qr, err := billingService().CreatePayment(ctx, userCtx.UserID, billing.CreatePaymentInput{
		BillingType:       req.BillingType,
		Value:             req.Value,
		DueDate:           dueDate,
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	})
	if err != nil {
		return billingError(c, err)
	}

	resp := fiber.Map{"payment": payment}
	if qr != nil {
		resp["pixQrCode"] = qr
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleListPayments lists the caller's payment mirror rows.
func HandleListPayments(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ctx, cancel := billingCtx()
	defer cancel()

	payments, err := billingService().ListPayments(ctx, userCtx.UserID)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": payments, "totalCount": len(payments)})
}

// HandleCancelPayment cancels one of the caller's charges.
func HandleCancelPayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "invalid payment id"})
	}

	ctx, cancel := billingCtx()
	defer cancel()
	payment, err := billingService().CancelPayment(ctx, userCtx.UserID, uint(id))
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(payment)
}
