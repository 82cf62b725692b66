package billing

import (
	"context"

	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

// PaymentEvent is the payload delivered to payment-category handlers.
// PixQrCode is attached only to payment-created and due-soon events whose
// billing type is PIX, and only when the enrichment fetch succeeded.
type PaymentEvent struct {
	Event     string
	Payment   *asaas.Payment
	PixQrCode *asaas.PixQrCode
}

// SubscriptionEvent is the payload delivered to subscription-category
// handlers.
type SubscriptionEvent struct {
	Event        string
	Subscription *asaas.Subscription
}

// UnhandledEvent is the payload delivered to the catch-all handler for
// event codes outside the recognized taxonomy.
type UnhandledEvent struct {
	Event        string
	Payment      *asaas.Payment
	Subscription *asaas.Subscription
}

// WebhookHandlers is the caller-supplied dispatch surface: one optional
// slot per category. A nil slot is a silent no-op for that category. At
// most one slot fires per notification; errors (and panics) raised by a
// slot are logged and never surface to the gateway.
type WebhookHandlers struct {
	OnPaymentCreated       func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentDueSoon       func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentDueToday      func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentOverdue       func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentConfirmed     func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentRefunded      func(ctx context.Context, ev *PaymentEvent) error
	OnPaymentChargeback    func(ctx context.Context, ev *PaymentEvent) error
	OnSubscriptionCreated  func(ctx context.Context, ev *SubscriptionEvent) error
	OnSubscriptionRenewed  func(ctx context.Context, ev *SubscriptionEvent) error
	OnSubscriptionCanceled func(ctx context.Context, ev *SubscriptionEvent) error
	OnUnhandledEvent       func(ctx context.Context, ev *UnhandledEvent) error
}

func (h *WebhookHandlers) paymentHandler(cat Category) func(ctx context.Context, ev *PaymentEvent) error {
	if h == nil {
		return nil
	}
	switch cat {
	case CategoryPaymentCreated:
		return h.OnPaymentCreated
	case CategoryPaymentDueSoon:
		return h.OnPaymentDueSoon
	case CategoryPaymentDueToday:
		return h.OnPaymentDueToday
	case CategoryPaymentOverdue:
		return h.OnPaymentOverdue
	case CategoryPaymentConfirmed:
		return h.OnPaymentConfirmed
	case CategoryPaymentRefunded:
		return h.OnPaymentRefunded
	case CategoryPaymentChargeback:
		return h.OnPaymentChargeback
	default:
		return nil
	}
}

func (h *WebhookHandlers) subscriptionHandler(cat Category) func(ctx context.Context, ev *SubscriptionEvent) error {
	if h == nil {
		return nil
	}
	switch cat {
	case CategorySubscriptionCreated:
		return h.OnSubscriptionCreated
	case CategorySubscriptionRenewed:
		return h.OnSubscriptionRenewed
	case CategorySubscriptionCanceled:
		return h.OnSubscriptionCanceled
	default:
		return nil
	}
}
