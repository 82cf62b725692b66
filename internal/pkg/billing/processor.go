package billing

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jpmoura/asaasbridge/app/models"
	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

// PixQrCodeFetcher is the single gateway operation the processor needs,
// used to enrich Pix payment events. *asaas.Client satisfies it.
type PixQrCodeFetcher interface {
	GetPixQrCode(ctx context.Context, paymentID string) (*asaas.PixQrCode, error)
}

// Processor reconciles one inbound gateway notification against the local
// mirror tables and dispatches at most one caller handler. Nothing it does
// after the caller's secret check can fail the acknowledgment: sync misses
// are expected, enrichment is best-effort, and handler errors and panics
// are captured and logged.
type Processor struct {
	repo     Repository
	gateway  PixQrCodeFetcher
	handlers *WebhookHandlers
	now      func() time.Time
}

func NewProcessor(repo Repository, gateway PixQrCodeFetcher, handlers *WebhookHandlers) *Processor {
	if handlers == nil {
		handlers = &WebhookHandlers{}
	}
	return &Processor{
		repo:     repo,
		gateway:  gateway,
		handlers: handlers,
		now:      time.Now,
	}
}

// Process runs the full reconciliation pass for one notification and
// returns the resolved category. It runs to completion, including the
// dispatched handler, before the caller acknowledges.
func (p *Processor) Process(ctx context.Context, ev *WebhookEvent) Category {
	p.syncLocal(ev)

	cat := Classify(ev, p.now())

	switch cat {
	case CategoryPaymentCreated, CategoryPaymentDueSoon, CategoryPaymentDueToday,
		CategoryPaymentOverdue, CategoryPaymentConfirmed, CategoryPaymentRefunded,
		CategoryPaymentChargeback:
		payload := &PaymentEvent{Event: ev.Event, Payment: ev.Payment}
		if cat == CategoryPaymentCreated || cat == CategoryPaymentDueSoon {
			payload.PixQrCode = p.fetchPixQrCode(ctx, ev.Payment)
		}
		if fn := p.handlers.paymentHandler(cat); fn != nil {
			p.dispatch(ev.Event, func() error { return fn(ctx, payload) })
		}

	case CategorySubscriptionCreated, CategorySubscriptionRenewed, CategorySubscriptionCanceled:
		if cat == CategorySubscriptionCanceled {
			// Some deliveries omit status in the snapshot; force the local
			// terminal state regardless of the generic sync above.
			if ev.Subscription != nil && strings.TrimSpace(ev.Subscription.ID) != "" {
				if err := p.repo.UpdateSubscriptionStatusByAsaasID(ev.Subscription.ID, models.SubscriptionStatusCanceled); err != nil {
					log.Printf("webhook: cancel sync for subscription %s failed: %v", ev.Subscription.ID, err)
				}
			}
		}
		payload := &SubscriptionEvent{Event: ev.Event, Subscription: ev.Subscription}
		if fn := p.handlers.subscriptionHandler(cat); fn != nil {
			p.dispatch(ev.Event, func() error { return fn(ctx, payload) })
		}

	default:
		if fn := p.handlers.OnUnhandledEvent; fn != nil {
			payload := &UnhandledEvent{Event: ev.Event, Payment: ev.Payment, Subscription: ev.Subscription}
			p.dispatch(ev.Event, func() error { return fn(ctx, payload) })
		}
	}

	return cat
}

// syncLocal mirrors gateway-reported statuses into the local tables. It
// runs for every event regardless of category. A snapshot referencing a
// row that does not exist locally (e.g. a charge auto-generated by a
// subscription cycle) is a silent miss.
func (p *Processor) syncLocal(ev *WebhookEvent) {
	if sub := ev.Subscription; sub != nil && strings.TrimSpace(sub.ID) != "" && strings.TrimSpace(sub.Status) != "" {
		if err := p.repo.UpdateSubscriptionStatusByAsaasID(sub.ID, sub.Status); err != nil {
			log.Printf("webhook: subscription sync for %s failed: %v", sub.ID, err)
		}
	}
	if pay := ev.Payment; pay != nil && strings.TrimSpace(pay.ID) != "" && strings.TrimSpace(pay.Status) != "" {
		if err := p.repo.UpdatePaymentStatusByAsaasID(pay.ID, pay.Status); err != nil {
			log.Printf("webhook: payment sync for %s failed: %v", pay.ID, err)
		}
	}
}

// fetchPixQrCode attempts the QR enrichment for Pix charges. A single
// attempt; failure means the payload proceeds without the block.
func (p *Processor) fetchPixQrCode(ctx context.Context, payment *asaas.Payment) *asaas.PixQrCode {
	if p.gateway == nil || payment == nil {
		return nil
	}
	if payment.BillingType != models.BillingTypePix || strings.TrimSpace(payment.ID) == "" {
		return nil
	}
	qr, err := p.gateway.GetPixQrCode(ctx, payment.ID)
	if err != nil {
		log.Printf("webhook: pix qr code fetch for %s failed: %v", payment.ID, err)
		return nil
	}
	return qr
}

// dispatch invokes one handler and absorbs whatever it raises. The gateway
// retries non-success acknowledgments, which would duplicate the caller's
// side effects, so a handler failure must never reach the response.
func (p *Processor) dispatch(event string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("webhook: handler panic for %s: %v", event, rec)
		}
	}()
	if err := fn(); err != nil {
		log.Printf("webhook: handler error for %s: %v", event, err)
	}
}
