package billing

import (
	"strings"
	"time"

	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

// Event codes delivered by the gateway. The vocabulary is open; anything
// not recognized here routes to the catch-all category.
const (
	EventPaymentCreated             = "PAYMENT_CREATED"
	EventPaymentDueDateReminder     = "PAYMENT_DUE_DATE_REMINDER"
	EventPaymentOverdue             = "PAYMENT_OVERDUE"
	EventPaymentConfirmed           = "PAYMENT_CONFIRMED"
	EventPaymentReceived            = "PAYMENT_RECEIVED"
	EventPaymentRefunded            = "PAYMENT_REFUNDED"
	EventPaymentPartiallyRefunded   = "PAYMENT_PARTIALLY_REFUNDED"
	EventPaymentChargebackRequested = "PAYMENT_CHARGEBACK_REQUESTED"
	EventPaymentChargebackDispute   = "PAYMENT_CHARGEBACK_DISPUTE"
	EventPaymentAwaitingReversal    = "PAYMENT_AWAITING_CHARGEBACK_REVERSAL"
	EventSubscriptionCreated        = "SUBSCRIPTION_CREATED"
	EventSubscriptionRenewed        = "SUBSCRIPTION_RENEWED"
	EventSubscriptionDeleted        = "SUBSCRIPTION_DELETED"
)

// Category is one of the eleven fixed classifications driving handler
// dispatch. Exactly one category resolves per notification.
type Category string

const (
	CategoryPaymentCreated       Category = "payment_created"
	CategoryPaymentDueSoon       Category = "payment_due_soon"
	CategoryPaymentDueToday      Category = "payment_due_today"
	CategoryPaymentOverdue       Category = "payment_overdue"
	CategoryPaymentConfirmed     Category = "payment_confirmed"
	CategoryPaymentRefunded      Category = "payment_refunded"
	CategoryPaymentChargeback    Category = "payment_chargeback"
	CategorySubscriptionCreated  Category = "subscription_created"
	CategorySubscriptionRenewed  Category = "subscription_renewed"
	CategorySubscriptionCanceled Category = "subscription_canceled"
	CategoryUnhandled            Category = "unhandled"
)

const dateLayout = "2006-01-02"

// WebhookEvent is the inbound notification envelope. The embedded
// snapshots are partial: only the fields needed for reconciliation and
// handler payloads are guaranteed present.
type WebhookEvent struct {
	Event        string              `json:"event"`
	Payment      *asaas.Payment      `json:"payment,omitempty"`
	Subscription *asaas.Subscription `json:"subscription,omitempty"`
}

// Classify resolves the event code into exactly one category. PAYMENT_OVERDUE
// is disambiguated by comparing the embedded payment's due date against
// today: a charge whose due date is the current day is "due today", not
// overdue. Dates are compared at calendar-day granularity in UTC.
func Classify(ev *WebhookEvent, today time.Time) Category {
	switch strings.ToUpper(strings.TrimSpace(ev.Event)) {
	case EventPaymentCreated:
		return CategoryPaymentCreated
	case EventPaymentDueDateReminder:
		return CategoryPaymentDueSoon
	case EventPaymentOverdue:
		if ev.Payment != nil && isSameDay(ev.Payment.DueDate, today) {
			return CategoryPaymentDueToday
		}
		return CategoryPaymentOverdue
	case EventPaymentConfirmed, EventPaymentReceived:
		return CategoryPaymentConfirmed
	case EventPaymentRefunded, EventPaymentPartiallyRefunded:
		return CategoryPaymentRefunded
	case EventPaymentChargebackRequested, EventPaymentChargebackDispute, EventPaymentAwaitingReversal:
		return CategoryPaymentChargeback
	case EventSubscriptionCreated:
		return CategorySubscriptionCreated
	case EventSubscriptionRenewed:
		return CategorySubscriptionRenewed
	case EventSubscriptionDeleted:
		return CategorySubscriptionCanceled
	default:
		return CategoryUnhandled
	}
}

func isSameDay(dueDate string, today time.Time) bool {
	due, err := time.Parse(dateLayout, strings.TrimSpace(dueDate))
	if err != nil {
		return false
	}
	return due.Format(dateLayout) == today.UTC().Format(dateLayout)
}
