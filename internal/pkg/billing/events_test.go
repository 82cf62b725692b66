package billing

import (
	"testing"
	"time"

	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

func TestClassifyRecognizedEvents(t *testing.T) {
	today := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		event string
		want  Category
	}{
		{event: "PAYMENT_CREATED", want: CategoryPaymentCreated},
		{event: "PAYMENT_DUE_DATE_REMINDER", want: CategoryPaymentDueSoon},
		{event: "PAYMENT_CONFIRMED", want: CategoryPaymentConfirmed},
		{event: "PAYMENT_RECEIVED", want: CategoryPaymentConfirmed},
		{event: "PAYMENT_REFUNDED", want: CategoryPaymentRefunded},
		{event: "PAYMENT_PARTIALLY_REFUNDED", want: CategoryPaymentRefunded},
		{event: "PAYMENT_CHARGEBACK_REQUESTED", want: CategoryPaymentChargeback},
		{event: "PAYMENT_CHARGEBACK_DISPUTE", want: CategoryPaymentChargeback},
		{event: "PAYMENT_AWAITING_CHARGEBACK_REVERSAL", want: CategoryPaymentChargeback},
		{event: "SUBSCRIPTION_CREATED", want: CategorySubscriptionCreated},
		{event: "SUBSCRIPTION_RENEWED", want: CategorySubscriptionRenewed},
		{event: "SUBSCRIPTION_DELETED", want: CategorySubscriptionCanceled},
		{event: "SOMETHING_ELSE", want: CategoryUnhandled},
		{event: "", want: CategoryUnhandled},
	}

	for _, tt := range tests {
		ev := &WebhookEvent{Event: tt.event}
		if got := Classify(ev, today); got != tt.want {
			t.Fatalf("Classify(%q) = %q, want %q", tt.event, got, tt.want)
		}
	}
}

func TestClassifyOverdueDisambiguation(t *testing.T) {
	today := time.Date(2026, 8, 29, 23, 45, 0, 0, time.UTC)

	dueToday := &WebhookEvent{
		Event:   EventPaymentOverdue,
		Payment: &asaas.Payment{ID: "pay_1", DueDate: "2026-08-29"},
	}
	if got := Classify(dueToday, today); got != CategoryPaymentDueToday {
		t.Fatalf("expected due-today category for due date equal to today, got %q", got)
	}

	pastDue := &WebhookEvent{
		Event:   EventPaymentOverdue,
		Payment: &asaas.Payment{ID: "pay_1", DueDate: "2026-08-20"},
	}
	if got := Classify(pastDue, today); got != CategoryPaymentOverdue {
		t.Fatalf("expected overdue category for past due date, got %q", got)
	}

	// No payment snapshot at all defaults to overdue.
	noSnapshot := &WebhookEvent{Event: EventPaymentOverdue}
	if got := Classify(noSnapshot, today); got != CategoryPaymentOverdue {
		t.Fatalf("expected overdue category without payment snapshot, got %q", got)
	}

	// Unparseable due dates are not "today".
	badDate := &WebhookEvent{
		Event:   EventPaymentOverdue,
		Payment: &asaas.Payment{ID: "pay_1", DueDate: "29/08/2026"},
	}
	if got := Classify(badDate, today); got != CategoryPaymentOverdue {
		t.Fatalf("expected overdue category for unparseable due date, got %q", got)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	today := time.Now()
	ev := &WebhookEvent{Event: " payment_created "}
	if got := Classify(ev, today); got != CategoryPaymentCreated {
		t.Fatalf("expected trimmed, case-insensitive match, got %q", got)
	}
}
