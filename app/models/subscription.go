package models

import "time"

// Gateway-reported subscription statuses plus the locally-assigned
// terminal state used when a subscription is canceled.
const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusInactive = "INACTIVE"
	SubscriptionStatusExpired  = "EXPIRED"
	SubscriptionStatusCanceled = "CANCELED"
)

// Billing types accepted by the gateway.
const (
	BillingTypeBoleto     = "BOLETO"
	BillingTypeCreditCard = "CREDIT_CARD"
	BillingTypePix        = "PIX"
	BillingTypeUndefined  = "UNDEFINED"
)

// Subscription mirrors one gateway subscription. Rows are never deleted;
// cancellation is a status transition.
type Subscription struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	AsaasID           string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"asaas_id"`
	Status            string     `gorm:"type:varchar(32);not null;default:'ACTIVE';index" json:"status"`
	BillingType       string     `gorm:"type:varchar(20);not null" json:"billing_type"`
	Value             float64    `gorm:"type:decimal(12,2);not null" json:"value"`
	NextDueDate       *time.Time `gorm:"type:date;default:null" json:"next_due_date,omitempty"`
	Description       string     `gorm:"type:varchar(500);default:''" json:"description,omitempty"`
	ExternalReference string     `gorm:"type:varchar(191);default:''" json:"external_reference,omitempty"`
	TrialEndsAt       *time.Time `gorm:"type:date;default:null" json:"trial_ends_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
