package models

import "time"

// Gateway-reported payment statuses plus the locally-assigned terminal
// state used when a charge is canceled through this system.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusReceived  = "RECEIVED"
	PaymentStatusConfirmed = "CONFIRMED"
	PaymentStatusOverdue   = "OVERDUE"
	PaymentStatusRefunded  = "REFUNDED"
	PaymentStatusDeleted   = "DELETED"
)

// Payment mirrors one gateway charge. A charge auto-generated by a
// subscription cycle may never have a row here; webhook reconciliation
// treats the missing row as a non-fatal miss.
type Payment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	AsaasID           string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"asaas_id"`
	Status            string     `gorm:"type:varchar(40);not null;default:'PENDING';index" json:"status"`
	BillingType       string     `gorm:"type:varchar(20);not null" json:"billing_type"`
	Value             float64    `gorm:"type:decimal(12,2);not null" json:"value"`
	DueDate           *time.Time `gorm:"type:date;default:null" json:"due_date,omitempty"`
	Description       string     `gorm:"type:varchar(500);default:''" json:"description,omitempty"`
	InvoiceURL        string     `gorm:"type:varchar(500);default:''" json:"invoice_url,omitempty"`
	BankSlipURL       string     `gorm:"type:varchar(500);default:''" json:"bank_slip_url,omitempty"`
	PixTransactionID  string     `gorm:"type:varchar(191);default:''" json:"pix_transaction_id,omitempty"`
	ExternalReference string     `gorm:"type:varchar(191);default:''" json:"external_reference,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
