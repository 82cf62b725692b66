package models

import "time"

// GatewayCustomer links a local user to their Asaas customer record.
// One row per user, provisioned on sign-up via find-or-create.
type GatewayCustomer struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	AsaasID           string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"asaas_id"`
	ExternalReference string    `gorm:"type:varchar(191);not null;index" json:"external_reference"`
	Email             string    `gorm:"type:varchar(200);default:''" json:"email"`
	CpfCnpj           string    `gorm:"type:varchar(18);default:''" json:"cpf_cnpj"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
