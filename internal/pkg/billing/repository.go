package billing

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jpmoura/asaasbridge/app/models"
)

// Repository provides the DB operations used by the billing service and
// the webhook processor.
type Repository interface {
	UpsertCustomer(customer *models.GatewayCustomer) error
	GetCustomerByUserID(userID uint) (*models.GatewayCustomer, error)

	CreateSubscription(sub *models.Subscription) error
	GetSubscriptionByID(id uint) (*models.Subscription, error)
	ListSubscriptionsByUser(userID uint) ([]models.Subscription, error)
	SetSubscriptionStatus(id uint, status string) error
	// UpdateSubscriptionStatusByAsaasID overwrites the status of the row
	// matching the gateway id. Zero matching rows is not an error.
	UpdateSubscriptionStatusByAsaasID(asaasID, status string) error

	CreatePayment(payment *models.Payment) error
	GetPaymentByID(id uint) (*models.Payment, error)
	ListPaymentsByUser(userID uint) ([]models.Payment, error)
	SetPaymentStatus(id uint, status string) error
	// UpdatePaymentStatusByAsaasID overwrites the status of the row
	// matching the gateway id. Zero matching rows is not an error.
	UpdatePaymentStatusByAsaasID(asaasID, status string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertCustomer(customer *models.GatewayCustomer) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"asaas_id",
			"external_reference",
			"email",
			"cpf_cnpj",
			"updated_at",
		}),
	}).Create(customer).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", customer.UserID).First(customer).Error
}

func (r *gormRepository) GetCustomerByUserID(userID uint) (*models.GatewayCustomer, error) {
	var customer models.GatewayCustomer
	if err := r.db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *gormRepository) CreateSubscription(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) GetSubscriptionByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&subs).Error
	return subs, err
}

func (r *gormRepository) SetSubscriptionStatus(id uint, status string) error {
	return r.db.Model(&models.Subscription{}).Where("id = ?", id).Update("status", status).Error
}

func (r *gormRepository) UpdateSubscriptionStatusByAsaasID(asaasID, status string) error {
	return r.db.Model(&models.Subscription{}).Where("asaas_id = ?", asaasID).Update("status", status).Error
}

func (r *gormRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *gormRepository) GetPaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormRepository) ListPaymentsByUser(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&payments).Error
	return payments, err
}

func (r *gormRepository) SetPaymentStatus(id uint, status string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *gormRepository) UpdatePaymentStatusByAsaasID(asaasID, status string) error {
	return r.db.Model(&models.Payment{}).Where("asaas_id = ?", asaasID).Update("status", status).Error
}
