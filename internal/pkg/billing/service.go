package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jpmoura/asaasbridge/app/models"
	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

var (
	// ErrNoCustomer means the user has no provisioned gateway customer yet.
	ErrNoCustomer = errors.New("no gateway customer provisioned for user")
	// ErrNotOwned means the requested row belongs to a different user.
	ErrNotOwned = errors.New("record does not belong to the authenticated user")
)

// GatewayAPI is the slice of the gateway client the billing service uses.
// *asaas.Client satisfies it.
type GatewayAPI interface {
	FindCustomerByExternalReference(ctx context.Context, externalReference string) (*asaas.Customer, error)
	CreateCustomer(ctx context.Context, in asaas.CreateCustomerRequest) (*asaas.Customer, error)
	CreateSubscription(ctx context.Context, in asaas.CreateSubscriptionRequest) (*asaas.Subscription, error)
	DeleteSubscription(ctx context.Context, subscriptionID string) (*asaas.DeleteResponse, error)
	CreatePayment(ctx context.Context, in asaas.CreatePaymentRequest) (*asaas.Payment, error)
	DeletePayment(ctx context.Context, paymentID string) (*asaas.DeleteResponse, error)
	GetPixQrCode(ctx context.Context, paymentID string) (*asaas.PixQrCode, error)
}

// Service implements the billing operations behind the session-gated
// endpoints: customer provisioning, subscription and payment lifecycle,
// all scoped to the owning user.
type Service struct {
	repo    Repository
	gateway GatewayAPI
	now     func() time.Time
}

// NewService creates a billing service from an injected repository and
// gateway client.
func NewService(repo Repository, gateway GatewayAPI) *Service {
	return &Service{repo: repo, gateway: gateway, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway GatewayAPI) *Service {
	return NewService(NewRepository(db), gateway)
}

// CustomerExternalReference is the deterministic tag used to find an
// already-provisioned gateway customer for a user.
func CustomerExternalReference(userID uint) string {
	return fmt.Sprintf("user-%d", userID)
}

// EnsureCustomer provisions a gateway customer for the user if one does
// not exist yet. The gateway is checked by external reference before
// creating, so repeated calls (and re-registrations against an existing
// gateway account) stay idempotent.
func (s *Service) EnsureCustomer(ctx context.Context, user *models.User) (*models.GatewayCustomer, error) {
	if user == nil || user.ID == 0 {
		return nil, errors.New("user is required")
	}

	if existing, err := s.repo.GetCustomerByUserID(user.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ref := CustomerExternalReference(user.ID)
	remote, err := s.gateway.FindCustomerByExternalReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		remote, err = s.gateway.CreateCustomer(ctx, asaas.CreateCustomerRequest{
			Name:              user.Name,
			Email:             user.Email,
			CpfCnpj:           user.CpfCnpj,
			MobilePhone:       user.Phone,
			ExternalReference: ref,
		})
		if err != nil {
			return nil, err
		}
	}

	customer := &models.GatewayCustomer{
		UserID:            user.ID,
		AsaasID:           remote.ID,
		ExternalReference: ref,
		Email:             remote.Email,
		CpfCnpj:           remote.CpfCnpj,
	}
	if err := s.repo.UpsertCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns the gateway customer link for a user.
func (s *Service) GetCustomer(ctx context.Context, userID uint) (*models.GatewayCustomer, error) {
	_ = ctx
	customer, err := s.repo.GetCustomerByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCustomer
		}
		return nil, err
	}
	return customer, nil
}

// CreateSubscriptionInput carries the caller-facing subscription fields.
// TrialDays with an omitted NextDueDate starts the first cycle after the
// trial window.
type CreateSubscriptionInput struct {
	BillingType       string
	Value             float64
	NextDueDate       *time.Time
	Cycle             string
	TrialDays         int
	Description       string
	ExternalReference string
}

// CreateSubscription creates the subscription at the gateway and mirrors
// it locally. Trial subscriptions are stored as immediately ACTIVE with
// nextDueDate and trialEndsAt both set to today plus the trial window.
func (s *Service) CreateSubscription(ctx context.Context, userID uint, in CreateSubscriptionInput) (*models.Subscription, error) {
	customer, err := s.GetCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	var trialEndsAt *time.Time
	dueDate := in.NextDueDate
	if dueDate == nil {
		if in.TrialDays <= 0 {
			return nil, errors.New("nextDueDate or trialDays is required")
		}
		d := s.today().AddDate(0, 0, in.TrialDays)
		dueDate = &d
		trialEndsAt = &d
	} else if in.TrialDays > 0 {
		d := s.today().AddDate(0, 0, in.TrialDays)
		trialEndsAt = &d
	}

	cycle := strings.TrimSpace(in.Cycle)
	if cycle == "" {
		cycle = "MONTHLY"
	}
	externalReference := strings.TrimSpace(in.ExternalReference)
	if externalReference == "" {
		externalReference = uuid.NewString()
	}

	remote, err := s.gateway.CreateSubscription(ctx, asaas.CreateSubscriptionRequest{
		Customer:          customer.AsaasID,
		BillingType:       in.BillingType,
		Value:             in.Value,
		NextDueDate:       dueDate.Format(dateLayout),
		Cycle:             cycle,
		Description:       in.Description,
		ExternalReference: externalReference,
	})
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		UserID:            userID,
		AsaasID:           remote.ID,
		Status:            models.SubscriptionStatusActive,
		BillingType:       in.BillingType,
		Value:             in.Value,
		NextDueDate:       dueDate,
		Description:       in.Description,
		ExternalReference: externalReference,
		TrialEndsAt:       trialEndsAt,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions returns the caller's subscription mirror rows.
func (s *Service) ListSubscriptions(ctx context.Context, userID uint) ([]models.Subscription, error) {
	_ = ctx
	return s.repo.ListSubscriptionsByUser(userID)
}

// CancelSubscription cancels the subscription at the gateway and moves the
// local row to the terminal CANCELED status. The row is never deleted.
func (s *Service) CancelSubscription(ctx context.Context, userID, subscriptionID uint) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscriptionByID(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrNotOwned
	}

	if _, err := s.gateway.DeleteSubscription(ctx, sub.AsaasID); err != nil {
		return nil, err
	}
	if err := s.repo.SetSubscriptionStatus(sub.ID, models.SubscriptionStatusCanceled); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatusCanceled
	return sub, nil
}

// CreatePaymentInput carries the caller-facing one-time charge fields.
type CreatePaymentInput struct {
	BillingType       string
	Value             float64
	DueDate           time.Time
	Description       string
	ExternalReference string
}

// CreatePayment creates a one-time charge at the gateway and mirrors it
// locally. For Pix charges the QR block is fetched best-effort and
// returned alongside the row.
func (s *Service) CreatePayment(ctx context.Context, userID uint, in CreatePaymentInput) (*models.Payment, *asaas.PixQrCode, error) {
	customer, err := s.GetCustomer(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	externalReference := strings.TrimSpace(in.ExternalReference)
	if externalReference == "" {
		externalReference = uuid.NewString()
	}

	remote, err := s.gateway.CreatePayment(ctx, asaas.CreatePaymentRequest{
		Customer:          customer.AsaasID,
		BillingType:       in.BillingType,
		Value:             in.Value,
		DueDate:           in.DueDate.Format(dateLayout),
		Description:       in.Description,
		ExternalReference: externalReference,
	})
	if err != nil {
		return nil, nil, err
	}

	status := strings.TrimSpace(remote.Status)
	if status == "" {
		status = models.PaymentStatusPending
	}
	dueDate := in.DueDate
	payment := &models.Payment{
		UserID:            userID,
		AsaasID:           remote.ID,
		Status:            status,
		BillingType:       in.BillingType,
		Value:             in.Value,
		DueDate:           &dueDate,
		Description:       in.Description,
		InvoiceURL:        remote.InvoiceURL,
		BankSlipURL:       remote.BankSlipURL,
		PixTransactionID:  remote.PixTransaction,
		ExternalReference: externalReference,
	}
	if err := s.repo.CreatePayment(payment); err != nil {
		return nil, nil, err
	}

	var qr *asaas.PixQrCode
	if in.BillingType == models.BillingTypePix {
		// Best-effort: the charge is already created either way.
		qr, _ = s.gateway.GetPixQrCode(ctx, remote.ID)
	}
	return payment, qr, nil
}

// ListPayments returns the caller's payment mirror rows.
func (s *Service) ListPayments(ctx context.Context, userID uint) ([]models.Payment, error) {
	_ = ctx
	return s.repo.ListPaymentsByUser(userID)
}

// CancelPayment removes the charge at the gateway and moves the local row
// to the terminal DELETED status. The row is never physically deleted.
func (s *Service) CancelPayment(ctx context.Context, userID, paymentID uint) (*models.Payment, error) {
	payment, err := s.repo.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrNotOwned
	}

	if _, err := s.gateway.DeletePayment(ctx, payment.AsaasID); err != nil {
		return nil, err
	}
	if err := s.repo.SetPaymentStatus(payment.ID, models.PaymentStatusDeleted); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusDeleted
	return payment, nil
}

func (s *Service) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
