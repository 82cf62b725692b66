package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jpmoura/asaasbridge/app/models"
	"github.com/jpmoura/asaasbridge/internal/pkg/asaas"
)

type fakeGateway struct {
	customersByRef   map[string]*asaas.Customer
	createdCustomers []asaas.CreateCustomerRequest
	createdSubs      []asaas.CreateSubscriptionRequest
	createdPayments  []asaas.CreatePaymentRequest
	deletedSubs      []string
	deletedPayments  []string

	qr        *asaas.PixQrCode
	qrErr     error
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{customersByRef: make(map[string]*asaas.Customer)}
}

func (g *fakeGateway) FindCustomerByExternalReference(_ context.Context, ref string) (*asaas.Customer, error) {
	if c, ok := g.customersByRef[ref]; ok {
		return c, nil
	}
	return nil, nil
}

func (g *fakeGateway) CreateCustomer(_ context.Context, in asaas.CreateCustomerRequest) (*asaas.Customer, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.createdCustomers = append(g.createdCustomers, in)
	c := &asaas.Customer{
		ID:                "cus_" + in.ExternalReference,
		Name:              in.Name,
		Email:             in.Email,
		CpfCnpj:           in.CpfCnpj,
		ExternalReference: in.ExternalReference,
	}
	g.customersByRef[in.ExternalReference] = c
	return c, nil
}

func (g *fakeGateway) CreateSubscription(_ context.Context, in asaas.CreateSubscriptionRequest) (*asaas.Subscription, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.createdSubs = append(g.createdSubs, in)
	return &asaas.Subscription{
		ID:          "sub_1",
		Customer:    in.Customer,
		BillingType: in.BillingType,
		Value:       in.Value,
		NextDueDate: in.NextDueDate,
		Status:      models.SubscriptionStatusActive,
	}, nil
}

func (g *fakeGateway) DeleteSubscription(_ context.Context, id string) (*asaas.DeleteResponse, error) {
	g.deletedSubs = append(g.deletedSubs, id)
	return &asaas.DeleteResponse{ID: id, Deleted: true}, nil
}

func (g *fakeGateway) CreatePayment(_ context.Context, in asaas.CreatePaymentRequest) (*asaas.Payment, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.createdPayments = append(g.createdPayments, in)
	return &asaas.Payment{
		ID:          "pay_1",
		Customer:    in.Customer,
		BillingType: in.BillingType,
		Value:       in.Value,
		Status:      models.PaymentStatusPending,
		DueDate:     in.DueDate,
		InvoiceURL:  "https://invoice.example/pay_1",
		BankSlipURL: "https://slip.example/pay_1",
	}, nil
}

func (g *fakeGateway) DeletePayment(_ context.Context, id string) (*asaas.DeleteResponse, error) {
	g.deletedPayments = append(g.deletedPayments, id)
	return &asaas.DeleteResponse{ID: id, Deleted: true}, nil
}

func (g *fakeGateway) GetPixQrCode(_ context.Context, _ string) (*asaas.PixQrCode, error) {
	if g.qrErr != nil {
		return nil, g.qrErr
	}
	return g.qr, nil
}

func newTestService(repo Repository, gateway GatewayAPI) *Service {
	svc := NewService(repo, gateway)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	}
	return svc
}

func testUser() *models.User {
	return &models.User{
		ID:      7,
		Name:    "Maria Souza",
		Email:   "maria@example.com",
		CpfCnpj: "12345678901",
	}
}

func TestEnsureCustomerCreatesWhenAbsent(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	customer, err := svc.EnsureCustomer(context.Background(), testUser())
	if err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}
	if len(gateway.createdCustomers) != 1 {
		t.Fatalf("expected one gateway create, got %d", len(gateway.createdCustomers))
	}
	if customer.ExternalReference != "user-7" {
		t.Fatalf("expected deterministic external reference, got %q", customer.ExternalReference)
	}
	if customer.AsaasID == "" {
		t.Fatal("expected gateway id on the link row")
	}
}

func TestEnsureCustomerReusesExistingRemote(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	gateway.customersByRef["user-7"] = &asaas.Customer{
		ID:                "cus_existing",
		ExternalReference: "user-7",
	}
	svc := newTestService(repo, gateway)

	customer, err := svc.EnsureCustomer(context.Background(), testUser())
	if err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}
	if len(gateway.createdCustomers) != 0 {
		t.Fatal("expected find-or-create to skip the gateway create")
	}
	if customer.AsaasID != "cus_existing" {
		t.Fatalf("expected link to existing gateway customer, got %q", customer.AsaasID)
	}
}

func TestEnsureCustomerIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	first, err := svc.EnsureCustomer(context.Background(), testUser())
	if err != nil {
		t.Fatalf("first EnsureCustomer failed: %v", err)
	}
	second, err := svc.EnsureCustomer(context.Background(), testUser())
	if err != nil {
		t.Fatalf("second EnsureCustomer failed: %v", err)
	}
	if first.AsaasID != second.AsaasID {
		t.Fatalf("expected same customer, got %q then %q", first.AsaasID, second.AsaasID)
	}
	if len(gateway.createdCustomers) != 1 {
		t.Fatalf("expected exactly one gateway create, got %d", len(gateway.createdCustomers))
	}
}

func TestCreateSubscriptionTrialRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	if _, err := svc.EnsureCustomer(context.Background(), testUser()); err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}

	sub, err := svc.CreateSubscription(context.Background(), 7, CreateSubscriptionInput{
		BillingType: models.BillingTypeCreditCard,
		Value:       49.90,
		TrialDays:   14,
	})
	if err != nil {
		t.Fatalf("CreateSubscription failed: %v", err)
	}

	want := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	if sub.NextDueDate == nil || !sub.NextDueDate.Equal(want) {
		t.Fatalf("expected nextDueDate today+14 (%s), got %v", want.Format("2006-01-02"), sub.NextDueDate)
	}
	if sub.TrialEndsAt == nil || !sub.TrialEndsAt.Equal(want) {
		t.Fatalf("expected trialEndsAt today+14, got %v", sub.TrialEndsAt)
	}
	if sub.Status != models.SubscriptionStatusActive {
		t.Fatalf("expected immediately active trial, got %q", sub.Status)
	}
	if got := gateway.createdSubs[0].NextDueDate; got != "2026-09-12" {
		t.Fatalf("expected gateway nextDueDate 2026-09-12, got %q", got)
	}
}

func TestCreateSubscriptionRequiresDueDateOrTrial(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	if _, err := svc.EnsureCustomer(context.Background(), testUser()); err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}
	if _, err := svc.CreateSubscription(context.Background(), 7, CreateSubscriptionInput{
		BillingType: models.BillingTypePix,
		Value:       10,
	}); err == nil {
		t.Fatal("expected error without nextDueDate and trialDays")
	}
}

func TestCreateSubscriptionWithoutCustomer(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeGateway())

	_, err := svc.CreateSubscription(context.Background(), 99, CreateSubscriptionInput{
		BillingType: models.BillingTypePix,
		Value:       10,
		TrialDays:   7,
	})
	if !errors.Is(err, ErrNoCustomer) {
		t.Fatalf("expected ErrNoCustomer, got %v", err)
	}
}

func TestCancelSubscriptionOwnership(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	sub := &models.Subscription{UserID: 7, AsaasID: "sub_1", Status: models.SubscriptionStatusActive}
	if err := repo.CreateSubscription(sub); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.CancelSubscription(context.Background(), 8, sub.ID); !errors.Is(err, ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned for foreign user, got %v", err)
	}
	if len(gateway.deletedSubs) != 0 {
		t.Fatal("expected no gateway delete on ownership failure")
	}

	canceled, err := svc.CancelSubscription(context.Background(), 7, sub.ID)
	if err != nil {
		t.Fatalf("CancelSubscription failed: %v", err)
	}
	if canceled.Status != models.SubscriptionStatusCanceled {
		t.Fatalf("expected CANCELED, got %q", canceled.Status)
	}
	if len(gateway.deletedSubs) != 1 || gateway.deletedSubs[0] != "sub_1" {
		t.Fatalf("expected gateway delete of sub_1, got %v", gateway.deletedSubs)
	}
}

func TestCreatePaymentPixIncludesQrBestEffort(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	gateway.qr = &asaas.PixQrCode{Success: true, Payload: "copy-paste"}
	svc := newTestService(repo, gateway)

	if _, err := svc.EnsureCustomer(context.Background(), testUser()); err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}

	payment, qr, err := svc.CreatePayment(context.Background(), 7, CreatePaymentInput{
		BillingType: models.BillingTypePix,
		Value:       120,
		DueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if qr == nil || qr.Payload != "copy-paste" {
		t.Fatalf("expected qr block, got %+v", qr)
	}
	if payment.InvoiceURL == "" {
		t.Fatal("expected invoice url mirrored from gateway")
	}

	// QR failure must not fail the creation.
	gateway.qrErr = errors.New("gateway busy")
	payment2, qr2, err := svc.CreatePayment(context.Background(), 7, CreatePaymentInput{
		BillingType: models.BillingTypePix,
		Value:       60,
		DueDate:     time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePayment with qr failure failed: %v", err)
	}
	if qr2 != nil {
		t.Fatal("expected no qr block on fetch failure")
	}
	if payment2.ID == 0 {
		t.Fatal("expected mirror row despite qr failure")
	}
}

func TestCancelPaymentMarksDeleted(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	payment := &models.Payment{UserID: 7, AsaasID: "pay_1", Status: models.PaymentStatusPending}
	if err := repo.CreatePayment(payment); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	canceled, err := svc.CancelPayment(context.Background(), 7, payment.ID)
	if err != nil {
		t.Fatalf("CancelPayment failed: %v", err)
	}
	if canceled.Status != models.PaymentStatusDeleted {
		t.Fatalf("expected DELETED, got %q", canceled.Status)
	}
	if len(gateway.deletedPayments) != 1 {
		t.Fatalf("expected one gateway delete, got %v", gateway.deletedPayments)
	}
}

func TestCreatePaymentGeneratesExternalReference(t *testing.T) {
	repo := newFakeRepo()
	gateway := newFakeGateway()
	svc := newTestService(repo, gateway)

	if _, err := svc.EnsureCustomer(context.Background(), testUser()); err != nil {
		t.Fatalf("EnsureCustomer failed: %v", err)
	}
	payment, _, err := svc.CreatePayment(context.Background(), 7, CreatePaymentInput{
		BillingType: models.BillingTypeBoleto,
		Value:       35,
		DueDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if payment.ExternalReference == "" {
		t.Fatal("expected generated external reference")
	}
	if gateway.createdPayments[0].ExternalReference != payment.ExternalReference {
		t.Fatal("expected same external reference sent to gateway")
	}
}
