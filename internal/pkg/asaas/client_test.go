package asaas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		UserAgent:  "asaasbridge-test",
		HTTPClient: srv.Client(),
	}, srv
}

func TestClientAlwaysSendsAuthHeaders(t *testing.T) {
	var gotToken, gotUA string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("access_token")
		gotUA = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode(Customer{ID: "cus_1"})
	})

	_, err := client.GetCustomer(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, "asaasbridge-test", gotUA)
}

func TestClientRequiresAPIKey(t *testing.T) {
	client := &Client{BaseURL: "http://localhost:1"}
	_, err := client.GetCustomer(context.Background(), "cus_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASAAS_API_KEY")
}

func TestClientNon2xxReturnsAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"invalid_value"}]}`))
	})

	_, err := client.CreatePayment(context.Background(), CreatePaymentRequest{
		Customer: "cus_1",
		DueDate:  "2026-09-01",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid_value")
}

func TestListPaymentsPagination(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(PaymentList{
			TotalCount: 42,
			HasMore:    true,
			Limit:      10,
			Offset:     20,
			Data:       []Payment{{ID: "pay_1"}},
		})
	})

	filters := url.Values{}
	filters.Set("status", "PENDING")
	list, err := client.ListPayments(context.Background(), 10, 20, filters)
	require.NoError(t, err)

	assert.Equal(t, "10", gotQuery.Get("limit"))
	assert.Equal(t, "20", gotQuery.Get("offset"))
	assert.Equal(t, "PENDING", gotQuery.Get("status"))
	assert.Equal(t, 42, list.TotalCount)
	assert.True(t, list.HasMore)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "pay_1", list.Data[0].ID)
}

func TestGetPixQrCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_1/pixQrCode", r.URL.Path)
		_ = json.NewEncoder(w).Encode(PixQrCode{
			Success:        true,
			EncodedImage:   "base64img",
			Payload:        "copy-paste-code",
			ExpirationDate: "2026-08-30 23:59:59",
		})
	})

	qr, err := client.GetPixQrCode(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.True(t, qr.Success)
	assert.Equal(t, "base64img", qr.EncodedImage)
	assert.Equal(t, "copy-paste-code", qr.Payload)
}

func TestFindCustomerByExternalReference(t *testing.T) {
	var gotRef string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("externalReference")
		_ = json.NewEncoder(w).Encode(CustomerList{
			TotalCount: 2,
			Data: []Customer{
				{ID: "cus_old", ExternalReference: "user-7", Deleted: true},
				{ID: "cus_1", ExternalReference: "user-7"},
			},
		})
	})

	customer, err := client.FindCustomerByExternalReference(context.Background(), "user-7")
	require.NoError(t, err)
	assert.Equal(t, "user-7", gotRef)
	require.NotNil(t, customer)
	// Deleted gateway customers are skipped.
	assert.Equal(t, "cus_1", customer.ID)
}

func TestFindCustomerByExternalReferenceNoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(CustomerList{TotalCount: 0})
	})

	customer, err := client.FindCustomerByExternalReference(context.Background(), "user-404")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestCreateSubscriptionSendsJSONBody(t *testing.T) {
	var gotBody CreateSubscriptionRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(Subscription{ID: "sub_1", Status: "ACTIVE"})
	})

	sub, err := client.CreateSubscription(context.Background(), CreateSubscriptionRequest{
		Customer:    "cus_1",
		BillingType: "PIX",
		Value:       49.90,
		NextDueDate: "2026-09-12",
		Cycle:       "MONTHLY",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "cus_1", gotBody.Customer)
	assert.Equal(t, "2026-09-12", gotBody.NextDueDate)
}
