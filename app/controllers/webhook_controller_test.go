package controllers

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpmoura/asaasbridge/internal/pkg/billing"
)

// recordingRepo implements the two repository operations the processor
// touches; the embedded interface covers the rest.
type recordingRepo struct {
	billing.Repository
	subUpdates map[string]string
	payUpdates map[string]string
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{
		subUpdates: make(map[string]string),
		payUpdates: make(map[string]string),
	}
}

func (r *recordingRepo) UpdateSubscriptionStatusByAsaasID(asaasID, status string) error {
	r.subUpdates[asaasID] = status
	return nil
}

func (r *recordingRepo) UpdatePaymentStatusByAsaasID(asaasID, status string) error {
	r.payUpdates[asaasID] = status
	return nil
}

func newWebhookApp(secret string, repo billing.Repository, handlers *billing.WebhookHandlers) *fiber.App {
	app := fiber.New()
	processor := billing.NewProcessor(repo, nil, handlers)
	app.Post("/billing/webhook", NewWebhookHandler(secret, processor))
	return app
}

func postWebhook(t *testing.T, app *fiber.App, body, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/billing/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(WebhookTokenHeader, token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	repo := newRecordingRepo()
	app := newWebhookApp("topsecret", repo, nil)

	body := `{"event":"SUBSCRIPTION_RENEWED","subscription":{"id":"sub_1","status":"ACTIVE"}}`

	status, respBody := postWebhook(t, app, body, "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, respBody, "invalid_access_token")
	assert.Empty(t, repo.subUpdates, "no mirror row may be mutated on secret mismatch")

	status, _ = postWebhook(t, app, body, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Empty(t, repo.subUpdates)
}

func TestWebhookProcessesWithValidSecret(t *testing.T) {
	repo := newRecordingRepo()
	app := newWebhookApp("topsecret", repo, nil)

	body := `{"event":"SUBSCRIPTION_RENEWED","subscription":{"id":"sub_1","status":"ACTIVE"}}`
	status, respBody := postWebhook(t, app, body, "topsecret")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"received":true}`, respBody)
	assert.Equal(t, "ACTIVE", repo.subUpdates["sub_1"])
}

func TestWebhookProcessesWithoutConfiguredSecret(t *testing.T) {
	repo := newRecordingRepo()
	app := newWebhookApp("", repo, nil)

	body := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","status":"CONFIRMED"}}`
	status, respBody := postWebhook(t, app, body, "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"received":true}`, respBody)
	assert.Equal(t, "CONFIRMED", repo.payUpdates["pay_1"])
}

func TestWebhookAcksWhenHandlerFails(t *testing.T) {
	repo := newRecordingRepo()
	handlers := &billing.WebhookHandlers{
		OnPaymentConfirmed: func(_ context.Context, _ *billing.PaymentEvent) error {
			return errors.New("downstream exploded")
		},
	}
	app := newWebhookApp("", repo, handlers)

	body := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","status":"CONFIRMED"}}`
	status, respBody := postWebhook(t, app, body, "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"received":true}`, respBody)
}

func TestWebhookAcksUnparseableBody(t *testing.T) {
	repo := newRecordingRepo()
	app := newWebhookApp("", repo, nil)

	status, respBody := postWebhook(t, app, "{not json", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"received":true}`, respBody)
}
