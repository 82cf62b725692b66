package constants

// Static route constants
const (
	APIV1Route   = "/api/v1"
	WebhookRoute = "/billing/webhook"
)
