package asaas

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// CreatePayment creates a one-time charge at the gateway.
func (c *Client) CreatePayment(ctx context.Context, in CreatePaymentRequest) (*Payment, error) {
	if strings.TrimSpace(in.Customer) == "" {
		return nil, errors.New("payment customer is required")
	}
	if strings.TrimSpace(in.DueDate) == "" {
		return nil, errors.New("payment dueDate is required")
	}
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/payments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment fetches one charge by gateway id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, errors.New("payment id is required")
	}
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPayments lists charges with pagination and optional filters.
func (c *Client) ListPayments(ctx context.Context, limit, offset int, filters url.Values) (*PaymentList, error) {
	var out PaymentList
	if err := c.do(ctx, http.MethodGet, "/payments", listQuery(limit, offset, filters), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePayment removes a charge at the gateway.
func (c *Client) DeletePayment(ctx context.Context, paymentID string) (*DeleteResponse, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, errors.New("payment id is required")
	}
	var out DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/payments/"+url.PathEscape(paymentID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPixQrCode fetches the Pix QR block for a charge. Used by the webhook
// processor to enrich Pix payment events; a failure here is always
// recoverable for callers.
func (c *Client) GetPixQrCode(ctx context.Context, paymentID string) (*PixQrCode, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, errors.New("payment id is required")
	}
	var out PixQrCode
	if err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID)+"/pixQrCode", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
