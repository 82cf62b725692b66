package asaas

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// CreateSubscription creates a recurring charge at the gateway.
func (c *Client) CreateSubscription(ctx context.Context, in CreateSubscriptionRequest) (*Subscription, error) {
	if strings.TrimSpace(in.Customer) == "" {
		return nil, errors.New("subscription customer is required")
	}
	if strings.TrimSpace(in.NextDueDate) == "" {
		return nil, errors.New("subscription nextDueDate is required")
	}
	var out Subscription
	if err := c.do(ctx, http.MethodPost, "/subscriptions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubscription fetches one subscription by gateway id.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}
	var out Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(subscriptionID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSubscriptions lists subscriptions with pagination and optional filters.
func (c *Client) ListSubscriptions(ctx context.Context, limit, offset int, filters url.Values) (*SubscriptionList, error) {
	var out SubscriptionList
	if err := c.do(ctx, http.MethodGet, "/subscriptions", listQuery(limit, offset, filters), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSubscription cancels a subscription at the gateway.
func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) (*DeleteResponse, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}
	var out DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(subscriptionID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
