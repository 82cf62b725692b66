package asaas

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// CreateCustomer registers a new customer at the gateway.
func (c *Client) CreateCustomer(ctx context.Context, in CreateCustomerRequest) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.CpfCnpj) == "" {
		return nil, errors.New("customer name and cpfCnpj are required")
	}
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCustomer fetches one customer by gateway id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customer id is required")
	}
	var out Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCustomers lists customers with pagination and optional filters.
func (c *Client) ListCustomers(ctx context.Context, limit, offset int, filters url.Values) (*CustomerList, error) {
	var out CustomerList
	if err := c.do(ctx, http.MethodGet, "/customers", listQuery(limit, offset, filters), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindCustomerByExternalReference looks up an existing customer by the
// external reference tag used for idempotent provisioning. Returns nil
// without error when no customer matches.
func (c *Client) FindCustomerByExternalReference(ctx context.Context, externalReference string) (*Customer, error) {
	ref := strings.TrimSpace(externalReference)
	if ref == "" {
		return nil, errors.New("external reference is required")
	}
	filters := url.Values{}
	filters.Set("externalReference", ref)
	// A deleted customer can share the reference with its replacement, so
	// fetch a page and skip deleted entries.
	list, err := c.ListCustomers(ctx, 10, 0, filters)
	if err != nil {
		return nil, err
	}
	for i := range list.Data {
		if !list.Data[i].Deleted {
			return &list.Data[i], nil
		}
	}
	return nil, nil
}

// DeleteCustomer removes a customer at the gateway.
func (c *Client) DeleteCustomer(ctx context.Context, customerID string) (*DeleteResponse, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, errors.New("customer id is required")
	}
	var out DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
