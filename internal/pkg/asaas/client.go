package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpmoura/asaasbridge/internal/pkg/env"
)

const (
	defaultAPIBaseURL = "https://api.asaas.com/v3"
	sandboxAPIBaseURL = "https://api-sandbox.asaas.com/v3"

	defaultUserAgent = "asaasbridge"
)

// Client is the authenticated HTTP wrapper for the Asaas REST API. Every
// outbound request carries the access_token and User-Agent headers, even
// when callers supply their own header set.
type Client struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// APIError carries the HTTP status and raw body of a non-2xx gateway
// response. Callers distinguish failures further only by inspecting Body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asaas request failed: status=%d body=%s", e.StatusCode, e.Body)
}

func NewClientFromEnv() *Client {
	base := strings.TrimSpace(env.GetEnv("ASAAS_API_BASE_URL", ""))
	if base == "" {
		if env.IsDev() {
			base = sandboxAPIBaseURL
		} else {
			base = defaultAPIBaseURL
		}
	}

	return &Client{
		APIKey:     strings.TrimSpace(env.GetEnv("ASAAS_API_KEY", "")),
		BaseURL:    strings.TrimRight(base, "/"),
		UserAgent:  strings.TrimSpace(env.GetEnv("ASAAS_USER_AGENT", defaultUserAgent)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// do issues one request against the gateway and decodes the JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out interface{}) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("ASAAS_API_KEY is not configured")
	}

	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + path)
	if err != nil {
		return fmt.Errorf("invalid ASAAS_API_BASE_URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Credentials are attached last so they can never be dropped by
	// caller-supplied headers.
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("access_token", c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func listQuery(limit, offset int, filters url.Values) url.Values {
	q := url.Values{}
	for k, vs := range filters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	return q
}
