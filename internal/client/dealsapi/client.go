// Package dealsapi is a small HTTP client for the deal endpoints.
package dealsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dealdesk-service/internal/domain/deal"

	"gopkg.in/resty.v1"
)

// envelope mirrors the server's response format.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// APIError is a non 2xx answer from the server.
type APIError struct {
	Status     int
	Message    string
	Detail     string
	Validation *deal.ValidationResult
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// PublishedDeal is the subset of a published deal the client reads. Terms
// are left out because they are a per type shape.
type PublishedDeal struct {
	ID            int64           `json:"id"`
	DealCode      string          `json:"deal_code"`
	Title         string          `json:"title"`
	DealType      deal.DealType   `json:"deal_type"`
	Status        deal.DealStatus `json:"status"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       time.Time       `json:"end_time"`
	OriginalValue float64         `json:"original_value"`
	FinalValue    float64         `json:"final_value"`
}

type Summary struct {
	Pricing    deal.PricingPreviewResponse `json:"pricing"`
	Validation deal.ValidationResult       `json:"validation"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	c := resty.New().
		SetHostURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/v1/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Publish sends the payload once. It is not retried.
func (c *Client) Publish(ctx context.Context, req *deal.PublishDealRequest) (*PublishedDeal, error) {
	var out PublishedDeal
	if err := c.post(ctx, "/api/v1/deals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate asks the server to validate and price the payload without
// publishing it.
func (c *Client) Validate(ctx context.Context, req *deal.PublishDealRequest) (*Summary, error) {
	var out Summary
	if err := c.post(ctx, "/api/v1/deals/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode()), Detail: string(resp.Body())}
	}

	if resp.IsError() || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode(), Message: env.Message, Detail: env.Error}
		if resp.StatusCode() == http.StatusUnprocessableEntity && len(env.Data) > 0 {
			var result deal.ValidationResult
			if json.Unmarshal(env.Data, &result) == nil {
				apiErr.Validation = &result
			}
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
