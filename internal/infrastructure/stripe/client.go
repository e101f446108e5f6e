package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/Zhima-Mochi/tshirt-agent/internal/domain/payment"
)

const (
	DefaultBaseURL = "https://api.stripe.com/v1"
	currency       = "usd"
	cardErrorType  = "card_error"
)

// Client creates charges through the Stripe REST API. The payment method token is
// forwarded as the charge source without any local verification.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

var _ payment.Processor = (*Client)(nil)

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type chargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Paid   bool   `json:"paid"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", currency)
	form.Set("source", req.Method)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	form.Set("metadata[order_id]", req.OrderID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("stripe: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe: charge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if resp.StatusCode == http.StatusPaymentRequired || apiErr.Error.Type == cardErrorType {
			return &payment.ChargeResult{Status: payment.StatusFailed}, fmt.Errorf("%w: %s", payment.ErrDeclined, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe: charge: status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("stripe: decode response: %w", err)
	}
	if out.Status != string(payment.StatusSuccess) && !out.Paid {
		return &payment.ChargeResult{ChargeID: out.ID, Status: payment.StatusFailed}, fmt.Errorf("%w: charge status %s", payment.ErrDeclined, out.Status)
	}
	return &payment.ChargeResult{ChargeID: out.ID, Status: payment.StatusSuccess}, nil
}

// MockProcessor approves every charge. It is used when no Stripe key is configured.
type MockProcessor struct {
	charges atomic.Int64
}

var _ payment.Processor = (*MockProcessor)(nil)

func NewMockProcessor() *MockProcessor { return &MockProcessor{} }

func (m *MockProcessor) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.charges.Add(1)
	return &payment.ChargeResult{
		ChargeID: "ch_mock_" + req.OrderID,
		Status:   payment.StatusSuccess,
	}, nil
}

// Charges reports how many charges the mock has approved.
func (m *MockProcessor) Charges() int64 { return m.charges.Load() }
