package taxjar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	productionBaseURL = "https://api.taxjar.com"
	sandboxBaseURL    = "https://api.sandbox.taxjar.com"

	defaultTimeout = 15 * time.Second
)

// TaxLineItem is one line of a tax-for-order request. ID carries the
// platform source-line id so breakdown entries can be re-associated by id.
type TaxLineItem struct {
	ID             string          `json:"id"`
	Quantity       int             `json:"quantity"`
	ProductTaxCode string          `json:"product_tax_code,omitempty"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Discount       decimal.Decimal `json:"discount"`
}

// TaxParams is the tax-for-order request body. Origin and destination
// address fields follow TaxJar's flat from_/to_ naming.
type TaxParams struct {
	FromStreet  string          `json:"from_street,omitempty"`
	FromCity    string          `json:"from_city,omitempty"`
	FromState   string          `json:"from_state,omitempty"`
	FromZip     string          `json:"from_zip,omitempty"`
	FromCountry string          `json:"from_country,omitempty"`
	ToStreet    string          `json:"to_street,omitempty"`
	ToCity      string          `json:"to_city,omitempty"`
	ToState     string          `json:"to_state,omitempty"`
	ToZip       string          `json:"to_zip"`
	ToCountry   string          `json:"to_country"`
	Shipping    decimal.Decimal `json:"shipping"`
	LineItems   []TaxLineItem   `json:"line_items"`
}

// FetchTaxForOrderArgs wraps the request parameters, mirroring the vendor
// SDK's call shape.
type FetchTaxForOrderArgs struct {
	Params TaxParams `json:"params"`
}

// TaxBreakdownLineItem is the calculated tax of one request line.
type TaxBreakdownLineItem struct {
	ID              string          `json:"id"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxCollectable  decimal.Decimal `json:"tax_collectable"`
	CombinedTaxRate decimal.Decimal `json:"combined_tax_rate"`
}

// TaxBreakdownShipping is the shipping part of the breakdown. TaxJar omits
// it in practice more often than its API reference suggests; the response
// transformer treats absence as "shipping untaxed".
type TaxBreakdownShipping struct {
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaxCollectable  decimal.Decimal `json:"tax_collectable"`
	CombinedTaxRate decimal.Decimal `json:"combined_tax_rate"`
}

// TaxBreakdown itemizes the calculated tax per line and for shipping.
type TaxBreakdown struct {
	Shipping  *TaxBreakdownShipping  `json:"shipping"`
	LineItems []TaxBreakdownLineItem `json:"line_items"`
}

// Tax is the calculation result envelope.
type Tax struct {
	OrderTotalAmount decimal.Decimal `json:"order_total_amount"`
	TaxableAmount    decimal.Decimal `json:"taxable_amount"`
	AmountToCollect  decimal.Decimal `json:"amount_to_collect"`
	Rate             decimal.Decimal `json:"rate"`
	Breakdown        *TaxBreakdown   `json:"breakdown"`
}

// TaxForOrderRes is the tax-for-order response body.
type TaxForOrderRes struct {
	Tax Tax `json:"tax"`
}

// OrderParams is the create-order transaction request body.
type OrderParams struct {
	TransactionID   string          `json:"transaction_id"`
	TransactionDate string          `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Shipping        decimal.Decimal `json:"shipping"`
	SalesTax        decimal.Decimal `json:"sales_tax"`
	ToStreet        string          `json:"to_street,omitempty"`
	ToCity          string          `json:"to_city,omitempty"`
	ToState         string          `json:"to_state,omitempty"`
	ToZip           string          `json:"to_zip"`
	ToCountry       string          `json:"to_country"`
}

// CreateOrderArgs wraps the create-order parameters.
type CreateOrderArgs struct {
	Params OrderParams `json:"params"`
}

// OrderRes is the create-order response body.
type OrderRes struct {
	Order struct {
		TransactionID string `json:"transaction_id"`
	} `json:"order"`
}

// API is the surface of the TaxJar engine the rest of the app depends on.
// The HTTP client below implements it; tests substitute a generated mock.
type API interface {
	TaxForOrder(ctx context.Context, args *FetchTaxForOrderArgs) (*TaxForOrderRes, error)
	CreateOrder(ctx context.Context, args *CreateOrderArgs) (*OrderRes, error)
}

// APIError is a non-2xx reply from TaxJar.
type APIError struct {
	StatusCode int
	ErrorType  string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taxjar: HTTP %d %s: %s", e.StatusCode, e.ErrorType, e.Detail)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Client is the REST implementation of API. One attempt per call, same as
// the AvaTax client: the synchronous webhook leaves no retry budget.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a client for one provider instance configuration.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	baseURL := productionBaseURL
	if cfg.IsSandbox {
		baseURL = sandboxBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.Credentials.APIKey,
	}
}

// TaxForOrder calculates sales tax for an order.
func (c *Client) TaxForOrder(ctx context.Context, args *FetchTaxForOrderArgs) (*TaxForOrderRes, error) {
	var res TaxForOrderRes
	if err := c.post(ctx, "/v2/taxes", args.Params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateOrder records a completed order transaction.
func (c *Client) CreateOrder(ctx context.Context, args *CreateOrderArgs) (*OrderRes, error) {
	var res OrderRes
	if err := c.post(ctx, "/v2/transactions/orders", args.Params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("taxjar: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("taxjar: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("taxjar: calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("taxjar: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope errorResponse
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
			apiErr.ErrorType = envelope.Error
			apiErr.Detail = envelope.Detail
		} else {
			apiErr.Detail = string(raw)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("taxjar: decoding response: %w", err)
	}
	return nil
}
