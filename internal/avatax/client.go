package avatax

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
	productionBaseURL = "https://rest.avatax.com"
	sandboxBaseURL    = "https://sandbox-rest.avatax.com"

	defaultTimeout = 15 * time.Second
)

// DocumentType selects how AvaTax records a transaction. A SalesOrder is an
// uncommittable quote; a SalesInvoice is a permanent document that can be
// committed.
type DocumentType string

const (
	DocumentTypeSalesOrder   DocumentType = "SalesOrder"
	DocumentTypeSalesInvoice DocumentType = "SalesInvoice"
)

// AddressInfo is AvaTax's address shape. The semantic fields of the
// platform address (street, city, region, postal code, country) round-trip
// losslessly through it.
type AddressInfo struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// AddressesModel carries the origin and destination of a transaction.
type AddressesModel struct {
	ShipFrom *AddressInfo `json:"shipFrom"`
	ShipTo   *AddressInfo `json:"shipTo"`
}

// LineItemModel is one line of a transaction request. Number carries the
// platform source-line id so results can be re-associated by id.
type LineItemModel struct {
	Number   string          `json:"number"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	TaxCode  string          `json:"taxCode,omitempty"`
	ItemCode string          `json:"itemCode,omitempty"`
}

// CreateTransactionModel is the AvaTax transaction request body.
type CreateTransactionModel struct {
	Type         DocumentType    `json:"type"`
	CompanyCode  string          `json:"companyCode"`
	CustomerCode string          `json:"customerCode"`
	Commit       bool            `json:"commit"`
	CurrencyCode string          `json:"currencyCode"`
	Date         time.Time       `json:"date"`
	Lines        []LineItemModel `json:"lines"`
	Addresses    AddressesModel  `json:"addresses"`
}

// CreateTransactionArgs wraps the transaction model, mirroring the vendor
// SDK's call shape.
type CreateTransactionArgs struct {
	Model CreateTransactionModel `json:"model"`
}

// TransactionLineDetailModel is one jurisdiction's contribution to a line's
// tax. The effective line rate is the sum of detail rates.
type TransactionLineDetailModel struct {
	Rate decimal.Decimal `json:"rate"`
	Tax  decimal.Decimal `json:"tax"`
}

// TransactionLineModel is one calculated line of a transaction response.
type TransactionLineModel struct {
	LineNumber    string                       `json:"lineNumber"`
	TaxableAmount decimal.Decimal              `json:"taxableAmount"`
	Tax           decimal.Decimal              `json:"tax"`
	Details       []TransactionLineDetailModel `json:"details"`
}

// TransactionModel is the calculated transaction returned by AvaTax.
type TransactionModel struct {
	ID         int64                  `json:"id"`
	Code       string                 `json:"code"`
	Status     string                 `json:"status"`
	TotalTax   decimal.Decimal        `json:"totalTax"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
	Lines      []TransactionLineModel `json:"lines"`
}

// API is the surface of the AvaTax engine the rest of the app depends on.
// The HTTP client below implements it; tests substitute a generated mock.
type API interface {
	CreateTransaction(ctx context.Context, args *CreateTransactionArgs) (*TransactionModel, error)
	CommitTransaction(ctx context.Context, companyCode, transactionCode string) (*TransactionModel, error)
}

// APIError is a non-2xx reply from AvaTax, preserving the provider's error
// envelope for diagnostics.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("avatax: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is the REST implementation of API. It issues a single attempt per
// call: the webhook reply deadline leaves no retry budget, so transient
// failures surface to the caller as a single failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
}

// NewClient builds a client for one provider instance configuration. A nil
// httpClient gets a default with a timeout well under the platform webhook
// deadline.
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
		username:   cfg.Credentials.Username,
		password:   cfg.Credentials.Password,
	}
}

// CreateTransaction records or quotes a transaction.
func (c *Client) CreateTransaction(ctx context.Context, args *CreateTransactionArgs) (*TransactionModel, error) {
	return c.post(ctx, "/api/v2/transactions/create", args.Model)
}

// CommitTransaction commits a previously created transaction.
func (c *Client) CommitTransaction(ctx context.Context, companyCode, transactionCode string) (*TransactionModel, error) {
	path := fmt.Sprintf("/api/v2/companies/%s/transactions/%s/commit", companyCode, transactionCode)
	return c.post(ctx, path, map[string]bool{"commit": true})
}

func (c *Client) post(ctx context.Context, path string, body any) (*TransactionModel, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("avatax: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("avatax: creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("avatax: calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("avatax: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope errorResponse
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		} else {
			apiErr.Message = string(raw)
		}
		return nil, apiErr
	}

	var transaction TransactionModel
	if err := json.Unmarshal(raw, &transaction); err != nil {
		return nil, fmt.Errorf("avatax: decoding response: %w", err)
	}
	return &transaction, nil
}
