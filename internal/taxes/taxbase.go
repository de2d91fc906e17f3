// Package taxes holds the provider-agnostic domain model of the tax
// calculation pipeline: the TaxBase snapshot received from the platform,
// the normalized calculated-taxes response returned to it, the error
// taxonomy every component converts its failures into, and the Provider
// interface each tax engine integration implements.
package taxes

import (
	"context"
	"time"
)

// MetadataItem is one key/value entry of the app installation metadata
// carried on the webhook payload. Values holding configuration are
// encrypted with the app secret.
type MetadataItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Recipient identifies the app installation the webhook was addressed to.
type Recipient struct {
	AppID           string         `json:"id"`
	PrivateMetadata []MetadataItem `json:"privateMetadata"`
}

// Channel identifies the sales channel the event originated from.
type Channel struct {
	Slug string `json:"slug"`
}

// Address is a postal address. Field names follow the platform wire format;
// providers use different names for the same semantic fields, so the
// per-provider transformers map this losslessly into their shapes.
type Address struct {
	StreetAddress1 string  `json:"streetAddress1"`
	StreetAddress2 string  `json:"streetAddress2"`
	City           string  `json:"city"`
	CountryArea    string  `json:"countryArea"`
	PostalCode     string  `json:"postalCode"`
	Country        Country `json:"country"`
}

// Country wraps the ISO 3166-1 alpha-2 country code.
type Country struct {
	Code string `json:"code"`
}

// SourceLine references the checkout/order line a tax line was built from.
// Providers echo this id back, and the response transformers re-associate
// results by it rather than by position.
type SourceLine struct {
	ID string `json:"id"`
}

// TaxLine is a single line of the tax base. TotalPrice is the quantity
// priced total; UnitPrice is per unit. TaxClassID is optional and feeds
// tax-code matching.
type TaxLine struct {
	Quantity    int        `json:"quantity"`
	UnitPrice   Money      `json:"unitPrice"`
	TotalPrice  Money      `json:"totalPrice"`
	SourceLine  SourceLine `json:"sourceLine"`
	TaxClassID  string     `json:"taxClassId,omitempty"`
	ChargeTaxes bool       `json:"chargeTaxes"`
}

// Discount is an order-level discount, distributed across lines
// proportionally to their totals before any provider request is built.
type Discount struct {
	ID     string `json:"id"`
	Amount Money  `json:"amount"`
}

// TaxBase is the immutable snapshot of a checkout/order at the moment tax
// calculation was requested. It is constructed once per webhook invocation
// and never mutated; every transform stage derives new values from it.
type TaxBase struct {
	Currency      string     `json:"currency"`
	Channel       Channel    `json:"channel"`
	Lines         []TaxLine  `json:"lines"`
	Discounts     []Discount `json:"discounts"`
	Address       *Address   `json:"address"`
	ShippingPrice Money      `json:"shippingPrice"`
}

// CalculateTaxesPayload is the body of a synchronous calculate-taxes
// webhook: the tax base plus the recipient app installation whose private
// metadata holds the encrypted provider configuration.
type CalculateTaxesPayload struct {
	TaxBase   TaxBase   `json:"taxBase"`
	Recipient Recipient `json:"recipient"`
}

// OrderLine is a confirmed order line, used by the order-created flow.
type OrderLine struct {
	Quantity     int   `json:"quantity"`
	UnitPriceNet Money `json:"unitPriceNet"`
	TotalPrice   Money `json:"totalPrice"`
}

// Order is the confirmed-order snapshot delivered with order-created.
type Order struct {
	ID             string      `json:"id"`
	Channel        Channel     `json:"channel"`
	Currency       string      `json:"currency"`
	Created        time.Time   `json:"created"`
	Lines          []OrderLine `json:"lines"`
	BillingAddress *Address    `json:"billingAddress"`
	ShippingPrice  Money       `json:"shippingPrice"`
}

// OrderCreatedPayload is the body of the order-created webhook.
type OrderCreatedPayload struct {
	Order     Order     `json:"order"`
	Recipient Recipient `json:"recipient"`
}

// FulfilledOrder is the slim order shape delivered with order-fulfilled:
// the id, the channel, and the order's own metadata, where the provider
// transaction code was stored when the order was created.
type FulfilledOrder struct {
	ID              string         `json:"id"`
	Channel         Channel        `json:"channel"`
	PrivateMetadata []MetadataItem `json:"privateMetadata"`
}

// OrderFulfilledPayload is the body of the order-fulfilled webhook.
type OrderFulfilledPayload struct {
	Order     FulfilledOrder `json:"order"`
	Recipient Recipient      `json:"recipient"`
}

// OrderFulfilled carries what the fulfillment flow needs: the platform
// order id and the provider transaction code recorded at order creation.
type OrderFulfilled struct {
	OrderID         string
	TransactionCode string
}

// CreateOrderResponse is the normalized result of confirming an order with
// a provider: the provider-side transaction/order identifier.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// Provider is the closed set of tax engine integrations. Implementations
// are constructed by the settings resolver for exactly one provider
// instance configuration; adding a provider means adding an implementation
// and a variant in the settings union, never branching in shared logic.
type Provider interface {
	// Name returns the provider discriminator ("avatax", "taxjar").
	Name() string

	// CalculateTaxes transforms the tax base into a provider transaction
	// request, issues it, and maps the result into the normalized response.
	CalculateTaxes(ctx context.Context, tb *TaxBase) (*CalculateTaxesResponse, error)

	// CreateOrder confirms an order with the provider and returns the
	// provider-side transaction id.
	CreateOrder(ctx context.Context, order *Order) (*CreateOrderResponse, error)

	// FulfillOrder finalizes a previously created transaction. Providers
	// without a commit step implement it as a no-op.
	FulfillOrder(ctx context.Context, fulfillment *OrderFulfilled) error
}
