package taxjar

import (
	"github.com/yourorg/taxes-app/internal/taxes"
)

// CalculateTaxesTransformer maps a tax base into a TaxJar tax-for-order
// request. Pure mapping: no network call happens here.
type CalculateTaxesTransformer struct {
	cfg     Config
	matches taxes.TaxCodeMatches
}

// NewCalculateTaxesTransformer binds the transformer to one provider
// instance configuration and its tax-code match table.
func NewCalculateTaxesTransformer(cfg Config, matches taxes.TaxCodeMatches) *CalculateTaxesTransformer {
	return &CalculateTaxesTransformer{cfg: cfg, matches: matches}
}

// Transform builds the request: lines carry their prorated discount as
// TaxJar's per-line discount field, tax codes come from the match table
// (absent means TaxJar's default treatment), shipping travels in the
// dedicated shipping parameter rather than as a line.
func (t *CalculateTaxesTransformer) Transform(tb *taxes.TaxBase) *FetchTaxForOrderArgs {
	prepared := taxes.PrepareLines(tb)

	lineItems := make([]TaxLineItem, 0, len(prepared))
	for _, line := range prepared {
		if !line.ChargeTaxes {
			continue
		}
		lineItems = append(lineItems, TaxLineItem{
			ID:             line.ID,
			Quantity:       line.Quantity,
			ProductTaxCode: t.matches.CodeFor(line.TaxClassID, ""),
			UnitPrice:      line.UnitPrice,
			Discount:       line.Discount,
		})
	}

	params := TaxParams{
		FromStreet:  t.cfg.Address.Street,
		FromCity:    t.cfg.Address.City,
		FromState:   t.cfg.Address.State,
		FromZip:     t.cfg.Address.Zip,
		FromCountry: t.cfg.Address.Country,
		Shipping:    tb.ShippingPrice.Amount,
		LineItems:   lineItems,
	}
	if tb.Address != nil {
		params.ToStreet = tb.Address.StreetAddress1
		params.ToCity = tb.Address.City
		params.ToState = tb.Address.CountryArea
		params.ToZip = tb.Address.PostalCode
		params.ToCountry = tb.Address.Country.Code
	}

	return &FetchTaxForOrderArgs{Params: params}
}

// OrderCreatedTransformer maps a confirmed order into a TaxJar order
// transaction.
type OrderCreatedTransformer struct {
	cfg Config
}

// NewOrderCreatedTransformer binds the transformer to a configuration.
func NewOrderCreatedTransformer(cfg Config) *OrderCreatedTransformer {
	return &OrderCreatedTransformer{cfg: cfg}
}

// Transform builds the create-order transaction request. TaxJar computes
// nothing here; the amounts are recorded as settled.
func (t *OrderCreatedTransformer) Transform(order *taxes.Order) *CreateOrderArgs {
	params := OrderParams{
		TransactionID:   order.ID,
		TransactionDate: order.Created.Format("2006-01-02T15:04:05Z"),
		Shipping:        order.ShippingPrice.Amount,
	}
	for _, line := range order.Lines {
		params.Amount = params.Amount.Add(line.TotalPrice.Amount)
	}
	if order.BillingAddress != nil {
		params.ToStreet = order.BillingAddress.StreetAddress1
		params.ToCity = order.BillingAddress.City
		params.ToState = order.BillingAddress.CountryArea
		params.ToZip = order.BillingAddress.PostalCode
		params.ToCountry = order.BillingAddress.Country.Code
	}
	return &CreateOrderArgs{Params: params}
}
