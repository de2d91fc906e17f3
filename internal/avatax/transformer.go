package avatax

import (
	"time"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// ShippingItemCode marks the synthetic shipping line in a transaction and
// is the line number results are re-associated by on the way back.
const ShippingItemCode = "Shipping"

// CalculateTaxesTransformer maps a tax base into an AvaTax transaction
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

// Transform builds the transaction request: prorated discounts are already
// subtracted from each line's amount, tax codes come from the match table
// with the provider default as fallback, and a shipping line is appended
// only when the shipping price is non-zero. Calculation uses a SalesOrder
// document, which AvaTax never persists.
func (t *CalculateTaxesTransformer) Transform(tb *taxes.TaxBase) *CreateTransactionArgs {
	prepared := taxes.PrepareLines(tb)

	lines := make([]LineItemModel, 0, len(prepared)+1)
	for _, line := range prepared {
		if !line.ChargeTaxes {
			// Untaxed lines stay out of the request; the response
			// transformer fills them in at their discounted totals.
			continue
		}
		lines = append(lines, LineItemModel{
			Number:   line.ID,
			Quantity: line.Quantity,
			Amount:   line.TaxableAmount(),
			TaxCode:  t.matches.CodeFor(line.TaxClassID, DefaultTaxCode),
		})
	}
	if !tb.ShippingPrice.Amount.IsZero() {
		lines = append(lines, LineItemModel{
			Number:   ShippingItemCode,
			ItemCode: ShippingItemCode,
			Quantity: 1,
			Amount:   tb.ShippingPrice.Amount,
			TaxCode:  t.cfg.ShippingCode(),
		})
	}

	return &CreateTransactionArgs{
		Model: CreateTransactionModel{
			Type:         DocumentTypeSalesOrder,
			CompanyCode:  t.cfg.CompanyCode,
			CustomerCode: "0",
			Commit:       false,
			CurrencyCode: tb.Currency,
			Date:         time.Now().UTC(),
			Lines:        lines,
			Addresses: AddressesModel{
				ShipFrom: originAddress(t.cfg.Address),
				ShipTo:   destinationAddress(tb.Address),
			},
		},
	}
}

// OrderCreatedTransformer maps a confirmed order into a permanent AvaTax
// transaction.
type OrderCreatedTransformer struct {
	cfg Config
}

// NewOrderCreatedTransformer binds the transformer to a configuration.
func NewOrderCreatedTransformer(cfg Config) *OrderCreatedTransformer {
	return &OrderCreatedTransformer{cfg: cfg}
}

// Transform builds a SalesInvoice for the order. The commit flag follows
// the instance's autocommit setting; when off, the transaction stays
// uncommitted until the order-fulfilled event commits it.
func (t *OrderCreatedTransformer) Transform(order *taxes.Order) *CreateTransactionArgs {
	lines := make([]LineItemModel, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, LineItemModel{
			ItemCode: "Product",
			Quantity: line.Quantity,
			Amount:   line.TotalPrice.Amount,
		})
	}

	date := order.Created
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &CreateTransactionArgs{
		Model: CreateTransactionModel{
			Type:         DocumentTypeSalesInvoice,
			CompanyCode:  t.cfg.CompanyCode,
			CustomerCode: "0",
			Commit:       t.cfg.IsAutocommit,
			CurrencyCode: order.Currency,
			Date:         date,
			Lines:        lines,
			Addresses: AddressesModel{
				ShipFrom: originAddress(t.cfg.Address),
				ShipTo:   destinationAddress(order.BillingAddress),
			},
		},
	}
}

func originAddress(addr Address) *AddressInfo {
	return &AddressInfo{
		Line1:      addr.Street,
		City:       addr.City,
		Region:     addr.State,
		PostalCode: addr.Zip,
		Country:    addr.Country,
	}
}

func destinationAddress(addr *taxes.Address) *AddressInfo {
	if addr == nil {
		return nil
	}
	return &AddressInfo{
		Line1:      addr.StreetAddress1,
		Line2:      addr.StreetAddress2,
		City:       addr.City,
		Region:     addr.CountryArea,
		PostalCode: addr.PostalCode,
		Country:    addr.Country.Code,
	}
}
