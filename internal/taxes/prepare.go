package taxes

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PreparedLine is a tax base line with its share of the order-level
// discount already computed. Both provider transformers consume this shape.
type PreparedLine struct {
	ID          string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Discount    decimal.Decimal
	TaxClassID  string
	ChargeTaxes bool
}

// TaxableAmount is the line total after its prorated discount.
func (l PreparedLine) TaxableAmount() decimal.Decimal {
	return l.TotalPrice.Sub(l.Discount)
}

// PrepareLines distributes the order-level discounts across lines
// proportionally to each line's share of the pre-discount order total:
//
//	lineDiscount = (lineTotal / sumOfLineTotals) * totalDiscount
//
// The total discount is clamped to the sum of line totals, and each line's
// share is clamped to its own total, so a taxable amount can never go
// negative. A zero sum of line totals yields zero discounts everywhere.
func PrepareLines(tb *TaxBase) []PreparedLine {
	allLinesTotal := lo.Reduce(tb.Lines, func(sum decimal.Decimal, line TaxLine, _ int) decimal.Decimal {
		return sum.Add(line.TotalPrice.Amount)
	}, decimal.Zero)
	discountsSum := lo.Reduce(tb.Discounts, func(sum decimal.Decimal, d Discount, _ int) decimal.Decimal {
		return sum.Add(d.Amount.Amount)
	}, decimal.Zero)

	totalDiscount := discountsSum
	if totalDiscount.GreaterThan(allLinesTotal) {
		totalDiscount = allLinesTotal
	}

	prepared := make([]PreparedLine, 0, len(tb.Lines))
	for _, line := range tb.Lines {
		prepared = append(prepared, PreparedLine{
			ID:          line.SourceLine.ID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.Amount,
			TotalPrice:  line.TotalPrice.Amount,
			Discount:    prorateLineDiscount(line.TotalPrice.Amount, totalDiscount, allLinesTotal),
			TaxClassID:  line.TaxClassID,
			ChargeTaxes: line.ChargeTaxes,
		})
	}
	return prepared
}

func prorateLineDiscount(lineTotal, totalDiscount, allLinesTotal decimal.Decimal) decimal.Decimal {
	if totalDiscount.IsZero() || allLinesTotal.IsZero() {
		return decimal.Zero
	}
	discount := lineTotal.Div(allLinesTotal).Mul(totalDiscount)
	if discount.GreaterThan(lineTotal) {
		return lineTotal
	}
	return discount
}

// TaxCodeMatch maps a platform tax class to a provider-specific tax code.
type TaxCodeMatch struct {
	TaxClassID string `json:"taxClassId"`
	Code       string `json:"code"`
}

// TaxCodeMatches is the configured match table of one provider instance.
type TaxCodeMatches []TaxCodeMatch

// CodeFor resolves the provider tax code for a tax class, falling back to
// the provider default when the class is unmatched or empty.
func (m TaxCodeMatches) CodeFor(taxClassID, fallback string) string {
	if taxClassID == "" {
		return fallback
	}
	match, found := lo.Find(m, func(tm TaxCodeMatch) bool {
		return tm.TaxClassID == taxClassID
	})
	if !found || match.Code == "" {
		return fallback
	}
	return match.Code
}
