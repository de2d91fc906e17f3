package taxes

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(amount string) Money {
	return Money{Amount: decimal.RequireFromString(amount)}
}

func validTaxBase() *TaxBase {
	return &TaxBase{
		Currency: "USD",
		Channel:  Channel{Slug: "default-channel"},
		Lines: []TaxLine{
			{
				Quantity:    2,
				UnitPrice:   money("50"),
				TotalPrice:  money("100"),
				SourceLine:  SourceLine{ID: "line-1"},
				ChargeTaxes: true,
			},
		},
		Address: &Address{
			StreetAddress1: "123 Main St",
			City:           "New York",
			CountryArea:    "NY",
			PostalCode:     "10001",
			Country:        Country{Code: "US"},
		},
		ShippingPrice: money("10"),
	}
}

func TestValidatePayload_Valid(t *testing.T) {
	require.NoError(t, ValidatePayload(validTaxBase()))
}

func TestValidatePayload_MissingLines(t *testing.T) {
	tb := validTaxBase()
	tb.Lines = nil

	err := ValidatePayload(tb)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingLines), "empty lines should yield the missing-lines sentinel")
	assert.Equal(t, KindIncompletePayload, KindOf(err))
}

func TestValidatePayload_MissingAddress(t *testing.T) {
	tb := validTaxBase()
	tb.Address = nil

	err := ValidatePayload(tb)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAddress), "nil address should yield the missing-address sentinel")
	assert.False(t, errors.Is(err, ErrMissingLines), "sentinels must stay distinguishable")
}

func TestValidatePayload_MissingLinesTakesPrecedence(t *testing.T) {
	tb := validTaxBase()
	tb.Lines = nil
	tb.Address = nil

	// With nothing to tax there is nothing to fall back to either.
	assert.True(t, errors.Is(ValidatePayload(tb), ErrMissingLines))
}
