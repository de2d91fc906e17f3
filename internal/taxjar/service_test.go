package taxjar_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/taxes"
	"github.com/yourorg/taxes-app/internal/taxjar"
	"github.com/yourorg/taxes-app/internal/taxjar/mocks"
)

func serviceConfig() taxjar.Config {
	return taxjar.Config{
		Name:        "taxjar-1",
		Credentials: taxjar.Credentials{APIKey: "taxjar-api-key"},
		Address:     taxjar.Address{Street: "123 Main St", City: "New York", State: "NY", Zip: "10001", Country: "US"},
	}
}

func serviceTaxBase() *taxes.TaxBase {
	return &taxes.TaxBase{
		Currency: "USD",
		Channel:  taxes.Channel{Slug: "default-channel"},
		Lines: []taxes.TaxLine{{
			Quantity:    1,
			UnitPrice:   taxes.Money{Amount: decimal.RequireFromString("100")},
			TotalPrice:  taxes.Money{Amount: decimal.RequireFromString("100")},
			SourceLine:  taxes.SourceLine{ID: "line-1"},
			ChargeTaxes: true,
		}},
		Address:       &taxes.Address{PostalCode: "48075", Country: taxes.Country{Code: "US"}},
		ShippingPrice: taxes.Money{Amount: decimal.RequireFromString("10")},
	}
}

func TestService_CalculateTaxes(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)

	api.EXPECT().
		TaxForOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args *taxjar.FetchTaxForOrderArgs) (*taxjar.TaxForOrderRes, error) {
			require.Len(t, args.Params.LineItems, 1)
			require.Equal(t, "48075", args.Params.ToZip)
			return &taxjar.TaxForOrderRes{Tax: taxjar.Tax{Breakdown: &taxjar.TaxBreakdown{
				LineItems: []taxjar.TaxBreakdownLineItem{{
					ID:              "line-1",
					TaxableAmount:   decimal.RequireFromString("100"),
					TaxCollectable:  decimal.RequireFromString("8.25"),
					CombinedTaxRate: decimal.RequireFromString("0.0825"),
				}},
			}}}, nil
		})

	svc := taxjar.NewService(serviceConfig(), api, nil, zap.NewNop())
	resp, err := svc.CalculateTaxes(context.Background(), serviceTaxBase())
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "108.25", resp.Lines[0].TotalGrossAmount.String())
	assert.Equal(t, "0.0825", resp.Lines[0].TaxRate.String())
}

func TestService_CalculateTaxes_ClientFailureClassified(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)

	apiErr := &taxjar.APIError{StatusCode: 401, ErrorType: "Unauthorized", Detail: "Not authorized for route"}
	api.EXPECT().TaxForOrder(gomock.Any(), gomock.Any()).Return(nil, apiErr)

	svc := taxjar.NewService(serviceConfig(), api, nil, zap.NewNop())
	_, err := svc.CalculateTaxes(context.Background(), serviceTaxBase())
	require.Error(t, err)
	assert.Equal(t, taxes.KindFailedCalculatingTaxes, taxes.KindOf(err), "provider errors must be classified, not leaked")

	var underlying *taxjar.APIError
	assert.True(t, errors.As(err, &underlying), "the provider error stays reachable for diagnostics")
}

func TestService_CreateOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)

	api.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args *taxjar.CreateOrderArgs) (*taxjar.OrderRes, error) {
			require.Equal(t, "order-1", args.Params.TransactionID)
			var res taxjar.OrderRes
			res.Order.TransactionID = args.Params.TransactionID
			return &res, nil
		})

	svc := taxjar.NewService(serviceConfig(), api, nil, zap.NewNop())
	resp, err := svc.CreateOrder(context.Background(), &taxes.Order{ID: "order-1", Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", resp.ID)
}

func TestService_FulfillOrder_NoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockAPI(ctrl)
	// No expectations: fulfillment must not touch the API.

	svc := taxjar.NewService(serviceConfig(), api, nil, zap.NewNop())
	err := svc.FulfillOrder(context.Background(), &taxes.OrderFulfilled{OrderID: "order-1"})
	assert.NoError(t, err)
}
