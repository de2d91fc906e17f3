package taxjar

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// ProviderName is the discriminator value of this integration.
const ProviderName = "taxjar"

// Service implements taxes.Provider for one TaxJar provider instance.
type Service struct {
	cfg     Config
	api     API
	matches taxes.TaxCodeMatches
	logger  *zap.Logger
}

// NewService binds a configuration, an API implementation, and the tax-code
// match table into a provider service.
func NewService(cfg Config, api API, matches taxes.TaxCodeMatches, logger *zap.Logger) *Service {
	return &Service{
		cfg:     cfg,
		api:     api,
		matches: matches,
		logger:  logger.With(zap.String("provider", ProviderName)),
	}
}

// Name implements taxes.Provider.
func (s *Service) Name() string { return ProviderName }

// CalculateTaxes implements taxes.Provider.
func (s *Service) CalculateTaxes(ctx context.Context, tb *taxes.TaxBase) (*taxes.CalculateTaxesResponse, error) {
	args := NewCalculateTaxesTransformer(s.cfg, s.matches).Transform(tb)
	s.logger.Debug("calling taxForOrder",
		zap.Int("line_items", len(args.Params.LineItems)),
		zap.String("to_country", args.Params.ToCountry),
	)

	res, err := s.api.TaxForOrder(ctx, args)
	if err != nil {
		return nil, taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "taxjar taxForOrder")
	}

	return NewResponseTransformer().Transform(taxes.PrepareLines(tb), tb.ShippingPrice.Amount, res), nil
}

// CreateOrder implements taxes.Provider: it records the confirmed order as
// a TaxJar order transaction.
func (s *Service) CreateOrder(ctx context.Context, order *taxes.Order) (*taxes.CreateOrderResponse, error) {
	args := NewOrderCreatedTransformer(s.cfg).Transform(order)
	s.logger.Debug("creating order transaction", zap.String("order_id", order.ID))

	res, err := s.api.CreateOrder(ctx, args)
	if err != nil {
		return nil, taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "taxjar createOrder for order %s", order.ID)
	}
	return &taxes.CreateOrderResponse{ID: res.Order.TransactionID}, nil
}

// FulfillOrder implements taxes.Provider. TaxJar requires no action on
// fulfillment; the order transaction recorded at creation is final.
func (s *Service) FulfillOrder(ctx context.Context, fulfillment *taxes.OrderFulfilled) error {
	s.logger.Debug("fulfillOrder is a no-op for taxjar", zap.String("order_id", fulfillment.OrderID))
	return nil
}
