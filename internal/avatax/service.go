package avatax

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/taxes"
)

// ProviderName is the discriminator value of this integration.
const ProviderName = "avatax"

// Service implements taxes.Provider for one AvaTax provider instance. Every
// failure leaving this package is classified into the error taxonomy.
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
	s.logger.Debug("calling createTransaction",
		zap.Int("lines", len(args.Model.Lines)),
		zap.String("currency", args.Model.CurrencyCode),
	)

	transaction, err := s.api.CreateTransaction(ctx, args)
	if err != nil {
		return nil, taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "avatax createTransaction")
	}

	return NewResponseTransformer().Transform(taxes.PrepareLines(tb), tb.ShippingPrice.Amount, transaction), nil
}

// CreateOrder implements taxes.Provider: it records the confirmed order as
// a SalesInvoice, committed immediately when autocommit is on.
func (s *Service) CreateOrder(ctx context.Context, order *taxes.Order) (*taxes.CreateOrderResponse, error) {
	args := NewOrderCreatedTransformer(s.cfg).Transform(order)
	s.logger.Debug("creating order transaction",
		zap.String("order_id", order.ID),
		zap.Bool("commit", args.Model.Commit),
	)

	transaction, err := s.api.CreateTransaction(ctx, args)
	if err != nil {
		return nil, taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "avatax createTransaction for order %s", order.ID)
	}
	if transaction.Code == "" {
		return nil, taxes.NewError(taxes.KindUnhandled, "avatax returned a transaction without a code for order %s", order.ID)
	}
	return &taxes.CreateOrderResponse{ID: transaction.Code}, nil
}

// FulfillOrder implements taxes.Provider: it commits the transaction
// recorded at order creation. A no-op under autocommit would also succeed
// server-side, so no flag check happens here.
func (s *Service) FulfillOrder(ctx context.Context, fulfillment *taxes.OrderFulfilled) error {
	if fulfillment.TransactionCode == "" {
		return taxes.NewError(taxes.KindUnhandled, "no transaction code recorded for order %s", fulfillment.OrderID)
	}
	s.logger.Debug("committing transaction", zap.String("transaction_code", fulfillment.TransactionCode))

	if _, err := s.api.CommitTransaction(ctx, s.cfg.CompanyCode, fulfillment.TransactionCode); err != nil {
		return taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "avatax commitTransaction %s", fulfillment.TransactionCode)
	}
	return nil
}
