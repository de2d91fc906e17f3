// Package orchestrator drives each webhook through its pipeline: contract
// and payload validation, configuration resolution, the bounded provider
// call, and response mapping. It is also the single place where error
// kinds become HTTP statuses.
package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/circuitbreaker"
	"github.com/yourorg/taxes-app/internal/reporting"
	"github.com/yourorg/taxes-app/internal/settings"
	"github.com/yourorg/taxes-app/internal/taxes"
)

// defaultProviderTimeout bounds one outbound provider call. It is shorter
// than the platform's synchronous webhook deadline so a hanging provider
// still yields a classified error response instead of a platform timeout.
const defaultProviderTimeout = 20 * time.Second

// transactionCodeMetadataKey is the order metadata key under which the
// provider transaction code is stored at order creation and read back at
// fulfillment.
const transactionCodeMetadataKey = "externalId"

// ProviderResolver resolves a channel's configured tax provider from the
// request metadata. settings.Resolver is the production implementation.
type ProviderResolver interface {
	Resolve(channelSlug string, metadata *settings.MetadataCache) (taxes.Provider, error)
}

// Orchestrator executes the webhook use cases.
type Orchestrator struct {
	resolver        ProviderResolver
	breaker         *circuitbreaker.CircuitBreaker
	recorder        *reporting.Recorder
	logger          *zap.Logger
	secret          string
	providerTimeout time.Duration
}

// New creates an orchestrator. secret is the app-wide key the installation
// metadata is encrypted with.
func New(
	resolver ProviderResolver,
	breaker *circuitbreaker.CircuitBreaker,
	recorder *reporting.Recorder,
	logger *zap.Logger,
	secret string,
) *Orchestrator {
	return &Orchestrator{
		resolver:        resolver,
		breaker:         breaker,
		recorder:        recorder,
		logger:          logger,
		secret:          secret,
		providerTimeout: defaultProviderTimeout,
	}
}

// WithProviderTimeout overrides the per-call provider deadline.
func (o *Orchestrator) WithProviderTimeout(timeout time.Duration) *Orchestrator {
	o.providerTimeout = timeout
	return o
}

// CalculateTaxes runs the calculate-taxes pipeline. A payload without a
// customer address is a valid early state and yields the deterministic
// zero-tax fallback response, not an error.
func (o *Orchestrator) CalculateTaxes(ctx context.Context, payload *taxes.CalculateTaxesPayload) (*taxes.CalculateTaxesResponse, error) {
	ctx, span := otel.Tracer("orchestrator").Start(ctx, "Orchestrator.CalculateTaxes")
	defer span.End()

	channel := payload.TaxBase.Channel.Slug
	span.SetAttributes(attribute.String("channel.slug", channel))
	webhookRequestsTotal.WithLabelValues(reporting.EventCalculateTaxes).Inc()
	start := time.Now()

	response, providerName, err := o.calculate(ctx, payload)
	o.finish(reporting.EventCalculateTaxes, channel, providerName, start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return response, nil
}

func (o *Orchestrator) calculate(ctx context.Context, payload *taxes.CalculateTaxesPayload) (*taxes.CalculateTaxesResponse, string, error) {
	tb := &payload.TaxBase

	if err := taxes.ValidatePayload(tb); err != nil {
		if errors.Is(err, taxes.ErrMissingAddress) {
			o.logger.Debug("no address yet, returning zero-tax fallback",
				zap.String("channel", tb.Channel.Slug))
			return taxes.FallbackResponse(tb), "", nil
		}
		return nil, "", err
	}

	metadata := settings.NewMetadataCache(o.secret, payload.Recipient.PrivateMetadata)
	provider, err := o.resolver.Resolve(tb.Channel.Slug, metadata)
	if err != nil {
		return nil, "", err
	}

	name := provider.Name()
	if !o.breaker.IsHealthy(name) {
		return nil, name, taxes.NewError(taxes.KindFailedCalculatingTaxes, "%s circuit is open, failing fast", name)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	response, err := provider.CalculateTaxes(callCtx, tb)
	if err != nil {
		o.breaker.RecordFailure(name)
		providerCallsTotal.WithLabelValues(name, "failure").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, name, taxes.WrapError(taxes.KindFailedCalculatingTaxes, err, "%s call exceeded %s", name, o.providerTimeout)
		}
		return nil, name, err
	}
	o.breaker.RecordSuccess(name)
	providerCallsTotal.WithLabelValues(name, "success").Inc()
	return response, name, nil
}

// CreateOrder confirms an order with the channel's provider. The returned
// id is the provider transaction code; the platform stores it on the order
// so the fulfillment flow can commit it later.
func (o *Orchestrator) CreateOrder(ctx context.Context, payload *taxes.OrderCreatedPayload) (*taxes.CreateOrderResponse, error) {
	ctx, span := otel.Tracer("orchestrator").Start(ctx, "Orchestrator.CreateOrder")
	defer span.End()

	channel := payload.Order.Channel.Slug
	span.SetAttributes(attribute.String("channel.slug", channel))
	webhookRequestsTotal.WithLabelValues(reporting.EventOrderCreated).Inc()
	start := time.Now()

	response, providerName, err := o.createOrder(ctx, payload)
	o.finish(reporting.EventOrderCreated, channel, providerName, start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return response, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, payload *taxes.OrderCreatedPayload) (*taxes.CreateOrderResponse, string, error) {
	metadata := settings.NewMetadataCache(o.secret, payload.Recipient.PrivateMetadata)
	provider, err := o.resolver.Resolve(payload.Order.Channel.Slug, metadata)
	if err != nil {
		return nil, "", err
	}

	name := provider.Name()
	if !o.breaker.IsHealthy(name) {
		return nil, name, taxes.NewError(taxes.KindFailedCalculatingTaxes, "%s circuit is open, failing fast", name)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	response, err := provider.CreateOrder(callCtx, &payload.Order)
	if err != nil {
		o.breaker.RecordFailure(name)
		providerCallsTotal.WithLabelValues(name, "failure").Inc()
		return nil, name, err
	}
	o.breaker.RecordSuccess(name)
	providerCallsTotal.WithLabelValues(name, "success").Inc()
	return response, name, nil
}

// FulfillOrder finalizes a previously confirmed order: the provider
// transaction code is read from the order's metadata and committed.
func (o *Orchestrator) FulfillOrder(ctx context.Context, payload *taxes.OrderFulfilledPayload) error {
	ctx, span := otel.Tracer("orchestrator").Start(ctx, "Orchestrator.FulfillOrder")
	defer span.End()

	channel := payload.Order.Channel.Slug
	span.SetAttributes(attribute.String("channel.slug", channel))
	webhookRequestsTotal.WithLabelValues(reporting.EventOrderFulfilled).Inc()
	start := time.Now()

	providerName, err := o.fulfillOrder(ctx, payload)
	o.finish(reporting.EventOrderFulfilled, channel, providerName, start, err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (o *Orchestrator) fulfillOrder(ctx context.Context, payload *taxes.OrderFulfilledPayload) (string, error) {
	metadata := settings.NewMetadataCache(o.secret, payload.Recipient.PrivateMetadata)
	provider, err := o.resolver.Resolve(payload.Order.Channel.Slug, metadata)
	if err != nil {
		return "", err
	}

	// The transaction code lives in plain order metadata, written by the
	// platform from the order-created response.
	code := ""
	if item, found := lo.Find(payload.Order.PrivateMetadata, func(item taxes.MetadataItem) bool {
		return item.Key == transactionCodeMetadataKey
	}); found {
		code = item.Value
	}

	name := provider.Name()
	if !o.breaker.IsHealthy(name) {
		return name, taxes.NewError(taxes.KindFailedCalculatingTaxes, "%s circuit is open, failing fast", name)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.providerTimeout)
	defer cancel()

	err = provider.FulfillOrder(callCtx, &taxes.OrderFulfilled{
		OrderID:         payload.Order.ID,
		TransactionCode: code,
	})
	if err != nil {
		o.breaker.RecordFailure(name)
		providerCallsTotal.WithLabelValues(name, "failure").Inc()
		return name, err
	}
	o.breaker.RecordSuccess(name)
	providerCallsTotal.WithLabelValues(name, "success").Inc()
	return name, nil
}

// finish records the outcome of one webhook in the metrics, the log, and
// the retrospective recorder.
func (o *Orchestrator) finish(event, channel, providerName string, start time.Time, err error) {
	latency := time.Since(start)
	webhookDurationSeconds.WithLabelValues(event).Observe(latency.Seconds())

	entry := reporting.LogEntry{
		Timestamp: start,
		Event:     event,
		Channel:   channel,
		Provider:  providerName,
		Succeeded: err == nil,
		Latency:   latency,
	}
	if err != nil {
		kind := taxes.KindOf(err)
		entry.ErrorKind = string(kind)
		webhookErrorsTotal.WithLabelValues(event, string(kind)).Inc()
		o.logger.Warn("webhook failed",
			zap.String("event", event),
			zap.String("channel", channel),
			zap.String("provider", providerName),
			zap.String("kind", string(kind)),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	} else {
		o.logger.Info("webhook processed",
			zap.String("event", event),
			zap.String("channel", channel),
			zap.String("provider", providerName),
			zap.Duration("latency", latency),
		)
	}
	o.recorder.Record(entry)
}

// HTTPStatus maps an error to the webhook response status. Configuration
// and validation failures are the caller's to fix (400); provider failures
// and anything unclassified are server-side (500).
func HTTPStatus(err error) int {
	switch taxes.KindOf(err) {
	case taxes.KindIncompletePayload,
		taxes.KindMissingChannelSlug,
		taxes.KindMissingMetadata,
		taxes.KindWrongChannel,
		taxes.KindProviderNotAssigned,
		taxes.KindConfigBroken:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
