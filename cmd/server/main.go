// The taxes-app server receives synchronous tax webhooks from the
// e-commerce platform, calculates taxes through the channel's configured
// provider, and serves operational endpoints (health, metrics, reports).
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/circuitbreaker"
	"github.com/yourorg/taxes-app/internal/logger"
	"github.com/yourorg/taxes-app/internal/monitor"
	"github.com/yourorg/taxes-app/internal/orchestrator"
	"github.com/yourorg/taxes-app/internal/reporting"
	"github.com/yourorg/taxes-app/internal/settings"
	"github.com/yourorg/taxes-app/internal/taxes"
)

const serviceName = "taxes-app"

type server struct {
	orch     *orchestrator.Orchestrator
	monitor  *monitor.ContractMonitor
	recorder *reporting.Recorder
	logger   *zap.Logger
}

// calculateTaxes handles both checkout-calculate-taxes and
// order-calculate-taxes: the payload shape and the pipeline are identical.
func (s *server) calculateTaxes(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading request body: " + err.Error()})
		return
	}

	valid, violations, err := s.monitor.Validate(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": monitor.FormatErrors(violations)})
		return
	}

	var payload taxes.CalculateTaxesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decoding payload: " + err.Error()})
		return
	}

	response, err := s.orch.CalculateTaxes(c.Request.Context(), &payload)
	if err != nil {
		c.JSON(orchestrator.HTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *server) orderCreated(c *gin.Context) {
	var payload taxes.OrderCreatedPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decoding payload: " + err.Error()})
		return
	}

	response, err := s.orch.CreateOrder(c.Request.Context(), &payload)
	if err != nil {
		c.JSON(orchestrator.HTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *server) orderFulfilled(c *gin.Context) {
	var payload taxes.OrderFulfilledPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decoding payload: " + err.Error()})
		return
	}

	if err := s.orch.FulfillOrder(c.Request.Context(), &payload); err != nil {
		c.JSON(orchestrator.HTTPStatus(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) retrospective(c *gin.Context) {
	c.JSON(http.StatusOK, reporting.GenerateRetrospective(s.recorder.Entries()))
}

func errorBody(err error) gin.H {
	return gin.H{"error": gin.H{
		"kind":    string(taxes.KindOf(err)),
		"message": err.Error(),
	}}
}

// requestID tags every request so webhook logs can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func setupRouter(secret string, log *zap.Logger) (*gin.Engine, error) {
	contractMonitor, err := monitor.NewCalculateTaxesMonitor()
	if err != nil {
		return nil, err
	}

	recorder := reporting.NewRecorder()
	resolver := settings.NewResolver(nil, log)
	orch := orchestrator.New(resolver, circuitbreaker.New(), recorder, log, secret)

	s := &server{
		orch:     orch,
		monitor:  contractMonitor,
		recorder: recorder,
		logger:   log,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(otelgin.Middleware(serviceName))

	engine.POST("/webhooks/checkout-calculate-taxes", s.calculateTaxes)
	engine.POST("/webhooks/order-calculate-taxes", s.calculateTaxes)
	engine.POST("/webhooks/order-created", s.orderCreated)
	engine.POST("/webhooks/order-fulfilled", s.orderFulfilled)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/reports/retrospective", s.retrospective)

	return engine, nil
}

func initTracer() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp, nil
}

func main() {
	env := os.Getenv("APP_ENV")
	log, err := logger.New(env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("initializing logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		log.Fatal("SECRET_KEY is required to decrypt installation metadata")
	}

	tp, err := initTracer()
	if err != nil {
		log.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("shutting down tracer", zap.Error(err))
		}
	}()

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := setupRouter(secret, log)
	if err != nil {
		log.Fatal("setting up router", zap.Error(err))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("starting server", zap.String("port", port), zap.String("env", env))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
