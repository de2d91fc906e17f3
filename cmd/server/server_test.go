package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourorg/taxes-app/internal/settings"
	"github.com/yourorg/taxes-app/internal/taxes"
)

const testSecret = "test-secret"

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := setupRouter(testSecret, zap.NewNop())
	require.NoError(t, err)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sealedMetadataJSON(t *testing.T) string {
	t.Helper()
	providers, err := settings.EncryptValue(testSecret,
		`[{"id": "pi-1", "provider": "taxjar", "config": {"credentials": {"apiKey": "k"}}}]`)
	require.NoError(t, err)
	channels, err := settings.EncryptValue(testSecret,
		`[{"id": "ch-1", "config": {"providerInstanceId": "pi-1", "slug": "default-channel"}}]`)
	require.NoError(t, err)

	items := []taxes.MetadataItem{
		{Key: "providers", Value: providers},
		{Key: "channels", Value: channels},
	}
	encoded, err := json.Marshal(items)
	require.NoError(t, err)
	return string(encoded)
}

func TestCalculateTaxes_NoAddressReturnsFallback(t *testing.T) {
	router := setupTestRouter(t)

	body := fmt.Sprintf(`{
		"taxBase": {
			"currency": "USD",
			"channel": {"slug": "default-channel"},
			"lines": [
				{"quantity": 2, "unitPrice": {"amount": 50}, "totalPrice": {"amount": 100}, "sourceLine": {"id": "line-1"}, "chargeTaxes": true}
			],
			"discounts": [{"id": "d-1", "amount": {"amount": 10}}],
			"shippingPrice": {"amount": 5}
		},
		"recipient": {"privateMetadata": %s}
	}`, sealedMetadataJSON(t))

	w := postJSON(t, router, "/webhooks/checkout-calculate-taxes", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// No address yet: deterministic zero-tax totals with the discount applied.
	assert.JSONEq(t, `{
		"shipping_price_gross_amount": 5,
		"shipping_price_net_amount": 5,
		"shipping_tax_rate": 0,
		"lines": [
			{"total_gross_amount": 90, "total_net_amount": 90, "tax_rate": 0}
		]
	}`, w.Body.String())
}

func TestCalculateTaxes_ContractViolation(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/webhooks/checkout-calculate-taxes",
		`{"taxBase": {"channel": {}, "lines": []}, "recipient": {"privateMetadata": []}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "slug")
}

func TestCalculateTaxes_MissingLines(t *testing.T) {
	router := setupTestRouter(t)

	body := fmt.Sprintf(`{
		"taxBase": {
			"currency": "USD",
			"channel": {"slug": "default-channel"},
			"lines": [],
			"address": {"city": "Southfield", "country": {"code": "US"}}
		},
		"recipient": {"privateMetadata": %s}
	}`, sealedMetadataJSON(t))

	w := postJSON(t, router, "/webhooks/checkout-calculate-taxes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "IncompletePayload")
}

func TestCalculateTaxes_UnservedChannel(t *testing.T) {
	router := setupTestRouter(t)

	body := fmt.Sprintf(`{
		"taxBase": {
			"currency": "USD",
			"channel": {"slug": "channel-nobody-serves"},
			"lines": [
				{"quantity": 1, "unitPrice": {"amount": 10}, "totalPrice": {"amount": 10}, "sourceLine": {"id": "line-1"}, "chargeTaxes": true}
			],
			"address": {"city": "Southfield", "country": {"code": "US"}}
		},
		"recipient": {"privateMetadata": %s}
	}`, sealedMetadataJSON(t))

	w := postJSON(t, router, "/webhooks/order-calculate-taxes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "WrongChannel")
}

func TestCalculateTaxes_UnconfiguredInstallation(t *testing.T) {
	router := setupTestRouter(t)

	body := `{
		"taxBase": {
			"currency": "USD",
			"channel": {"slug": "default-channel"},
			"lines": [
				{"quantity": 1, "unitPrice": {"amount": 10}, "totalPrice": {"amount": 10}, "sourceLine": {"id": "line-1"}, "chargeTaxes": true}
			],
			"address": {"city": "Southfield", "country": {"code": "US"}}
		},
		"recipient": {"privateMetadata": []}
	}`

	w := postJSON(t, router, "/webhooks/checkout-calculate-taxes", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MissingMetadata")
}

func TestOrderCreated_ResolutionFailureMapped(t *testing.T) {
	router := setupTestRouter(t)

	w := postJSON(t, router, "/webhooks/order-created", `{
		"order": {"id": "order-1", "channel": {"slug": "default-channel"}, "currency": "USD"},
		"recipient": {"privateMetadata": []}
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MissingMetadata")
}

func TestHealthz(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRetrospectiveEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	// Drive one webhook through first so the report is not empty.
	body := fmt.Sprintf(`{
		"taxBase": {"currency": "USD", "channel": {"slug": "default-channel"}, "lines": [
			{"quantity": 1, "unitPrice": {"amount": 10}, "totalPrice": {"amount": 10}, "sourceLine": {"id": "line-1"}, "chargeTaxes": true}
		]},
		"recipient": {"privateMetadata": %s}
	}`, sealedMetadataJSON(t))
	postJSON(t, router, "/webhooks/checkout-calculate-taxes", body)

	req, _ := http.NewRequest(http.MethodGet, "/reports/retrospective", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		TotalRequests  int            `json:"totalRequests"`
		EventBreakdown map[string]int `json:"eventBreakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.TotalRequests)
	assert.Equal(t, 1, report.EventBreakdown["calculate-taxes"])
}
