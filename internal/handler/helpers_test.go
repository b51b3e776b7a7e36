package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KayzenRoot/lanchonete-pdv-sub002/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) (code string, fields map[string]string) {
	t.Helper()
	var body struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code, body.Fields
}

// Tag-level failures (quantity below 1, unknown payment enum) are validation
// errors and must come back as 400, matching the service-path validations.
func TestBindAndValidate_TagFailuresAre400(t *testing.T) {
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":0}],"payment_method":"BITCOIN"}`
	c, w := testContext(t, http.MethodPost, "/v1/orders", body)

	var req dto.CreateOrderRequest
	ok := bindAndValidate(c, &req)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, fields := decodeError(t, w)
	assert.Equal(t, "validation_error", code)
	assert.Equal(t, "min", fields["Quantity"])
	assert.Equal(t, "oneof", fields["PaymentMethod"])
}

func TestBindAndValidate_MissingRequiredFieldsAre400(t *testing.T) {
	c, w := testContext(t, http.MethodPost, "/v1/orders", `{}`)

	var req dto.CreateOrderRequest
	ok := bindAndValidate(c, &req)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, fields := decodeError(t, w)
	assert.Equal(t, "required", fields["Items"])
	assert.Equal(t, "required", fields["PaymentMethod"])
}

func TestBindAndValidate_MalformedJSONIs400(t *testing.T) {
	c, w := testContext(t, http.MethodPost, "/v1/orders", `{"items":`)

	var req dto.CreateOrderRequest
	ok := bindAndValidate(c, &req)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Query-parameter validation on the stats handlers short-circuits before the
// service, with the same 400 contract.
func TestStatsHandlers_InvalidQueryParamsAre400(t *testing.T) {
	h := NewStatisticsHandler(nil)

	c, w := testContext(t, http.MethodGet, "/v1/orders/stats/products?limit=0", "")
	h.TopProducts(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = testContext(t, http.MethodGet, "/v1/statistics/dashboard?days=0", "")
	h.Dashboard(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
