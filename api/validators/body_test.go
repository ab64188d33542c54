package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
)

type samplePayload struct {
	Quantity int    `json:"quantity" validate:"min=1"`
	Mode     string `json:"mode" validate:"required,oneof=usd eur"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":0,"mode":"gbp"}`))
	var payload samplePayload

	err := DecodeJSONBody(httptest.NewRecorder(), r, &payload)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details := typed.Details().(map[string]string)
	assert.Equal(t, "must be at least 1", details["quantity"])
	assert.Equal(t, "must be one of: usd eur", details["mode"])
}

type statusPayload struct {
	Status string `json:"status" validate:"required,order_status"`
	Mode   string `json:"mode" validate:"omitempty,currency_mode"`
}

func TestDecodeJSONBodyEnumTags(t *testing.T) {
	var ok statusPayload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"PAID","mode":"eur"}`))
	require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), r, &ok))

	var bad statusPayload
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"refunded","mode":"gbp"}`))
	err := DecodeJSONBody(httptest.NewRecorder(), r, &bad)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details := typed.Details().(map[string]string)
	assert.Contains(t, details["status"], "pending")
	assert.Equal(t, "must be one of: usd, eur", details["mode"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":1,"mode":"usd","extra":true}`))
	var payload samplePayload

	err := DecodeJSONBody(httptest.NewRecorder(), r, &payload)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err := ParseQueryInt(r, "limit", 25, 1, 100)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	v, err := ParseQueryInt(r, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, v)
}

func TestParseUUIDParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders/nope", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderID", "nope")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	_, err := ParseUUIDParam(r, "orderID")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
