package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/vitrina-backend/api/middleware"
	cartsvc "github.com/angelmondragon/vitrina-backend/internal/cart"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vitrina-backend/pkg/errors"
)

type stubCartService struct {
	view       *cartsvc.View
	err        error
	lastAdd    cartsvc.AddItemInput
	lastKey    string
	lastQty    *int
	lastDelta  *int
	lastMethod *enums.PaymentMethod
}

func (s *stubCartService) Get(ctx context.Context, store *stores.StoreDTO, sessionID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, store *stores.StoreDTO, sessionID string, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	s.lastAdd = input
	return s.view, s.err
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, qty int) (*cartsvc.View, error) {
	s.lastKey = key
	s.lastQty = &qty
	return s.view, s.err
}

func (s *stubCartService) AdjustQuantity(ctx context.Context, store *stores.StoreDTO, sessionID, key string, delta int) (*cartsvc.View, error) {
	s.lastKey = key
	s.lastDelta = &delta
	return s.view, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, store *stores.StoreDTO, sessionID, key string) (*cartsvc.View, error) {
	s.lastKey = key
	return s.view, s.err
}

func (s *stubCartService) Quote(ctx context.Context, store *stores.StoreDTO, sessionID string, method *enums.PaymentMethod) (*cartsvc.View, error) {
	s.lastMethod = method
	return s.view, s.err
}

func (s *stubCartService) BeginCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) CancelCheckout(ctx context.Context, store *stores.StoreDTO, sessionID string) (*cartsvc.View, error) {
	return s.view, s.err
}

func (s *stubCartService) Load(ctx context.Context, storeID uuid.UUID, sessionID string) (*cartsvc.Cart, error) {
	return nil, s.err
}

func (s *stubCartService) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	return s.err
}

type stubSelection struct{}

func (stubSelection) ParseSelection(raw string) (*enums.PaymentMethod, error) {
	if raw == "" {
		return nil, nil
	}
	method, err := enums.ParsePaymentMethod(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return &method, nil
}

func scopedRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithStore(req.Context(), &stores.StoreDTO{ID: uuid.New(), Slug: "moda"})
	ctx = middleware.WithCartSession(ctx, "sess-1")
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func newView() *cartsvc.View {
	return &cartsvc.View{SessionID: "sess-1", State: enums.CheckoutStateBuilding}
}

func TestCartFetchSuccess(t *testing.T) {
	handler := CartFetch(&stubCartService{view: newView()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodGet, "/cart", "", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "sess-1", envelope.Data.SessionID)
	assert.Equal(t, enums.CheckoutStateBuilding, envelope.Data.State)
}

func TestCartFetchRequiresSession(t *testing.T) {
	handler := CartFetch(&stubCartService{view: newView()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req = req.WithContext(middleware.WithStore(req.Context(), &stores.StoreDTO{ID: uuid.New()}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	svc := &stubCartService{view: newView()}
	handler := CartAddItem(svc, nil)
	productID := uuid.New()

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+productID.String()+`"}`, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, productID, svc.lastAdd.ProductID)
	assert.Equal(t, 1, svc.lastAdd.Quantity)
	assert.Nil(t, svc.lastAdd.VariantID)
}

func TestCartAddItemRejectsUnknownFields(t *testing.T) {
	handler := CartAddItem(&stubCartService{view: newView()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodPost, "/cart/items", `{"product_id":"`+uuid.NewString()+`","price":1}`, nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartUpdateItemQuantityAndDelta(t *testing.T) {
	svc := &stubCartService{view: newView()}
	handler := CartUpdateItem(svc, nil)
	key := uuid.NewString() + ":base"

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodPatch, "/cart/items/x", `{"quantity":4}`, map[string]string{"itemKey": key}))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.lastQty)
	assert.Equal(t, 4, *svc.lastQty)
	assert.Equal(t, key, svc.lastKey)

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodPatch, "/cart/items/x", `{"delta":-1}`, map[string]string{"itemKey": key}))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.lastDelta)
	assert.Equal(t, -1, *svc.lastDelta)
}

func TestCartUpdateItemRequiresExactlyOneField(t *testing.T) {
	handler := CartUpdateItem(&stubCartService{view: newView()}, nil)

	for _, body := range []string{`{}`, `{"quantity":1,"delta":1}`} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, scopedRequest(http.MethodPatch, "/cart/items/x", body, map[string]string{"itemKey": "k"}))
		assert.Equal(t, http.StatusBadRequest, resp.Code, body)
	}
}

func TestCartRemoveItemNotFound(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")}
	handler := CartRemoveItem(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodDelete, "/cart/items/k", "", map[string]string{"itemKey": "k"}))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "k", svc.lastKey)
}

func TestCartQuoteParsesPaymentMethod(t *testing.T) {
	svc := &stubCartService{view: newView()}
	handler := CartQuote(svc, stubSelection{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodGet, "/cart/quote?payment_method=zelle", "", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.lastMethod)
	assert.Equal(t, enums.PaymentMethodZelle, *svc.lastMethod)

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodGet, "/cart/quote?payment_method=bitcoin", "", nil))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartBeginCheckoutStateConflict(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")}
	handler := CartBeginCheckout(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, scopedRequest(http.MethodPost, "/cart/checkout/begin", "", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
