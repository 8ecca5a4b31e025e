package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/domain"
)

const testTimeout = 5 * time.Second

// newRequest builds a request carrying the admin session and any chi URL
// params, the way the router would hand it to the handler.
func newRequest(method, target, body, sessionID string, params map[string]string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var dto CartResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	return dto
}

type fakeCartService struct {
	carts   map[string]*domain.Cart
	err     error
	cleared []string
}

func newFakeCartService() *fakeCartService {
	return &fakeCartService{carts: make(map[string]*domain.Cart)}
}

func (f *fakeCartService) cart(sessionID string) *domain.Cart {
	if c, ok := f.carts[sessionID]; ok {
		return c
	}
	c := &domain.Cart{SessionID: sessionID}
	f.carts[sessionID] = c
	return c
}

func (f *fakeCartService) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cart(sessionID), nil
}

func (f *fakeCartService) AddLine(_ context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart(sessionID)
	c.AddLine(line)
	return c, nil
}

func (f *fakeCartService) SetQuantity(_ context.Context, sessionID, variantID, raw string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart(sessionID)
	c.SetQuantity(variantID, raw)
	return c, nil
}

func (f *fakeCartService) RemoveLine(_ context.Context, sessionID, variantID string) (*domain.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart(sessionID)
	c.RemoveLine(variantID)
	return c, nil
}

func (f *fakeCartService) Clear(_ context.Context, sessionID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.carts, sessionID)
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeCatalog struct {
	product *domain.Product
	err     error
}

func (f *fakeCatalog) Product(context.Context, string) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func catalogProduct() *domain.Product {
	return &domain.Product{
		ID:     "gid://shopify/Product/1",
		Title:  "Blue Shirt",
		Handle: "blue-shirt",
		Variants: []domain.Variant{{
			ID:    "gid://shopify/ProductVariant/11",
			Title: "Small",
			Price: decimal.RequireFromString("100.00"),
		}},
		FeaturedImage: &domain.Image{URL: "https://cdn/shirt.png"},
	}
}

func TestGetCart_MissingSession(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{}, testTimeout, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetCart(rec, newRequest(http.MethodGet, "/api/v1/cart", "", "", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCart_EmptyCartTotals(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{}, testTimeout, zap.NewNop())

	rec := httptest.NewRecorder()
	h.GetCart(rec, newRequest(http.MethodGet, "/api/v1/cart", "", "sess-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeCart(t, rec)
	assert.Empty(t, dto.Lines)
	assert.Equal(t, "0.00", dto.Subtotal)
	assert.Equal(t, "0.00", dto.Tax)
	assert.Equal(t, "0.00", dto.Total)
}

func TestAddItem_Success(t *testing.T) {
	carts := newFakeCartService()
	h := NewCartHandler(carts, &fakeCatalog{product: catalogProduct()}, testTimeout, zap.NewNop())

	body := `{"product_id": "1", "variant_id": "gid://shopify/ProductVariant/11"}`
	rec := httptest.NewRecorder()
	h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1", nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	dto := decodeCart(t, rec)
	require.Len(t, dto.Lines, 1)
	line := dto.Lines[0]
	assert.Equal(t, "Blue Shirt", line.ProductTitle)
	assert.Equal(t, "Small", line.VariantTitle)
	assert.Equal(t, "100.00", line.UnitPrice)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, "https://cdn/shirt.png", line.ImageURL)
	assert.Equal(t, "100.00", dto.Subtotal)
	assert.Equal(t, "18.00", dto.Tax)
	assert.Equal(t, "118.00", dto.Total)
}

func TestAddItem_RepeatIncrementsQuantity(t *testing.T) {
	carts := newFakeCartService()
	h := NewCartHandler(carts, &fakeCatalog{product: catalogProduct()}, testTimeout, zap.NewNop())

	body := `{"product_id": "1", "variant_id": "gid://shopify/ProductVariant/11"}`
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1", nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	cart := carts.cart("sess-1")
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestAddItem_MissingFields(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{}, testTimeout, zap.NewNop())

	rec := httptest.NewRecorder()
	h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id": "1"}`, "sess-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{err: commerce.ErrNotFound}, testTimeout, zap.NewNop())

	body := `{"product_id": "1", "variant_id": "V1"}`
	rec := httptest.NewRecorder()
	h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_VariantNotFound(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{product: catalogProduct()}, testTimeout, zap.NewNop())

	body := `{"product_id": "1", "variant_id": "no-such-variant"}`
	rec := httptest.NewRecorder()
	h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_CommerceUnavailable(t *testing.T) {
	h := NewCartHandler(newFakeCartService(), &fakeCatalog{err: errors.New("dial tcp: timeout")}, testTimeout, zap.NewNop())

	body := `{"product_id": "1", "variant_id": "V1"}`
	rec := httptest.NewRecorder()
	h.AddItem(rec, newRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpdateQuantity_NumberAndString(t *testing.T) {
	carts := newFakeCartService()
	carts.cart("sess-1").AddLine(domain.CartLine{
		VariantID: "V1",
		UnitPrice: decimal.RequireFromString("10.00"),
	})
	h := NewCartHandler(carts, &fakeCatalog{}, testTimeout, zap.NewNop())
	params := map[string]string{"variant_id": "V1"}

	rec := httptest.NewRecorder()
	h.UpdateQuantity(rec, newRequest(http.MethodPut, "/api/v1/cart/items/V1", `{"quantity": 4}`, "sess-1", params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decodeCart(t, rec).Lines[0].Quantity)

	rec = httptest.NewRecorder()
	h.UpdateQuantity(rec, newRequest(http.MethodPut, "/api/v1/cart/items/V1", `{"quantity": "7"}`, "sess-1", params))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, decodeCart(t, rec).Lines[0].Quantity)
}

func TestUpdateQuantity_ClampsInvalidInput(t *testing.T) {
	for _, body := range []string{
		`{"quantity": 0}`,
		`{"quantity": -5}`,
		`{"quantity": "abc"}`,
		`{"quantity": ""}`,
	} {
		carts := newFakeCartService()
		carts.cart("sess-1").AddLine(domain.CartLine{
			VariantID: "V1",
			UnitPrice: decimal.RequireFromString("10.00"),
		})
		h := NewCartHandler(carts, &fakeCatalog{}, testTimeout, zap.NewNop())

		rec := httptest.NewRecorder()
		h.UpdateQuantity(rec, newRequest(http.MethodPut, "/api/v1/cart/items/V1", body, "sess-1",
			map[string]string{"variant_id": "V1"}))

		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, 1, decodeCart(t, rec).Lines[0].Quantity, body)
	}
}

func TestRemoveItem(t *testing.T) {
	carts := newFakeCartService()
	carts.cart("sess-1").AddLine(domain.CartLine{
		VariantID: "V1",
		UnitPrice: decimal.RequireFromString("10.00"),
	})
	h := NewCartHandler(carts, &fakeCatalog{}, testTimeout, zap.NewNop())

	rec := httptest.NewRecorder()
	h.RemoveItem(rec, newRequest(http.MethodDelete, "/api/v1/cart/items/V1", "", "sess-1",
		map[string]string{"variant_id": "V1"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Lines)
}

func TestClearCart(t *testing.T) {
	carts := newFakeCartService()
	carts.cart("sess-1").AddLine(domain.CartLine{
		VariantID: "V1",
		UnitPrice: decimal.RequireFromString("10.00"),
	})
	h := NewCartHandler(carts, &fakeCatalog{}, testTimeout, zap.NewNop())

	rec := httptest.NewRecorder()
	h.ClearCart(rec, newRequest(http.MethodDelete, "/api/v1/cart", "", "sess-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sess-1"}, carts.cleared)
	assert.Empty(t, decodeCart(t, rec).Lines)
}
