package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/infrastructure/api"
	"github.com/jhoicas/laptophub-storefront/pkg/config"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

func newServer(t *testing.T, status int, response string) (*api.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return api.NewClient(config.APIConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, nil), &calls
}

const cartJSON = `{
  "id": 9, "userId": "u-1", "total": 2649.48, "createdAt": "2025-03-01T10:00:00.123456",
  "items": [
    {"id": 1, "cantidad": 2, "product": {"id": 100, "nombre": "ThinkPad X1", "precio": 1299.99, "stock": 10,
      "marca": "Lenovo", "imagenPrincipal": {"id": 5, "url": "/img/x1.png", "orden": 0}}},
    {"id": 2, "cantidad": 1, "product": {"id": 200, "nombre": "Mouse", "precio": 49.50}}
  ]
}`

func TestCartRepository_GetCart_MapeaItems(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, cartJSON)
	repo := api.NewCartRepository(c)

	cart, err := repo.GetCart(context.Background(), "u-1")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/api/cart/user/u-1", (*calls)[0].Path)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, int64(1), cart.Items[0].ID)
	assert.Equal(t, "ThinkPad X1", cart.Items[0].Product.Name)
	assert.Equal(t, "Lenovo", cart.Items[0].Product.Brand)
	assert.Equal(t, "/img/x1.png", cart.Items[0].Product.ImageURL)
	assert.Equal(t, 10, cart.Items[0].Product.Stock)
	assert.Equal(t, entity.UnknownStock, cart.Items[1].Product.Stock, "sin stock informado")
	assert.True(t, decimal.RequireFromString("2649.48").Equal(cart.Total))
}

func TestCartRepository_GetCart_Anonimo(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, `{"items": []}`)

	cart, err := api.NewCartRepository(c).GetCart(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/api/cart", (*calls)[0].Path)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())
}

func TestCartRepository_UpdateItemQuantity_EnviaCantidad(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, cartJSON)

	cart, err := api.NewCartRepository(c).UpdateItemQuantity(context.Background(), 1, 2)
	require.NoError(t, err)
	require.NotNil(t, cart)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/api/cart/items/1", call.Path)
	assert.Equal(t, float64(2), call.Body["cantidad"])
}

func TestCartRepository_UpdateItemQuantity_StockInsuficiente(t *testing.T) {
	c, _ := newServer(t, http.StatusBadRequest,
		`{"success": false, "message": "Stock insuficiente para producto 100", "path": "/api/cart/items/1"}`)

	_, err := api.NewCartRepository(c).UpdateItemQuantity(context.Background(), 1, 20)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, api.IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "Stock insuficiente")
}

func TestCartRepository_RemoveItem(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, "")

	require.NoError(t, api.NewCartRepository(c).RemoveItem(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, (*calls)[0].Method)
	assert.Equal(t, "/api/cart/items/7", (*calls)[0].Path)
}

func TestCartRepository_AddItem(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, cartJSON)

	_, err := api.NewCartRepository(c).AddItem(context.Background(), "u-1", 100, 1)
	require.NoError(t, err)
	call := (*calls)[0]
	assert.Equal(t, "/api/cart/user/u-1/items", call.Path)
	assert.Equal(t, float64(100), call.Body["productId"])
	assert.Equal(t, float64(1), call.Body["cantidad"])

	_, err = api.NewCartRepository(c).AddItem(context.Background(), "", 100, 1)
	assert.Error(t, err)
}

func TestStatusError_Mapeo(t *testing.T) {
	cases := []struct {
		status  int
		message string
		want    error
	}{
		{http.StatusNotFound, "Item no encontrado", domain.ErrNotFound},
		{http.StatusBadRequest, "cantidad inválida", domain.ErrInvalidInput},
		{http.StatusConflict, "sin stock", domain.ErrInsufficientStock},
		{http.StatusConflict, "ya existe", domain.ErrConflict},
		{http.StatusUnauthorized, "", domain.ErrUnauthorized},
		{http.StatusForbidden, "", domain.ErrForbidden},
		{http.StatusBadGateway, "", domain.ErrUnavailable},
	}
	for _, tc := range cases {
		err := &api.StatusError{Method: "GET", Path: "/x", Status: tc.status, Message: tc.message}
		assert.ErrorIs(t, err, tc.want, "status %d %q", tc.status, tc.message)
	}
}

func TestClient_CuerpoDeErrorNoJSON(t *testing.T) {
	c, _ := newServer(t, http.StatusInternalServerError, "boom")

	_, err := api.NewCartRepository(c).GetCart(context.Background(), "u-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_ContextoCancelado(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, cartJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.NewCartRepository(c).GetCart(ctx, "u-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProductRepository_SearchByName_Paginado(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, `{
	  "content": [{"id": 1, "nombre": "ZenBook", "precio": "899.00", "stock": 4, "brand": {"id": 2, "nombre": "Asus"}, "promedioRating": 4.5}],
	  "totalPages": 3, "totalElements": 25, "size": 12, "number": 1, "empty": false}`)

	page, err := api.NewProductRepository(c).SearchByName(context.Background(), "zen book", 1, 12)
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, "/api/products/search", call.Path)
	assert.Contains(t, call.Query, "nombre=zen+book")
	assert.Contains(t, call.Query, "page=1")
	assert.Contains(t, call.Query, "size=12")
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Asus", page.Content[0].Brand)
	assert.Equal(t, 4.5, page.Content[0].AvgRating)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.TotalElements)
}

func TestProductRepository_FindByBrand(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, `{"content": [], "empty": true}`)

	page, err := api.NewProductRepository(c).FindByBrand(context.Background(), "Dell", 0, 12)
	require.NoError(t, err)
	assert.Equal(t, "/api/products/brand", (*calls)[0].Path)
	assert.Contains(t, (*calls)[0].Query, "marca=Dell")
	assert.True(t, page.Empty)
}

func TestProductRepository_GetByID_Detalle(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{
	  "id": 3, "nombre": "XPS 13", "descripcion": "Ultraligera", "precio": 1499.00, "stock": 2,
	  "brand": {"id": 1, "nombre": "Dell"}, "procesador": "i7-1360P", "ram": 16, "almacenamiento": 512,
	  "pantalla": "13.4\"", "gpu": "Iris Xe", "peso": 1.17,
	  "imagenes": [{"id": 1, "url": "/img/xps-1.png", "orden": 0}, {"id": 2, "url": "/img/xps-2.png", "orden": 1}],
	  "resenas": [{"id": 8, "productId": 3, "userId": "u-2", "userNombre": "Luis", "rating": 5, "comentario": "Excelente", "createdAt": "2025-01-05T08:30:00"}],
	  "promedioRating": 5.0, "createdAt": "2024-12-01T00:00:00"}`)

	d, err := api.NewProductRepository(c).GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, "Dell", d.Brand)
	assert.Equal(t, "16", d.RAM)
	assert.Equal(t, "512", d.Storage)
	assert.Equal(t, "1.17", d.Weight)
	assert.Equal(t, "/img/xps-1.png", d.ImageURL)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, "Luis", d.Reviews[0].UserName)
	assert.Equal(t, 2025, d.Reviews[0].CreatedAt.Year())
}

func TestProductRepository_GetByID_NoExiste(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, `{"success": false, "message": "Producto no encontrado"}`)

	d, err := api.NewProductRepository(c).GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestUserRepository_Update_Parcial(t *testing.T) {
	c, calls := newServer(t, http.StatusOK,
		`{"id": "u-1", "email": "ana@example.com", "nombre": "Ana", "apellido": "Pérez", "direccion": "Calle 9"}`)

	dir := "Calle 9"
	u, err := api.NewUserRepository(c).Update(context.Background(), "u-1", entity.UserUpdate{Address: &dir})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/api/users/u-1", call.Path)
	assert.Equal(t, map[string]any{"direccion": "Calle 9"}, call.Body)
	assert.Equal(t, "Ana Pérez", u.FullName())
}

func TestUserRepository_GetByID_NoExiste(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, `{"message": "Usuario no encontrado"}`)

	_, err := api.NewUserRepository(c).GetByID(context.Background(), "u-9")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestOrderRepository_CreateFromCart(t *testing.T) {
	c, calls := newServer(t, http.StatusOK, `{
	  "id": 77, "userId": "u-1", "total": 250.00, "estado": "PENDIENTE_PAGO", "direccionEnvio": "Calle 1 #2-3",
	  "expiresAt": "2025-03-01T11:00:00",
	  "items": [{"id": 1, "cantidad": 2, "precioUnitario": 100.00, "product": {"id": 100, "nombre": "Laptop", "precio": 100.00}}],
	  "payment": {"id": 5, "orderId": 77, "stripePaymentId": "pi_123", "clientSecret": "pi_123_secret", "monto": 250.00, "estado": "PENDING"}}`)

	o, err := api.NewOrderRepository(c).CreateFromCart(context.Background(), "u-1", "Calle 1 #2-3")
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/orders/user/u-1", call.Path)
	assert.Equal(t, "Calle 1 #2-3", call.Body["direccionEnvio"])

	assert.Equal(t, int64(77), o.ID)
	require.NotNil(t, o.ExpiresAt)
	require.NotNil(t, o.Payment)
	assert.Equal(t, "pi_123_secret", o.Payment.ClientSecret)
	assert.Equal(t, "pending", o.Payment.Status)
	require.Len(t, o.Items, 1)
	assert.True(t, decimal.RequireFromString("100").Equal(o.Items[0].UnitPrice))
}
