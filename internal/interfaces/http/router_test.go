package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/inventory-sales-api/internal/application/analytics"
	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/application/sales"
	"github.com/jhoicas/inventory-sales-api/internal/application/usecase"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventory-sales-api/internal/interfaces/http"
	"github.com/jhoicas/inventory-sales-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubReceipt struct{}

func (stubReceipt) GenerateSaleReceipt(_ context.Context, s *entity.Sale, _ string) ([]byte, error) {
	return []byte("%PDF-" + s.ID), nil
}

// memGuard reserva claves en memoria.
type memGuard map[string]bool

func (g memGuard) Reserve(_ context.Context, key string) (bool, error) {
	if g[key] {
		return false, nil
	}
	g[key] = true
	return true, nil
}

func (g memGuard) Release(_ context.Context, key string) error {
	delete(g, key)
	return nil
}

// buildTestApp arma la API completa sobre el almacenamiento en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	saleRepo := memory.NewSaleRepository(store)
	txRunner := memory.NewTxRunner(store)

	log := logger.Nop()
	app := apphttp.NewApp(log, apphttp.AppOptions{Name: "test"})
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(txRunner, productRepo),
		RegisterMovement: inventory.NewRegisterMovementUseCase(txRunner),
		MovementQuery:    inventory.NewMovementQueryUseCase(movementRepo),
		RegisterSale:     sales.NewRegisterSaleUseCase(txRunner, memGuard{}),
		SaleQuery:        sales.NewSaleQueryUseCase(saleRepo),
		Receipt:          sales.NewReceiptUseCase(saleRepo, stubReceipt{}, "COP"),
		DashboardUC:      appanalytics.NewDashboardUseCase(productRepo, movementRepo, saleRepo),
		StorageDriver:    "memory",
	})
	return app
}

// doRequest lanza la petición con body JSON opcional y headers extra (pares clave, valor).
func doRequest(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, sku string, price string, stock, minStock int) dto.ProductResponse {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/products", map[string]any{
		"name": "Producto " + sku, "sku": sku, "price": price, "stock": stock, "minStock": minStock, "category": "General",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.ProductResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y errores genéricos
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "memory", body.Storage)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

func TestRequestID_SeRespeta(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/health", nil, apphttp.HeaderRequestID, "req-123")
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestRutaInexistente(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, http.MethodGet, "/api/nada", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CRUD(t *testing.T) {
	app := buildTestApp(t)
	created := createProduct(t, app, "SKU-1", "12.50", 10, 2)
	assert.Equal(t, "12.5", created.Price.String())

	resp := doRequest(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPut, "/api/products/"+created.ID, map[string]any{"stock": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 1, updated.Stock)
	assert.Equal(t, "Producto SKU-1", updated.Name)
	assert.True(t, updated.IsLowStock)

	resp = doRequest(t, app, http.MethodGet, "/api/products/low-stock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low := decode[dto.ListResponse[dto.ProductResponse]](t, resp)
	assert.Equal(t, 1, low.Count)

	resp = doRequest(t, app, http.MethodGet, "/api/products/category/general", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.ProductResponse]](t, resp).Count)

	resp = doRequest(t, app, http.MethodDelete, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_CategoriaCodificadaEnRuta(t *testing.T) {
	app := buildTestApp(t)
	resp := doRequest(t, app, http.MethodPost, "/api/products", map[string]any{
		"name": "Limonada", "sku": "BEB-1", "price": "3.50", "stock": 4, "category": "Bebidas Frías",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, path := range []string{
		"/api/products/category/" + url.PathEscape("Bebidas Frías"),
		"/api/products/category/" + url.PathEscape("bebidas frías"),
	} {
		resp = doRequest(t, app, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		list := decode[dto.ListResponse[dto.ProductResponse]](t, resp)
		require.Equal(t, 1, list.Count, path)
		assert.Equal(t, "Bebidas Frías", list.Items[0].Category)
	}
}

func TestProducts_Errores(t *testing.T) {
	app := buildTestApp(t)
	createProduct(t, app, "SKU-1", "1", 1, 0)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"sku duplicado", http.MethodPost, "/api/products", map[string]any{"name": "X", "sku": "SKU-1", "price": 1}, http.StatusConflict, apphttp.CodeDuplicate},
		{"precio negativo", http.MethodPost, "/api/products", map[string]any{"name": "X", "sku": "SKU-2", "price": -1}, http.StatusBadRequest, apphttp.CodeValidation},
		{"precio con tres decimales", http.MethodPost, "/api/products", map[string]any{"name": "X", "sku": "SKU-3", "price": "1.999"}, http.StatusBadRequest, apphttp.CodeValidation},
		{"stock fuera de rango", http.MethodPost, "/api/products", map[string]any{"name": "X", "sku": "SKU-4", "price": 1, "stock": entity.MaxStock + 1}, http.StatusBadRequest, apphttp.CodeValidation},
		{"cuerpo inválido", http.MethodPost, "/api/products", map[string]any{"name": "X", "stock": "muchos"}, http.StatusBadRequest, apphttp.CodeInvalidBody},
		{"actualizar inexistente", http.MethodPut, "/api/products/nope", map[string]any{"name": "X"}, http.StatusNotFound, apphttp.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movements
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_EntradaSalidaYConsultas(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "SKU-1", "10", 2, 0)

	resp := doRequest(t, app, http.MethodPost, "/api/movements/entry", map[string]any{
		"productId": p.ID, "quantity": 3, "reason": "Compra",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	entry := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "ENTRY", entry.Type)

	resp = doRequest(t, app, http.MethodPost, "/api/movements/exit", map[string]any{
		"productId": p.ID, "quantity": 9, "reason": "Merma",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeInsufficientStock, errBody.Code)
	assert.EqualValues(t, 5, errBody.Details["available"])
	assert.EqualValues(t, 9, errBody.Details["requested"])

	resp = doRequest(t, app, http.MethodGet, "/api/movements?type=entry&from=2000-01-01&to=2999-12-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.MovementResponse]](t, resp).Count)

	resp = doRequest(t, app, http.MethodGet, "/api/movements/product/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.MovementResponse]](t, resp).Count)

	resp = doRequest(t, app, http.MethodGet, "/api/movements/"+entry.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/movements?from=2030-01-02&to=2030-01-01", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/movements?from=ayer", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, resp).Code)
}

func TestMovements_EntradaQueDesbordaElStock(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "SKU-1", "10", 5, 0)

	resp := doRequest(t, app, http.MethodPost, "/api/movements/entry", map[string]any{
		"productId": p.ID, "quantity": entity.MaxStock, "reason": "Compra",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, resp).Code)

	resp = doRequest(t, app, http.MethodGet, "/api/products/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, decode[dto.ProductResponse](t, resp).Stock, "el stock queda intacto")

	resp = doRequest(t, app, http.MethodGet, "/api/movements/product/"+p.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.ListResponse[dto.MovementResponse]](t, resp).Count)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sales
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_RegistroCompleto(t *testing.T) {
	app := buildTestApp(t)
	p1 := createProduct(t, app, "SKU-1", "10", 5, 0)
	p2 := createProduct(t, app, "SKU-2", "20", 3, 0)

	resp := doRequest(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{
			{"productId": p1.ID, "quantity": 2},
			{"productId": p2.ID, "quantity": 1},
		},
		"customerEmail": "ana@example.com",
	}, apphttp.HeaderIdempotencyKey, "venta-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleResponse](t, resp)
	assert.Equal(t, "40", sale.Total.String())
	assert.Equal(t, 3, sale.ItemCount)

	// misma clave → duplicada
	resp = doRequest(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"productId": p1.ID, "quantity": 1}},
	}, apphttp.HeaderIdempotencyKey, "venta-1")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeDuplicateRequest, decode[dto.ErrorResponse](t, resp).Code)

	resp = doRequest(t, app, http.MethodGet, "/api/products/"+p1.ID, nil)
	assert.Equal(t, 3, decode[dto.ProductResponse](t, resp).Stock)

	resp = doRequest(t, app, http.MethodGet, "/api/sales/"+sale.ID+"/movements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ListResponse[dto.MovementResponse]](t, resp).Count)

	resp = doRequest(t, app, http.MethodGet, "/api/sales?customer_email=ANA@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ListResponse[dto.SaleResponse]](t, resp).Count)

	resp = doRequest(t, app, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta-"+sale.ID+".pdf")
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-"+sale.ID, string(pdf))

	resp = doRequest(t, app, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.DashboardStats](t, resp)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalSales)
	assert.Equal(t, "40", stats.TotalRevenue.String())
	assert.Equal(t, 2, stats.TodayMovementsCount)
}

func TestSales_Errores(t *testing.T) {
	app := buildTestApp(t)
	p := createProduct(t, app, "SKU-1", "10", 1, 0)

	resp := doRequest(t, app, http.MethodPost, "/api/sales", map[string]any{"items": []any{}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, decode[dto.ErrorResponse](t, resp).Code)

	resp = doRequest(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"productId": p.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode[dto.ErrorResponse](t, resp).Code)

	resp = doRequest(t, app, http.MethodPost, "/api/sales", map[string]any{
		"items": []map[string]any{{"productId": "nope", "quantity": 1}},
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/sales/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/sales/nope/receipt", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
