package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/auth"
	"github.com/jhoicas/procurement-api/internal/application/category"
	"github.com/jhoicas/procurement-api/internal/application/inventory"
	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/application/usecase"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/infrastructure/mail"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/internal/infrastructure/pdf"
	"github.com/jhoicas/procurement-api/internal/infrastructure/ubl"
	apphttp "github.com/jhoicas/procurement-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/procurement-api/pkg/jwt"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// newTestAPI arma la API completa sobre el almacenamiento en memoria.
func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.NewNop()
	store := memory.NewStore()
	repos := store.Repos()

	ledger := inventory.NewLedgerUseCase(store, repos.Inventory, nil, inventory.Config{}, logger.NewNop())
	orders := purchasing.NewPurchaseOrderUseCase(
		repos,
		store,
		ledger,
		pdf.NewMarotoPDFGenerator("Compras Test S.A."),
		ubl.NewOrderBuilder("Compras Test S.A."),
		mail.NewLogNotifier(log),
		purchasing.Config{DefaultCurrency: "USD", NumberPrefix: "PO", BuyerName: "Compras Test S.A."},
		log,
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, RefreshExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:          usecase.NewUserUseCase(repos.Users),
		CategoryUC:      category.NewCategoryUseCase(repos.Categories, store, log, 10),
		ProductUC:       usecase.NewProductUseCase(repos.Products, repos.Categories),
		SupplierUC:      usecase.NewSupplierUseCase(repos.Suppliers, "USD"),
		LocationUC:      usecase.NewLocationUseCase(repos.Locations),
		PurchaseOrderUC: orders,
		ShipmentUC:      purchasing.NewShipmentUseCase(repos, store, orders, log),
		LedgerUC:        ledger,
		ReplenishmentUC: inventory.NewReplenishmentUseCase(repos.Inventory, repos.Products),
		JWTSecret:       testJWTSecret,
	})
	return app
}

// call ejecuta una petición JSON y devuelve la respuesta con el cuerpo ya leído.
func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, []byte) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, out
}

func decode(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

// adminToken registra el primer usuario (admin) y hace login.
func adminToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, _ := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "admin@compras.test", "password": "secreto-123", "name": "Admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "admin@compras.test", "password": "secreto-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	login := decode(t, raw)
	user := login["user"].(map[string]interface{})
	assert.Equal(t, entity.RoleAdmin, user["role"], "el primer usuario es admin")
	return login["token"].(string)
}

func create(t *testing.T, app *fiber.App, path, token string, body interface{}) map[string]interface{} {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, path, token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode(t, raw)
}

func TestRouter_Health(t *testing.T) {
	app := newTestAPI(t)
	resp, raw := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "ok")
}

func TestRouter_FlujoCompletoDeCompra(t *testing.T) {
	app := newTestAPI(t)
	token := adminToken(t, app)

	root := create(t, app, "/api/categories", token, map[string]string{"name": "Materiales"})
	steel := create(t, app, "/api/categories", token, map[string]string{"name": "Acero", "parent_id": root["id"].(string)})
	assert.Equal(t, "Materiales / Acero", steel["path"])

	supplier := create(t, app, "/api/suppliers", token, map[string]interface{}{
		"code": "SUP-1", "name": "Aceros del Norte", "category": "manufacturer", "status": "active", "email": "ventas@aceros.test",
	})
	product := create(t, app, "/api/products", token, map[string]interface{}{
		"sku": "VAR-12", "name": "Varilla 12mm", "category_id": steel["id"], "unit_price": "12.50",
	})
	location := create(t, app, "/api/locations", token, map[string]string{"code": "BOD-1", "name": "Bodega principal"})

	po := create(t, app, "/api/purchase-orders", token, map[string]interface{}{
		"supplier_id": supplier["id"],
		"items": []map[string]interface{}{
			{"product_id": product["id"], "quantity": 10, "unit_price": "12.50"},
		},
	})
	poID := po["id"].(string)
	assert.Equal(t, "draft", po["status"])
	assert.True(t, strings.HasPrefix(po["po_number"].(string), "PO-"))
	itemID := po["items"].([]interface{})[0].(map[string]interface{})["id"].(string)

	resp, raw := call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/submit", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "pending_approval", decode(t, raw)["status"])

	resp, raw = call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/approvals", token, map[string]string{"decision": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "approved", decode(t, raw)["status"])

	resp, raw = call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/order", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "ordered", decode(t, raw)["status"])

	resp, raw = call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/receipts", token, map[string]interface{}{
		"lines": []map[string]interface{}{{"item_id": itemID, "quantity": 4, "location_id": location["id"]}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "partially_received", decode(t, raw)["status"])

	resp, raw = call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/receipts", token, map[string]interface{}{
		"lines": []map[string]interface{}{{"item_id": itemID, "quantity": 7, "location_id": location["id"]}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), "OVER_RECEIPT")

	resp, raw = call(t, app, http.MethodGet, "/api/inventory?location_id="+location["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	rows := decode(t, raw)["items"].([]interface{})
	require.Len(t, rows, 1)
	assert.EqualValues(t, 4, rows[0].(map[string]interface{})["quantity_on_hand"])

	req := httptest.NewRequest(http.MethodGet, "/api/purchase-orders/"+poID+"/ubl", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ublResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer ublResp.Body.Close()
	assert.Equal(t, http.StatusOK, ublResp.StatusCode)
	assert.NotEmpty(t, ublResp.Header.Get(apphttp.HeaderDocumentDigest))
	xmlBody, _ := io.ReadAll(ublResp.Body)
	assert.Contains(t, string(xmlBody), po["po_number"].(string))

	req = httptest.NewRequest(http.MethodGet, "/api/purchase-orders/"+poID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	pdfResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get(fiber.HeaderContentType))
}

func TestRouter_CompradorNoPuedeAprobar(t *testing.T) {
	app := newTestAPI(t)
	buyer, err := pkgjwt.Generate(testJWTSecret, testUserID, entity.RoleBuyer, pkgjwt.TokenAccess, testIssuer, testExpMin)
	require.NoError(t, err)

	resp, raw := call(t, app, http.MethodPost, "/api/purchase-orders/00000000-0000-0000-0000-0000000000aa/approvals", buyer,
		map[string]string{"decision": "approved"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(raw), "FORBIDDEN")
}

func TestRouter_SinTokenRetorna401(t *testing.T) {
	app := newTestAPI(t)
	resp, _ := call(t, app, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	app := newTestAPI(t)
	token := adminToken(t, app)

	t.Run("validación", func(t *testing.T) {
		resp, raw := call(t, app, http.MethodPost, "/api/categories", token, map[string]string{"name": ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(raw), "VALIDATION")
	})

	t.Run("no encontrado", func(t *testing.T) {
		resp, raw := call(t, app, http.MethodGet, "/api/categories/00000000-0000-0000-0000-0000000000ff", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(raw), "NOT_FOUND")
	})

	t.Run("hermano duplicado", func(t *testing.T) {
		create(t, app, "/api/categories", token, map[string]string{"name": "Herramientas"})
		resp, raw := call(t, app, http.MethodPost, "/api/categories", token, map[string]string{"name": "herramientas"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, string(raw), "DUPLICATE")
	})

	t.Run("referencia circular", func(t *testing.T) {
		a := create(t, app, "/api/categories", token, map[string]string{"name": "Nivel A"})
		b := create(t, app, "/api/categories", token, map[string]string{"name": "Nivel B", "parent_id": a["id"].(string)})
		resp, raw := call(t, app, http.MethodPut, "/api/categories/"+a["id"].(string), token, map[string]string{"parent_id": b["id"].(string)})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, string(raw), "CIRCULAR_REFERENCE")
	})

	t.Run("cuerpo inválido", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/locations", strings.NewReader("{no-json"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
