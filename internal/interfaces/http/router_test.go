package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/application/reorder"
	"github.com/jhoicas/Almacen-api/internal/application/reservation"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: app completa con el store en memoria detrás del router real
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID   = "33333333-3333-3333-3333-333333333333"
	testWarehouseID = "44444444-4444-4444-4444-444444444444"
	testRecordID    = "55555555-5555-5555-5555-555555555555"
)

func buildAPI(store *apptest.Store) *fiber.App {
	applier := ledger.NewApplyMovementUseCase(store, store.MovementRepo(), store.StockRepo())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Applier:       applier,
		StockAdmin:    ledger.NewStockAdminUseCase(store, store.StockRepo(), store.WarehouseRepo()),
		ReservationUC: reservation.NewUseCase(store, applier, store.ReservationRepo(), store.StockRepo()),
		ReceivingUC:   receiving.NewUseCase(store, applier),
		ReorderUC:     reorder.NewUseCase(store.ProductRepo(), store.SupplierRepo()),
		JWTSecret:     testJWTSecret,
	})
	return app
}

func seedAPIRecord(store *apptest.Store, quantity, reserved int64) {
	store.AddStock(&entity.StockRecord{
		ID:               testRecordID,
		CompanyID:        testCompanyID,
		ProductID:        testProductID,
		WarehouseID:      testWarehouseID,
		Quantity:         decimal.NewFromInt(quantity),
		ReservedQuantity: decimal.NewFromInt(reserved),
		Status:           entity.StockStatusAvailable,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	})
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", validToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_SinToken_Retorna401(t *testing.T) {
	store := apptest.NewStore()
	app := buildAPI(store)

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AplicarMovimiento_Creado(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 10, 0)
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_record_id": testRecordID,
		"type":            entity.MovementTypeReceipt,
		"quantity":        "5",
		"reason":          "recepción manual",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, entity.MovementTypeReceipt, body["type"])
	assert.Equal(t, "10", fmt.Sprint(body["quantity_before"]))
	assert.Equal(t, "15", fmt.Sprint(body["quantity_after"]))
}

func TestAPI_StockInsuficiente_Retorna409(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 3, 0)
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_record_id": testRecordID,
		"type":            entity.MovementTypeShipment,
		"quantity":        "10",
		"reason":          "despacho",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestAPI_RegistroInexistente_Retorna404(t *testing.T) {
	store := apptest.NewStore()
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_record_id": "no-existe",
		"type":            entity.MovementTypeShipment,
		"quantity":        "1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_TipoInvalido_Retorna400(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 10, 0)
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_record_id": testRecordID,
		"type":            "INVENTADO",
		"quantity":        "1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta de stock: el disponible siempre llega derivado
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ConsultarStock_DisponibleDerivado(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 10, 4)
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodGet, "/api/inventory/stock/"+testRecordID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "10", fmt.Sprint(body["quantity"]))
	assert.Equal(t, "4", fmt.Sprint(body["reserved_quantity"]))
	assert.Equal(t, "6", fmt.Sprint(body["available_quantity"]))
}

func TestAPI_BuscarStockPorLocator(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 7, 2)
	app := buildAPI(store)

	// La tupla (producto, bodega) localiza el registro sembrado
	path := "/api/inventory/stock?product_id=" + testProductID + "&warehouse_id=" + testWarehouseID
	resp := doJSON(t, app, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, testRecordID, body["id"])
	assert.Equal(t, "5", fmt.Sprint(body["available_quantity"]))

	// Sin product_id la búsqueda es inválida
	resp = doJSON(t, app, http.MethodGet, "/api/inventory/stock?warehouse_id="+testWarehouseID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Un lote que nadie registró no encuentra nada
	resp = doJSON(t, app, http.MethodGet, path+"&lot_number=LOTE-999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// El token acota a la empresa: conocer el id de un registro ajeno no sirve ni
// para leerlo ni para moverlo, y el historial nunca lista movimientos ajenos.
func TestAPI_StockDeOtraEmpresa_Prohibido(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 10, 0)
	foreignID := "77777777-7777-7777-7777-777777777777"
	store.AddStock(&entity.StockRecord{
		ID:          foreignID,
		CompanyID:   "99999999-9999-9999-9999-999999999999",
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
		Quantity:    decimal.NewFromInt(50),
		Status:      entity.StockStatusAvailable,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodGet, "/api/inventory/stock/"+foreignID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_record_id": foreignID,
		"type":            entity.MovementTypeShipment,
		"quantity":        "5",
		"reason":          "despacho",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.True(t, store.Stock(foreignID).Quantity.Equal(decimal.NewFromInt(50)),
		"el stock ajeno queda intacto")

	// El historial del propio inquilino sí funciona y sale vacío.
	resp = doJSON(t, app, http.MethodGet, "/api/inventory/movements?stock_record_id="+foreignID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "0", fmt.Sprint(body["total"]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_ReservarYLiberar(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 10, 0)
	app := buildAPI(store)

	// Reservar
	resp := doJSON(t, app, http.MethodPost, "/api/reservations/", map[string]any{
		"stock_record_id": testRecordID,
		"quantity":        "4",
		"reserved_for":    entity.ReservedForOrder,
		"reference_id":    "orden-001",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	assert.Equal(t, entity.ReservationStatusActive, created["status"])
	reservationID := created["id"].(string)

	// Liberar como cancelación
	resp = doJSON(t, app, http.MethodPost, "/api/reservations/"+reservationID+"/release", map[string]any{
		"outcome": entity.ReservationStatusCancelled,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	released := decodeBody(t, resp)
	assert.Equal(t, entity.ReservationStatusCancelled, released["status"])

	record := store.Stock(testRecordID)
	assert.True(t, record.ReservedQuantity.IsZero())
}

func TestAPI_ReservarSinDisponible_Retorna409(t *testing.T) {
	store := apptest.NewStore()
	seedAPIRecord(store, 5, 5)
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodPost, "/api/reservations/", map[string]any{
		"stock_record_id": testRecordID,
		"quantity":        "1",
		"reserved_for":    entity.ReservedForOrder,
		"reference_id":    "orden-002",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "INSUFFICIENT_AVAILABLE", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Reorden por HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_AlertasDeReorden(t *testing.T) {
	store := apptest.NewStore()
	app := buildAPI(store)

	resp := doJSON(t, app, http.MethodGet, "/api/reorder/alerts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["total"])
}
