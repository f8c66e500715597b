package receiving_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID   = "11111111-1111-1111-1111-111111111111"
	testUserID      = "22222222-2222-2222-2222-222222222222"
	testProductID   = "33333333-3333-3333-3333-333333333333"
	testWarehouseID = "44444444-4444-4444-4444-444444444444"
	testPOID        = "88888888-8888-8888-8888-888888888888"
	testPOItemID    = "99999999-9999-9999-9999-999999999999"
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func buildUseCase(store *apptest.Store) *receiving.UseCase {
	applier := ledger.NewApplyMovementUseCase(store, store.MovementRepo(), store.StockRepo())
	return receiving.NewUseCase(store, applier)
}

// seedPO siembra una orden de compra PENDING con una línea de 100 unidades.
func seedPO(store *apptest.Store) {
	now := time.Now()
	store.AddPurchaseOrder(
		&entity.PurchaseOrder{
			ID:        testPOID,
			CompanyID: testCompanyID,
			Status:    entity.PurchaseOrderStatusPending,
			CreatedAt: now,
		},
		&entity.PurchaseOrderItem{
			ID:              testPOItemID,
			PurchaseOrderID: testPOID,
			ProductID:       testProductID,
			OrderedQty:      qty(100),
			CreatedAt:       now,
		},
	)
}

func receiveInput(items ...receiving.ReceiptItemInput) receiving.ReceiveGoodsInput {
	return receiving.ReceiveGoodsInput{
		CompanyID:       testCompanyID,
		UserID:          testUserID,
		PurchaseOrderID: testPOID,
		WarehouseID:     testWarehouseID,
		Items:           items,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// QC PASSED: entra al stock vía RECEIPT
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveGoods_QCPassedAplicaRecepcion(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	lot := "LOTE-A"
	result, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(60),
		QCStatus:            entity.QCStatusPassed,
		LotNumber:           &lot,
	}))
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, entity.ReceiptItemApplied, item.Outcome)
	require.NotNil(t, item.MovementID)
	require.NotNil(t, item.StockRecordID)

	// El registro se creó por tupla de negocio y recibió las 60 unidades.
	record := store.FindStockByLocator(testCompanyID, entity.StockLocator{
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
		LotNumber:   &lot,
	})
	require.NotNil(t, record)
	assert.True(t, record.Quantity.Equal(qty(60)))
	assert.Equal(t, entity.StockStatusAvailable, record.Status)

	// El movimiento referencia la orden de compra.
	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReceipt, movs[0].Type)
	assert.Equal(t, entity.ReferenceTypePurchaseOrder, movs[0].Reference.Type())
	assert.Equal(t, testPOID, movs[0].Reference.ID())

	// La línea de la OC acumuló lo recibido y la OC quedó parcial.
	poItem := store.POItem(testPOItemID)
	assert.True(t, poItem.ReceivedQty.Equal(qty(60)))
	assert.True(t, poItem.RemainingQty().Equal(qty(40)))
	assert.Equal(t, entity.PurchaseOrderStatusPartiallyReceived, store.PurchaseOrder(testPOID).Status)
}

// Recibir el total deja la OC en RECEIVED.
func TestReceiveGoods_TotalRecibidoCierraOC(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	_, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(100),
		QCStatus:            entity.QCStatusPassed,
	}))
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderStatusReceived, store.PurchaseOrder(testPOID).Status)
}

// La recepción con costo unitario mantiene el costo promedio del producto.
func TestReceiveGoods_ActualizaCostoPromedio(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	store.AddProduct(&entity.Product{
		ID:        testProductID,
		CompanyID: testCompanyID,
		SKU:       "SKU-001",
		Cost:      decimal.Zero,
	})
	uc := buildUseCase(store)

	unitCost := decimal.NewFromInt(80)
	_, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(50),
		QCStatus:            entity.QCStatusPassed,
		UnitCost:            &unitCost,
	}))
	require.NoError(t, err)
	assert.True(t, store.Product(testProductID).Cost.Equal(decimal.NewFromInt(80)),
		"con stock previo cero el promedio es el costo de entrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// QC FAILED: rechazo contra la OC, cuarentena aparte, sin disponible
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveGoods_QCFailedVaACuarentena(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	lot := "LOTE-MALO"
	result, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(20),
		QCStatus:            entity.QCStatusFailed,
		LotNumber:           &lot,
	}))
	require.NoError(t, err)

	item := result.Items[0]
	assert.Equal(t, entity.ReceiptItemRejected, item.Outcome)
	assert.Nil(t, item.MovementID, "un rechazo no escribe en el mayor")

	// El registro de cuarentena rastrea las unidades retenidas pero no es reservable.
	require.NotNil(t, item.StockRecordID)
	record := store.Stock(*item.StockRecordID)
	require.NotNil(t, record)
	assert.Equal(t, entity.StockStatusQuarantine, record.Status)
	assert.True(t, record.Quantity.Equal(qty(20)))
	assert.False(t, record.Reservable(), "la cuarentena jamás aporta disponible")

	assert.Empty(t, store.Movements())

	// Lo rechazado descuenta el pendiente de la línea (esas unidades no volverán).
	poItem := store.POItem(testPOItemID)
	assert.True(t, poItem.RejectedQty.Equal(qty(20)))
	assert.True(t, poItem.RemainingQty().Equal(qty(80)))
}

// Si el lote ya existe como stock vendible, el rechazo no se mezcla dentro del
// registro reservable: queda solo contra la OC.
func TestReceiveGoods_QCFailedNoContaminaStockVendible(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	lot := "LOTE-A"
	store.AddStock(&entity.StockRecord{
		ID:          "aaaa0000-0000-0000-0000-000000000001",
		CompanyID:   testCompanyID,
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
		LotNumber:   &lot,
		Quantity:    qty(30),
		Status:      entity.StockStatusAvailable,
	})
	uc := buildUseCase(store)

	result, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(5),
		QCStatus:            entity.QCStatusFailed,
		LotNumber:           &lot,
	}))
	require.NoError(t, err)

	assert.Equal(t, entity.ReceiptItemRejected, result.Items[0].Outcome)
	assert.Nil(t, result.Items[0].StockRecordID)
	existing := store.Stock("aaaa0000-0000-0000-0000-000000000001")
	assert.True(t, existing.Quantity.Equal(qty(30)), "el stock vendible no se contamina")
	assert.True(t, store.POItem(testPOItemID).RejectedQty.Equal(qty(5)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Independencia por línea
// ──────────────────────────────────────────────────────────────────────────────

// Una línea inválida falla sola: las demás se aplican y el resultado reporta
// línea por línea, jamás un "éxito" global que absorba el fallo.
func TestReceiveGoods_LineaFallidaNoReviertelasDemas(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	result, err := uc.ReceiveGoods(context.Background(), receiveInput(
		receiving.ReceiptItemInput{
			PurchaseOrderItemID: testPOItemID,
			ReceivedQty:         qty(40),
			QCStatus:            entity.QCStatusPassed,
		},
		receiving.ReceiptItemInput{
			PurchaseOrderItemID: "linea-inexistente",
			ReceivedQty:         qty(10),
			QCStatus:            entity.QCStatusPassed,
		},
		receiving.ReceiptItemInput{
			PurchaseOrderItemID: testPOItemID,
			ReceivedQty:         qty(15),
			QCStatus:            entity.QCStatusPassed,
		},
	))
	require.NoError(t, err, "el fallo de una línea no es fallo de la recepción")
	require.Len(t, result.Items, 3)

	assert.Equal(t, entity.ReceiptItemApplied, result.Items[0].Outcome)
	assert.Equal(t, entity.ReceiptItemFailed, result.Items[1].Outcome)
	assert.Equal(t, "NOT_FOUND", result.Items[1].FailureCode)
	assert.Equal(t, entity.ReceiptItemApplied, result.Items[2].Outcome)

	// Las dos líneas buenas quedaron aplicadas (40 + 15).
	poItem := store.POItem(testPOItemID)
	assert.True(t, poItem.ReceivedQty.Equal(qty(55)))

	// El rastro de las tres líneas queda persistido, incluida la fallida.
	assert.Len(t, store.ReceiptItems(), 3)
}

// Cantidad inválida en una línea: FAILED con código de validación.
func TestReceiveGoods_LineaCantidadInvalida(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	result, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(0),
		QCStatus:            entity.QCStatusPassed,
	}))
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptItemFailed, result.Items[0].Outcome)
	assert.Equal(t, "VALIDATION", result.Items[0].FailureCode)
	assert.Empty(t, store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de cabecera
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveGoods_OCInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := buildUseCase(store)

	in := receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(1),
		QCStatus:            entity.QCStatusPassed,
	})
	_, err := uc.ReceiveGoods(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveGoods_OCDeOtraEmpresa(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	in := receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(1),
		QCStatus:            entity.QCStatusPassed,
	})
	in.CompanyID = "otra-empresa"
	_, err := uc.ReceiveGoods(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReceiveGoods_SinLineas(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	_, err := uc.ReceiveGoods(context.Background(), receiveInput())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Si el rastro de la línea no se puede persistir, el resultado devuelto lo dice:
// el efecto de negocio ya quedó confirmado en su transacción, pero el faltante
// del rastro no se absorbe en silencio.
func TestReceiveGoods_RastroNoPersistidoSeReporta(t *testing.T) {
	store := apptest.NewStore()
	seedPO(store)
	uc := buildUseCase(store)

	store.FailReceiptItemWrites(errors.New("almacén caído"))
	result, err := uc.ReceiveGoods(context.Background(), receiveInput(receiving.ReceiptItemInput{
		PurchaseOrderItemID: testPOItemID,
		ReceivedQty:         qty(10),
		QCStatus:            entity.QCStatusPassed,
	}))
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, entity.ReceiptItemApplied, item.Outcome, "el stock sí entró")
	assert.Equal(t, "PERSISTENCE", item.FailureCode)

	// El stock se aplicó aunque el rastro no quedó escrito.
	record := store.FindStockByLocator(testCompanyID, entity.StockLocator{
		ProductID:   testProductID,
		WarehouseID: testWarehouseID,
	})
	require.NotNil(t, record)
	assert.True(t, record.Quantity.Equal(qty(10)))
	assert.Empty(t, store.ReceiptItems())
}
