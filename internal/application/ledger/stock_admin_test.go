package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func buildAdmin(store *apptest.Store) *ledger.StockAdminUseCase {
	return ledger.NewStockAdminUseCase(store, store.StockRepo(), store.WarehouseRepo())
}

func seedWarehouse(store *apptest.Store) {
	store.AddWarehouse(&entity.Warehouse{
		ID:        testWarehouseID,
		CompanyID: testCompanyID,
		Name:      "Bodega Central",
		CreatedAt: time.Now(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado por bodega
// ──────────────────────────────────────────────────────────────────────────────

func TestListByWarehouse_DevuelveRegistros(t *testing.T) {
	store := apptest.NewStore()
	seedWarehouse(store)
	seedRecord(store, 10, 2)
	uc := buildAdmin(store)

	records, err := uc.ListByWarehouse(context.Background(), testCompanyID, testWarehouseID, 20, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testRecordID, records[0].ID)
}

func TestListByWarehouse_BodegaInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := buildAdmin(store)

	_, err := uc.ListByWarehouse(context.Background(), testCompanyID, "no-existe", 20, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByWarehouse_BodegaDeOtraEmpresa(t *testing.T) {
	store := apptest.NewStore()
	store.AddWarehouse(&entity.Warehouse{
		ID:        testWarehouseID,
		CompanyID: "otra-empresa",
		Name:      "Ajena",
	})
	uc := buildAdmin(store)

	_, err := uc.ListByWarehouse(context.Background(), testCompanyID, testWarehouseID, 20, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Soft-retire
// ──────────────────────────────────────────────────────────────────────────────

// Un registro en cero se retira; los movimientos posteriores lo rechazan.
func TestRetireStockRecord_RegistroEnCero(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 0, 0)
	uc := buildAdmin(store)
	applier := buildApplier(store)
	ctx := context.Background()

	require.NoError(t, uc.RetireStockRecord(ctx, testCompanyID, testRecordID))
	assert.True(t, store.Stock(testRecordID).Retired)

	_, err := applier.ApplyMovement(ctx, movementInput(entity.MovementTypeReceipt, 1))
	assert.ErrorIs(t, err, domain.ErrRecordRetired,
		"un registro retirado no admite más movimientos")
}

// Con stock físico o reservas vigentes el retiro es conflicto.
func TestRetireStockRecord_ConStockEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 5, 0)
	uc := buildAdmin(store)

	err := uc.RetireStockRecord(context.Background(), testCompanyID, testRecordID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, store.Stock(testRecordID).Retired)
}

func TestRetireStockRecord_ConReservasEsConflicto(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 0, 0)
	record := store.Stock(testRecordID)
	record.Quantity = qty(3)
	record.ReservedQuantity = qty(3)
	store.AddStock(record)
	uc := buildAdmin(store)

	err := uc.RetireStockRecord(context.Background(), testCompanyID, testRecordID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Retirar dos veces es no-op.
func TestRetireStockRecord_Idempotente(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 0, 0)
	uc := buildAdmin(store)
	ctx := context.Background()

	require.NoError(t, uc.RetireStockRecord(ctx, testCompanyID, testRecordID))
	require.NoError(t, uc.RetireStockRecord(ctx, testCompanyID, testRecordID))
	assert.True(t, store.Stock(testRecordID).Retired)
}

func TestRetireStockRecord_OtraEmpresaProhibido(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 0, 0)
	uc := buildAdmin(store)

	err := uc.RetireStockRecord(context.Background(), "otra-empresa", testRecordID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
