package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// StockAdminUseCase operaciones administrativas sobre registros de stock:
// listado por bodega y soft-retire. Un registro jamás se borra mientras existan
// movimientos que lo referencien; retirarlo lo saca de la operación diaria.
type StockAdminUseCase struct {
	txRunner   TxRunner
	stock      repository.StockRecordRepository
	warehouses repository.WarehouseRepository
}

// NewStockAdminUseCase construye el caso de uso.
func NewStockAdminUseCase(
	txRunner TxRunner,
	stock repository.StockRecordRepository,
	warehouses repository.WarehouseRepository,
) *StockAdminUseCase {
	return &StockAdminUseCase{txRunner: txRunner, stock: stock, warehouses: warehouses}
}

// ListByWarehouse lista los registros de stock de una bodega de la empresa.
func (uc *StockAdminUseCase) ListByWarehouse(ctx context.Context, companyID, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	if companyID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	if warehouse.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return uc.stock.ListByWarehouse(ctx, companyID, warehouseID, limit, offset)
}

// RetireStockRecord marca un registro como retirado (soft-retire). Solo se
// retiran registros en cero: con stock físico o reservas vigentes es conflicto.
// Retirar un registro ya retirado es no-op.
func (uc *StockAdminUseCase) RetireStockRecord(ctx context.Context, companyID, id string) error {
	if companyID == "" || id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(repos Repos) error {
		record, err := repos.Stock.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if record.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if record.Retired {
			return nil
		}
		if !record.Quantity.IsZero() || !record.ReservedQuantity.IsZero() {
			return domain.ErrConflict
		}
		record.UpdatedAt = time.Now()
		return repos.Stock.Retire(ctx, record.ID)
	})
}
