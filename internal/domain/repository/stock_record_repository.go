package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockRecordRepository define el puerto de persistencia para registros de stock.
// GetForUpdate/GetByLocatorForUpdate bloquean la fila (SELECT FOR UPDATE) y solo
// tienen sentido dentro de una transacción: son la base de la mutación serializada
// por registro.
type StockRecordRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByLocator(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByLocatorForUpdate(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error)
	Create(ctx context.Context, record *entity.StockRecord) error
	// UpdateQuantities persiste quantity/reserved_quantity/status/updated_at de un registro ya bloqueado.
	UpdateQuantities(ctx context.Context, record *entity.StockRecord) error
	// Retire marca el registro como retirado (soft-retire); nunca se borra mientras
	// existan movimientos que lo referencien.
	Retire(ctx context.Context, id string) error
	ListByWarehouse(ctx context.Context, companyID, warehouseID string, limit, offset int) ([]*entity.StockRecord, error)
}
