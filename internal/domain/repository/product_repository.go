package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// LowStockItem resultado crudo del join stock-producto para el análisis de reorden.
type LowStockItem struct {
	ProductID       string
	SKU             string
	ProductName     string
	WarehouseID     string
	CurrentStock    decimal.Decimal
	ReorderPoint    decimal.Decimal
	MinStock        *decimal.Decimal
	ReorderQuantity *decimal.Decimal
	UnitCost        decimal.Decimal
}

// ProductRepository puerto de lectura de productos (dato de referencia) más la
// actualización de costo promedio que mantiene el aplicador en recepciones.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	// ListBelowReorder devuelve productos con umbral definido cuyo stock actual
	// es <= su punto de reorden. Productos sin umbral quedan excluidos (no es error).
	// warehouseID vacío agrega el stock de todas las bodegas.
	ListBelowReorder(ctx context.Context, companyID, warehouseID string) ([]LowStockItem, error)
}

// SupplierRepository puerto para resolver el proveedor preferido de un producto.
type SupplierRepository interface {
	GetPreferred(ctx context.Context, productID string) (*entity.ProductSupplier, error)
}
