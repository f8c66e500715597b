package reorder

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase analiza los registros de stock contra los umbrales de reorden del
// producto. Componente de solo lectura: jamás escribe stock ni movimientos.
type UseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

// NewUseCase construye el analizador de reorden.
func NewUseCase(products repository.ProductRepository, suppliers repository.SupplierRepository) *UseCase {
	return &UseCase{products: products, suppliers: suppliers}
}

// GetLowStockAlerts devuelve las alertas de stock bajo de la empresa: productos
// con umbral definido cuyo stock actual es <= su punto de reorden (o mínimo).
// Los productos sin umbral quedan excluidos del resultado, no son error.
// warehouseID vacío considera el stock agregado de todas las bodegas.
func (uc *UseCase) GetLowStockAlerts(ctx context.Context, companyID, warehouseID string) ([]dto.LowStockAlertDTO, error) {
	items, err := uc.products.ListBelowReorder(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertDTO, 0, len(items))
	for _, item := range items {
		severity := "LOW"
		if item.MinStock != nil && item.CurrentStock.LessThanOrEqual(*item.MinStock) {
			severity = "CRITICAL"
		}
		if item.CurrentStock.IsZero() {
			severity = "OUT_OF_STOCK"
		}
		alerts = append(alerts, dto.LowStockAlertDTO{
			ProductID:    item.ProductID,
			SKU:          item.SKU,
			ProductName:  item.ProductName,
			WarehouseID:  item.WarehouseID,
			CurrentStock: item.CurrentStock,
			ReorderPoint: item.ReorderPoint,
			Severity:     severity,
		})
	}
	return alerts, nil
}

// GetReorderSuggestions devuelve la sugerencia de reposición por producto bajo
// reorden: cantidad sugerida = max(reorderQuantity, reorderPoint), costo estimado
// = cantidad sugerida * costo, y el proveedor preferido si existe vínculo.
// Ordena por mayor déficit primero y asigna prioridad 1..N.
func (uc *UseCase) GetReorderSuggestions(ctx context.Context, companyID, warehouseID string) ([]dto.ReorderSuggestionDTO, error) {
	items, err := uc.products.ListBelowReorder(ctx, companyID, warehouseID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReorderSuggestionDTO, 0, len(items))
	for _, item := range items {
		suggestedQty := item.ReorderPoint
		if item.ReorderQuantity != nil && item.ReorderQuantity.GreaterThan(suggestedQty) {
			suggestedQty = *item.ReorderQuantity
		}
		s := dto.ReorderSuggestionDTO{
			ProductID:     item.ProductID,
			SKU:           item.SKU,
			ProductName:   item.ProductName,
			CurrentStock:  item.CurrentStock,
			ReorderPoint:  item.ReorderPoint,
			SuggestedQty:  suggestedQty,
			UnitCost:      item.UnitCost,
			EstimatedCost: suggestedQty.Mul(item.UnitCost),
		}
		// Sin vínculo de proveedor la sugerencia sale sin proveedor; un fallo del
		// almacenamiento sí es error del caller, no se confunde con "no hay preferido".
		supplier, err := uc.suppliers.GetPreferred(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if supplier != nil {
			s.SupplierID = supplier.SupplierID
			s.SupplierName = supplier.SupplierName
			s.LeadTimeDays = supplier.LeadTimeDays
		}
		suggestions = append(suggestions, s)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		defA := suggestions[i].ReorderPoint.Sub(suggestions[i].CurrentStock)
		defB := suggestions[j].ReorderPoint.Sub(suggestions[j].CurrentStock)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return suggestions[i].EstimatedCost.GreaterThan(suggestions[j].EstimatedCost)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
