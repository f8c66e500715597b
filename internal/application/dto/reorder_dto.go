package dto

import "github.com/shopspring/decimal"

// LowStockAlertDTO alerta de stock bajo para un producto con umbral definido.
type LowStockAlertDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	WarehouseID  string          `json:"warehouse_id,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Severity     string          `json:"severity"` // LOW | CRITICAL | OUT_OF_STOCK
}

// ReorderSuggestionDTO sugerencia de reposición para un SKU bajo su punto de reorden.
type ReorderSuggestionDTO struct {
	ProductID     string          `json:"product_id"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	ReorderPoint  decimal.Decimal `json:"reorder_point"`
	SuggestedQty  decimal.Decimal `json:"suggested_qty"`  // max(reorder_quantity, reorder_point)
	UnitCost      decimal.Decimal `json:"unit_cost"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"` // suggested_qty * unit_cost
	SupplierID    string          `json:"supplier_id,omitempty"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	LeadTimeDays  int             `json:"lead_time_days,omitempty"`
	Priority      int             `json:"priority"` // 1 = más urgente
}
