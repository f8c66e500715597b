package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecordResponse representación de un registro de stock.
// available_quantity es siempre derivado (quantity - reserved_quantity).
type StockRecordResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	VariantID         *string         `json:"variant_id,omitempty"`
	WarehouseID       string          `json:"warehouse_id"`
	LotNumber         *string         `json:"lot_number,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	Status            string          `json:"status"`
	Zone              string          `json:"zone,omitempty"`
	Aisle             string          `json:"aisle,omitempty"`
	Shelf             string          `json:"shelf,omitempty"`
	Bin               string          `json:"bin,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Retired           bool            `json:"retired,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
