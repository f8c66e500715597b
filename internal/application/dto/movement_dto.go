package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// Identificar el registro con stock_record_id o con la tupla product_id +
// warehouse_id (+ variant_id, lot_number). Quantity siempre positiva; para
// ADJUSTMENT es la cantidad absoluta objetivo.
type ApplyMovementRequest struct {
	StockRecordID string           `json:"stock_record_id,omitempty"`
	ProductID     string           `json:"product_id,omitempty"`
	VariantID     *string          `json:"variant_id,omitempty"`
	WarehouseID   string           `json:"warehouse_id,omitempty"`
	LotNumber     *string          `json:"lot_number,omitempty"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason        string           `json:"reason"`
	ReferenceType string           `json:"reference_type,omitempty"`
	ReferenceID   string           `json:"reference_id,omitempty"`
	OccurredAt    *time.Time       `json:"occurred_at,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	StockRecordID              string          `json:"stock_record_id"`
	NewQuantity                decimal.Decimal `json:"new_quantity"`
	Reason                     string          `json:"reason"`
	ApprovedBy                 string          `json:"approved_by,omitempty"`
	AcknowledgeOverReservation bool            `json:"acknowledge_over_reservation,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string          `json:"product_id"`
	VariantID       *string         `json:"variant_id,omitempty"`
	LotNumber       *string         `json:"lot_number,omitempty"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason,omitempty"`
}

// MovementResponse representación de una entrada del mayor.
type MovementResponse struct {
	ID             string          `json:"id"`
	StockRecordID  string          `json:"stock_record_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reason         string          `json:"reason,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}
