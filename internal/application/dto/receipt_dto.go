package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveGoodsRequest body para POST /api/receipts.
type ReceiveGoodsRequest struct {
	PurchaseOrderID string               `json:"purchase_order_id"`
	WarehouseID     string               `json:"warehouse_id"`
	Items           []ReceiptItemRequest `json:"items"`
}

// ReceiptItemRequest una línea contada en la recepción.
type ReceiptItemRequest struct {
	PurchaseOrderItemID string           `json:"purchase_order_item_id"`
	ReceivedQty         decimal.Decimal  `json:"received_qty"`
	QCStatus            string           `json:"qc_status"` // PASSED | FAILED
	UnitCost            *decimal.Decimal `json:"unit_cost,omitempty"`
	VariantID           *string          `json:"variant_id,omitempty"`
	LotNumber           *string          `json:"lot_number,omitempty"`
	BatchNumber         *string          `json:"batch_number,omitempty"`
	ExpiryDate          *time.Time       `json:"expiry_date,omitempty"`
}

// ReceiveGoodsResponse resultado de la recepción, línea por línea.
// Una línea fallida no revierte las demás; el detalle jamás se pierde en un
// "éxito" global.
type ReceiveGoodsResponse struct {
	ReceiptID string                `json:"receipt_id"`
	Items     []ReceiptItemResponse `json:"items"`
}

// ReceiptItemResponse resultado de una línea.
type ReceiptItemResponse struct {
	PurchaseOrderItemID string          `json:"purchase_order_item_id"`
	Outcome             string          `json:"outcome"` // APPLIED | REJECTED | FAILED
	FailureCode         string          `json:"failure_code,omitempty"`
	ReceivedQty         decimal.Decimal `json:"received_qty"`
	StockRecordID       *string         `json:"stock_record_id,omitempty"`
	MovementID          *string         `json:"movement_id,omitempty"`
}
