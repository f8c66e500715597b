package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resultado por línea de una recepción de mercancía.
const (
	ReceiptItemApplied  = "APPLIED"  // QC PASSED y movimiento RECEIPT aplicado
	ReceiptItemRejected = "REJECTED" // QC FAILED: registrado contra la OC, sin movimiento
	ReceiptItemFailed   = "FAILED"   // error al aplicar (p.ej. línea inexistente)
)

// GoodsReceipt cabecera de una recepción de mercancía contra una orden de compra.
type GoodsReceipt struct {
	ID              string
	CompanyID       string
	PurchaseOrderID string
	WarehouseID     string
	ReceivedAt      time.Time
	ReceivedBy      string
	CreatedAt       time.Time
}

// GoodsReceiptItem resultado de una línea de la recepción. Cada línea se procesa en
// su propia transacción: una falla en una línea no revierte las anteriores y se
// reporta aquí, nunca se absorbe en un "éxito" global.
type GoodsReceiptItem struct {
	ID                  string
	GoodsReceiptID      string
	PurchaseOrderItemID string
	StockRecordID       *string // nil si no se aplicó movimiento
	MovementID          *string
	ReceivedQty         decimal.Decimal
	QCStatus            string
	Outcome             string
	FailureCode         string // código de error cuando Outcome = FAILED
	LotNumber           *string
	BatchNumber         *string
	ExpiryDate          *time.Time
	CreatedAt           time.Time
}
