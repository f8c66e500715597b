package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra vistos desde la recepción.
const (
	PurchaseOrderStatusPending           = "PENDING"
	PurchaseOrderStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          = "RECEIVED"
)

// Resultado de control de calidad de una línea recibida.
const (
	QCStatusPassed = "PASSED"
	QCStatusFailed = "FAILED"
)

// PurchaseOrder orden de compra (solo el subconjunto que toca la recepción;
// la aprobación y el resto del workflow viven en otro subsistema).
type PurchaseOrder struct {
	ID          string
	CompanyID   string
	SupplierID  string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	VariantID       *string
	OrderedQty      decimal.Decimal
	ReceivedQty     decimal.Decimal
	RejectedQty     decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RemainingQty cantidad pendiente por recibir (derivada, nunca persistida).
// Lo rechazado por QC también descuenta el pendiente: esas unidades no volverán a llegar.
func (i *PurchaseOrderItem) RemainingQty() decimal.Decimal {
	return i.OrderedQty.Sub(i.ReceivedQty).Sub(i.RejectedQty)
}

// Satisfied indica si la línea quedó completamente atendida.
func (i *PurchaseOrderItem) Satisfied() bool {
	return i.RemainingQty().LessThanOrEqual(decimal.Zero)
}
