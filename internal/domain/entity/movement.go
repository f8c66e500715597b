package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeReceipt     = "RECEIPT"      // entrada por recepción de compra
	MovementTypeShipment    = "SHIPMENT"     // salida por despacho
	MovementTypeAdjustment  = "ADJUSTMENT"   // ajuste administrativo (fija cantidad absoluta)
	MovementTypeTransferOut = "TRANSFER_OUT" // salida por traslado entre bodegas
	MovementTypeTransferIn  = "TRANSFER_IN"  // entrada por traslado entre bodegas
	MovementTypeReturn      = "RETURN"       // entrada por devolución
	MovementTypeDamage      = "DAMAGE"       // salida por daño
)

// Movement registro inmutable de un cambio de cantidad sobre un StockRecord.
// Quantity es el delta firmado aplicado; QuantityBefore/QuantityAfter son la foto
// tomada bajo el lock de fila. Una vez creado jamás se actualiza ni se borra:
// las correcciones se hacen con un movimiento compensatorio.
type Movement struct {
	ID             string
	StockRecordID  string
	Type           string
	Quantity       decimal.Decimal // positivo entrada, negativo salida
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Reason         string
	Reference      Reference
	OccurredAt     time.Time
	CreatedAt      time.Time
	CreatedBy      string
}

// IsInbound indica si el tipo suma stock.
func IsInbound(movementType string) bool {
	switch movementType {
	case MovementTypeReceipt, MovementTypeTransferIn, MovementTypeReturn:
		return true
	}
	return false
}

// IsOutbound indica si el tipo resta stock.
func IsOutbound(movementType string) bool {
	switch movementType {
	case MovementTypeShipment, MovementTypeTransferOut, MovementTypeDamage:
		return true
	}
	return false
}

// ValidMovementType valida el tipo contra el catálogo.
func ValidMovementType(movementType string) bool {
	return IsInbound(movementType) || IsOutbound(movementType) || movementType == MovementTypeAdjustment
}
