package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una reserva.
const (
	ReservationStatusActive    = "ACTIVE"
	ReservationStatusFulfilled = "FULFILLED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusExpired   = "EXPIRED"
)

// Destinos de una reserva.
const (
	ReservedForOrder    = "ORDER"
	ReservedForTransfer = "TRANSFER"
	ReservedForOther    = "OTHER"
)

// Reservation retención temporal de stock disponible contra una orden o traslado en curso.
// No mueve el stock físico: solo descuenta del disponible hasta que se cumple (SHIPMENT),
// se cancela o expira. Invariante: la suma de reservas ACTIVE de un StockRecord
// es igual a su ReservedQuantity.
type Reservation struct {
	ID            string
	StockRecordID string
	Quantity      decimal.Decimal
	ReservedFor   string
	ReferenceID   string
	Status        string
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	CreatedBy     string
	ReleasedAt    *time.Time
	ReleasedBy    *string
}

// IsActive indica si la reserva sigue reteniendo stock.
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsExpired indica si la reserva venció sin cumplirse (solo aplica a ACTIVE con expiración).
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.IsActive() && r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// ValidReservedFor valida el destino contra el catálogo.
func ValidReservedFor(reservedFor string) bool {
	switch reservedFor {
	case ReservedForOrder, ReservedForTransfer, ReservedForOther:
		return true
	}
	return false
}
