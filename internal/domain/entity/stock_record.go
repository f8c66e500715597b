package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un registro de stock.
const (
	StockStatusAvailable  = "AVAILABLE"
	StockStatusReserved   = "RESERVED"
	StockStatusQuarantine = "QUARANTINE"
	StockStatusDamaged    = "DAMAGED"
	StockStatusExpired    = "EXPIRED"
)

// StockLocation ubicación física dentro de la bodega.
type StockLocation struct {
	Zone  string
	Aisle string
	Shelf string
	Bin   string
}

// StockRecord representa el stock actual de un (producto, variante, bodega, lote).
// Quantity es el stock físico (on-hand); ReservedQuantity lo retenido por reservas ACTIVE.
// El disponible NUNCA se persiste: siempre se deriva con Available().
type StockRecord struct {
	ID               string
	CompanyID        string
	ProductID        string
	VariantID        *string
	WarehouseID      string
	LotNumber        *string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	Status           string
	Location         StockLocation
	BatchNumber      *string
	ExpiryDate       *time.Time
	Retired          bool // soft-retire: nunca se borra mientras existan movimientos
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Available devuelve la cantidad disponible para nuevas reservas (on-hand menos reservado).
func (s *StockRecord) Available() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// Reservable indica si el registro admite reservas: debe estar activo y en estado AVAILABLE
// o RESERVED. Cuarentena, dañado y vencido nunca aportan disponible.
func (s *StockRecord) Reservable() bool {
	if s.Retired {
		return false
	}
	return s.Status == StockStatusAvailable || s.Status == StockStatusReserved
}

// CheckInvariants valida 0 <= ReservedQuantity <= Quantity. Se invoca antes de persistir
// cualquier mutación; una violación debe rechazarse, nunca recortarse en silencio.
func (s *StockRecord) CheckInvariants() bool {
	if s.Quantity.IsNegative() || s.ReservedQuantity.IsNegative() {
		return false
	}
	return s.ReservedQuantity.LessThanOrEqual(s.Quantity)
}

// StockLocator identifica un registro de stock por su tupla de negocio
// (producto, variante opcional, bodega, lote opcional).
type StockLocator struct {
	ProductID   string
	VariantID   *string
	WarehouseID string
	LotNumber   *string
}

// Valid verifica los campos obligatorios del locator.
func (l StockLocator) Valid() bool {
	return l.ProductID != "" && l.WarehouseID != ""
}
