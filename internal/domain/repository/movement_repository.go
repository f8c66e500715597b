package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter filtros para listar el historial de movimientos (paginado).
type MovementFilter struct {
	CompanyID     string // acota al inquilino dueño de los registros de stock
	StockRecordID string
	Type          string
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// MovementRepository puerto del libro mayor de movimientos. Solo inserta y lee:
// un movimiento jamás se actualiza ni se borra.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// SumDeltas suma los deltas de todos los movimientos de un registro; reproducir
	// el mayor desde cero debe dar exactamente la cantidad actual (reconciliación).
	SumDeltas(ctx context.Context, stockRecordID string) (decimal.Decimal, error)
}
