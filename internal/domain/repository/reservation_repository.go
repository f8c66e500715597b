package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReservationRepository puerto de persistencia de reservas.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	// GetForUpdate bloquea la fila de la reserva; usar dentro de una transacción
	// para que release y el barrido de expiración no se pisen.
	GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error)
	// ReleaseIfActive transiciona ACTIVE -> toStatus con compare-and-swap sobre el
	// estado. Devuelve false si la reserva ya no estaba ACTIVE (otro actor ganó).
	ReleaseIfActive(ctx context.Context, id, toStatus, releasedBy string, releasedAt time.Time) (bool, error)
	ListActiveByStockRecord(ctx context.Context, stockRecordID string) ([]*entity.Reservation, error)
	// ListExpiredIDs devuelve ids de reservas ACTIVE con expires_at < now (para el barrido).
	ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	// SumActive suma las cantidades de reservas ACTIVE de un registro; debe igualar
	// su reserved_quantity (conservación de reservas).
	SumActive(ctx context.Context, stockRecordID string) (decimal.Decimal, error)
}
