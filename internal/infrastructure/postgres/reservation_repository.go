package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de reservas sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, stock_record_id, quantity, reserved_for, reference_id, status,
	expires_at, created_at, created_by, released_at, released_by`

func (r *ReservationRepo) scanOne(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	var createdBy *string
	err := row.Scan(
		&res.ID, &res.StockRecordID, &res.Quantity, &res.ReservedFor, &res.ReferenceID, &res.Status,
		&res.ExpiresAt, &res.CreatedAt, &createdBy, &res.ReleasedAt, &res.ReleasedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	if createdBy != nil {
		res.CreatedBy = *createdBy
	}
	return &res, nil
}

// Create inserta una reserva.
func (r *ReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`
	createdBy := (*string)(nil)
	if reservation.CreatedBy != "" {
		createdBy = &reservation.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		reservation.ID, reservation.StockRecordID, reservation.Quantity,
		reservation.ReservedFor, reservation.ReferenceID, reservation.Status,
		reservation.ExpiresAt, reservation.CreatedAt, createdBy,
		reservation.ReleasedAt, reservation.ReleasedBy,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por id, sin lock.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene la reserva bloqueando la fila (SELECT FOR UPDATE).
func (r *ReservationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// ReleaseIfActive transiciona ACTIVE -> toStatus con compare-and-swap sobre el
// estado: el WHERE exige status = 'ACTIVE' y las filas afectadas dicen quién ganó
// la carrera (cumplimiento vs expiración).
func (r *ReservationRepo) ReleaseIfActive(ctx context.Context, id, toStatus, releasedBy string, releasedAt time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $2, released_at = $3, released_by = $4
		WHERE id = $1 AND status = $5`
	by := (*string)(nil)
	if releasedBy != "" {
		by = &releasedBy
	}
	tag, err := r.q.Exec(ctx, query, id, toStatus, releasedAt, by, entity.ReservationStatusActive)
	if err != nil {
		return false, fmt.Errorf("release reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListActiveByStockRecord lista las reservas ACTIVE de un registro.
func (r *ReservationRepo) ListActiveByStockRecord(ctx context.Context, stockRecordID string) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE stock_record_id = $1 AND status = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, stockRecordID, entity.ReservationStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		var createdBy *string
		if err := rows.Scan(
			&res.ID, &res.StockRecordID, &res.Quantity, &res.ReservedFor, &res.ReferenceID, &res.Status,
			&res.ExpiresAt, &res.CreatedAt, &createdBy, &res.ReleasedAt, &res.ReleasedBy,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		if createdBy != nil {
			res.CreatedBy = *createdBy
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// ListExpiredIDs devuelve ids de reservas ACTIVE con expires_at vencido, las más
// antiguas primero. El barrido procesa cada id en su propia transacción.
func (r *ReservationRepo) ListExpiredIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	query := `
		SELECT id FROM reservations
		WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at LIMIT $3`
	rows, err := r.q.Query(ctx, query, entity.ReservationStatusActive, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired reservations: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SumActive suma las cantidades de las reservas ACTIVE de un registro; el valor
// debe igualar reserved_quantity del registro (conservación de reservas).
func (r *ReservationRepo) SumActive(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0) FROM reservations
		WHERE stock_record_id = $1 AND status = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, stockRecordID, entity.ReservationStatusActive).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum active reservations: %w", err)
	}
	return sum, nil
}
