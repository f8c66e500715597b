package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del mayor de movimientos sobre PostgreSQL.
// Solo INSERT y SELECT: la tabla es append-only, sin UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	id, stock_record_id, type, quantity, quantity_before, quantity_after,
	reason, reference_type, reference_id, occurred_at, created_at, created_by`

// Create persiste una entrada del mayor.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.StockRecordID, movement.Type,
		movement.Quantity, movement.QuantityBefore, movement.QuantityAfter,
		movement.Reason, movement.Reference.Type(), movement.Reference.ID(),
		movement.OccurredAt, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func scanMovement(row interface{ Scan(dest ...any) error }) (*entity.Movement, error) {
	var m entity.Movement
	var refType, refID string
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.StockRecordID, &m.Type,
		&m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
		&m.Reason, &refType, &refID,
		&m.OccurredAt, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if ref, ok := entity.ReferenceFrom(refType, refID); ok {
		m.Reference = ref
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// GetByID obtiene un movimiento por id.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByStockRecord lista el historial de un registro, más reciente primero.
func (r *MovementRepo) ListByStockRecord(ctx context.Context, stockRecordID string, limit, offset int) ([]*entity.Movement, error) {
	return r.List(ctx, repository.MovementFilter{
		StockRecordID: stockRecordID,
		Limit:         limit,
		Offset:        offset,
	})
}

// List lista movimientos según filtros, paginado.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	var args []any
	pos := 1
	add := func(cond string, val any) {
		query += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.CompanyID != "" {
		add("stock_record_id IN (SELECT id FROM stock_records WHERE company_id = $%d)", filter.CompanyID)
	}
	if filter.StockRecordID != "" {
		add("stock_record_id = $%d", filter.StockRecordID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if filter.ReferenceID != "" {
		add("reference_id = $%d", filter.ReferenceID)
	}
	if filter.From != nil {
		add("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("occurred_at <= $%d", *filter.To)
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumDeltas suma los deltas de todos los movimientos de un registro.
// Reproducir el mayor desde cero debe dar exactamente la cantidad actual.
func (r *MovementRepo) SumDeltas(ctx context.Context, stockRecordID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM movements WHERE stock_record_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, stockRecordID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movement deltas: %w", err)
	}
	return sum, nil
}
