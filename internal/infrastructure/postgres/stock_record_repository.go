package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const stockRecordColumns = `
	id, company_id, product_id, variant_id, warehouse_id, lot_number,
	quantity, reserved_quantity, status,
	zone, aisle, shelf, bin, batch_number, expiry_date,
	retired, created_at, updated_at`

func (r *StockRecordRepo) scanOne(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.ProductID, &s.VariantID, &s.WarehouseID, &s.LotNumber,
		&s.Quantity, &s.ReservedQuantity, &s.Status,
		&s.Location.Zone, &s.Location.Aisle, &s.Location.Shelf, &s.Location.Bin,
		&s.BatchNumber, &s.ExpiryDate,
		&s.Retired, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock record: %w", err)
	}
	return &s, nil
}

// GetByID obtiene un registro de stock por id, sin lock.
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + stockRecordColumns + ` FROM stock_records WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByLocator obtiene el registro por su tupla de negocio, sin lock.
// variant_id y lot_number nulos se comparan con IS NOT DISTINCT FROM.
func (r *StockRecordRepo) GetByLocator(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND variant_id IS NOT DISTINCT FROM $4
		  AND lot_number IS NOT DISTINCT FROM $5`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, locator.ProductID, locator.WarehouseID, locator.VariantID, locator.LotNumber))
}

// GetByLocatorForUpdate igual que GetByLocator pero bloqueando la fila.
func (r *StockRecordRepo) GetByLocatorForUpdate(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND variant_id IS NOT DISTINCT FROM $4
		  AND lot_number IS NOT DISTINCT FROM $5
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, locator.ProductID, locator.WarehouseID, locator.VariantID, locator.LotNumber))
}

// Create inserta un registro nuevo. La clave única (company, producto, variante,
// bodega, lote) rechaza duplicados de la misma tupla.
func (r *StockRecordRepo) Create(ctx context.Context, record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (
			id, company_id, product_id, variant_id, warehouse_id, lot_number,
			quantity, reserved_quantity, status,
			zone, aisle, shelf, bin, batch_number, expiry_date,
			retired, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`
	_, err := r.q.Exec(ctx, query,
		record.ID, record.CompanyID, record.ProductID, record.VariantID, record.WarehouseID, record.LotNumber,
		record.Quantity, record.ReservedQuantity, record.Status,
		record.Location.Zone, record.Location.Aisle, record.Location.Shelf, record.Location.Bin,
		record.BatchNumber, record.ExpiryDate,
		record.Retired, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateQuantities persiste quantity/reserved_quantity/status de un registro ya
// bloqueado por la transacción actual. El disponible nunca se persiste: se deriva.
func (r *StockRecordRepo) UpdateQuantities(ctx context.Context, record *entity.StockRecord) error {
	query := `
		UPDATE stock_records
		SET quantity = $2, reserved_quantity = $3, status = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		record.ID, record.Quantity, record.ReservedQuantity, record.Status, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Retire marca el registro como retirado (soft-retire). Nunca hay DELETE:
// los movimientos del mayor siguen referenciándolo.
func (r *StockRecordRepo) Retire(ctx context.Context, id string) error {
	query := `UPDATE stock_records SET retired = true, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("retire stock record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByWarehouse lista los registros de una bodega, paginado.
func (r *StockRecordRepo) ListByWarehouse(ctx context.Context, companyID, warehouseID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockRecordColumns + `
		FROM stock_records
		WHERE company_id = $1 AND warehouse_id = $2
		ORDER BY updated_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, companyID, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.ProductID, &s.VariantID, &s.WarehouseID, &s.LotNumber,
			&s.Quantity, &s.ReservedQuantity, &s.Status,
			&s.Location.Zone, &s.Location.Aisle, &s.Location.Shelf, &s.Location.Bin,
			&s.BatchNumber, &s.ExpiryDate,
			&s.Retired, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
