package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de lectura de productos sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por id.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, cost, price,
		       reorder_point, min_stock, reorder_quantity, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Cost, &p.Price,
		&p.ReorderPoint, &p.MinStock, &p.ReorderQuantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// UpdateCost actualiza el costo promedio ponderado del producto.
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBelowReorder devuelve los productos de la empresa con umbral definido cuyo
// stock actual es <= su punto de reorden. Los registros en cuarentena, dañados,
// vencidos o retirados no cuentan como stock. warehouseID vacío agrega todas las
// bodegas. Ordena por déficit descendente (mayor quiebre primero).
func (r *ProductRepo) ListBelowReorder(ctx context.Context, companyID, warehouseID string) ([]repository.LowStockItem, error) {
	var (
		query string
		args  []any
	)
	if warehouseID != "" {
		query = `
			SELECT
				p.id, p.sku, p.name, $2::text AS warehouse_id,
				COALESCE(SUM(s.quantity), 0) AS current_stock,
				p.reorder_point, p.min_stock, p.reorder_quantity, p.cost
			FROM products p
			LEFT JOIN stock_records s ON s.product_id = p.id
				AND s.warehouse_id = $2
				AND s.status IN ('AVAILABLE', 'RESERVED')
				AND NOT s.retired
			WHERE p.company_id = $1
			  AND p.reorder_point IS NOT NULL
			GROUP BY p.id, p.sku, p.name, p.reorder_point, p.min_stock, p.reorder_quantity, p.cost
			HAVING COALESCE(SUM(s.quantity), 0) <= p.reorder_point
			ORDER BY (p.reorder_point - COALESCE(SUM(s.quantity), 0)) DESC`
		args = []any{companyID, warehouseID}
	} else {
		query = `
			SELECT
				p.id, p.sku, p.name, '' AS warehouse_id,
				COALESCE(SUM(s.quantity), 0) AS current_stock,
				p.reorder_point, p.min_stock, p.reorder_quantity, p.cost
			FROM products p
			LEFT JOIN stock_records s ON s.product_id = p.id
				AND s.status IN ('AVAILABLE', 'RESERVED')
				AND NOT s.retired
			WHERE p.company_id = $1
			  AND p.reorder_point IS NOT NULL
			GROUP BY p.id, p.sku, p.name, p.reorder_point, p.min_stock, p.reorder_quantity, p.cost
			HAVING COALESCE(SUM(s.quantity), 0) <= p.reorder_point
			ORDER BY (p.reorder_point - COALESCE(SUM(s.quantity), 0)) DESC`
		args = []any{companyID}
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products below reorder: %w", err)
	}
	defer rows.Close()

	var items []repository.LowStockItem
	for rows.Next() {
		var item repository.LowStockItem
		if err := rows.Scan(
			&item.ProductID, &item.SKU, &item.ProductName, &item.WarehouseID,
			&item.CurrentStock, &item.ReorderPoint, &item.MinStock, &item.ReorderQuantity, &item.UnitCost,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
