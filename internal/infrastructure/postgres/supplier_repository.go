package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de vínculos producto-proveedor sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetPreferred devuelve el proveedor preferido del producto, o el de menor costo
// reciente si ninguno está marcado como preferido. Nil si no hay vínculo.
func (r *SupplierRepo) GetPreferred(ctx context.Context, productID string) (*entity.ProductSupplier, error) {
	query := `
		SELECT ps.product_id, ps.supplier_id, s.name, ps.preferred, ps.lead_time_days, ps.last_cost
		FROM product_suppliers ps
		JOIN suppliers s ON s.id = ps.supplier_id
		WHERE ps.product_id = $1
		ORDER BY ps.preferred DESC, ps.last_cost ASC
		LIMIT 1`
	var link entity.ProductSupplier
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&link.ProductID, &link.SupplierID, &link.SupplierName,
		&link.Preferred, &link.LeadTimeDays, &link.LastCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get preferred supplier: %w", err)
	}
	return &link, nil
}
