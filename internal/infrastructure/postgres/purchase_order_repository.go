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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL del subconjunto de órdenes
// de compra que toca la recepción.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// GetByID obtiene una orden de compra por id.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, company_id, supplier_id, status, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, id).Scan(
		&po.ID, &po.CompanyID, &po.SupplierID, &po.Status, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &po, nil
}

const poItemColumns = `
	id, purchase_order_id, product_id, variant_id,
	ordered_qty, received_qty, rejected_qty, created_at, updated_at`

func (r *PurchaseOrderRepo) scanItem(row pgx.Row) (*entity.PurchaseOrderItem, error) {
	var item entity.PurchaseOrderItem
	err := row.Scan(
		&item.ID, &item.PurchaseOrderID, &item.ProductID, &item.VariantID,
		&item.OrderedQty, &item.ReceivedQty, &item.RejectedQty, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan purchase order item: %w", err)
	}
	return &item, nil
}

// GetItem obtiene una línea por id, sin lock.
func (r *PurchaseOrderRepo) GetItem(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	query := `SELECT ` + poItemColumns + ` FROM purchase_order_items WHERE id = $1`
	return r.scanItem(r.q.QueryRow(ctx, query, itemID))
}

// GetItemForUpdate obtiene la línea bloqueando la fila, para acumular
// received/rejected sin carreras entre recepciones concurrentes.
func (r *PurchaseOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error) {
	query := `SELECT ` + poItemColumns + ` FROM purchase_order_items WHERE id = $1 FOR UPDATE`
	return r.scanItem(r.q.QueryRow(ctx, query, itemID))
}

// ListItems lista las líneas de una orden de compra.
func (r *PurchaseOrderRepo) ListItems(ctx context.Context, purchaseOrderID string) ([]*entity.PurchaseOrderItem, error) {
	query := `SELECT ` + poItemColumns + ` FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderItem
	for rows.Next() {
		var item entity.PurchaseOrderItem
		if err := rows.Scan(
			&item.ID, &item.PurchaseOrderID, &item.ProductID, &item.VariantID,
			&item.OrderedQty, &item.ReceivedQty, &item.RejectedQty, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// UpdateItemReceipt persiste received_qty/rejected_qty de una línea ya bloqueada.
func (r *PurchaseOrderRepo) UpdateItemReceipt(ctx context.Context, item *entity.PurchaseOrderItem) error {
	query := `
		UPDATE purchase_order_items
		SET received_qty = $2, rejected_qty = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.ReceivedQty, item.RejectedQty, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza el estado agregado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, purchaseOrderID, status string) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, purchaseOrderID, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
