package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación de recepciones de mercancía sobre PostgreSQL.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// Create inserta la cabecera de una recepción.
func (r *GoodsReceiptRepo) Create(ctx context.Context, receipt *entity.GoodsReceipt) error {
	query := `
		INSERT INTO goods_receipts (id, company_id, purchase_order_id, warehouse_id, received_at, received_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.q.Exec(ctx, query,
		receipt.ID, receipt.CompanyID, receipt.PurchaseOrderID, receipt.WarehouseID,
		receipt.ReceivedAt, receipt.ReceivedBy, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create goods receipt: %w", err)
	}
	return nil
}

// CreateItem inserta el resultado de una línea de recepción.
func (r *GoodsReceiptRepo) CreateItem(ctx context.Context, item *entity.GoodsReceiptItem) error {
	query := `
		INSERT INTO goods_receipt_items (
			id, goods_receipt_id, purchase_order_item_id, stock_record_id, movement_id,
			received_qty, qc_status, outcome, failure_code,
			lot_number, batch_number, expiry_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.GoodsReceiptID, item.PurchaseOrderItemID, item.StockRecordID, item.MovementID,
		item.ReceivedQty, item.QCStatus, item.Outcome, item.FailureCode,
		item.LotNumber, item.BatchNumber, item.ExpiryDate, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create goods receipt item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una recepción.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	query := `
		SELECT id, company_id, purchase_order_id, warehouse_id, received_at, received_by, created_at
		FROM goods_receipts WHERE id = $1`
	var gr entity.GoodsReceipt
	err := r.q.QueryRow(ctx, query, id).Scan(
		&gr.ID, &gr.CompanyID, &gr.PurchaseOrderID, &gr.WarehouseID,
		&gr.ReceivedAt, &gr.ReceivedBy, &gr.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	return &gr, nil
}

// ListItems lista los resultados por línea de una recepción.
func (r *GoodsReceiptRepo) ListItems(ctx context.Context, receiptID string) ([]*entity.GoodsReceiptItem, error) {
	query := `
		SELECT id, goods_receipt_id, purchase_order_item_id, stock_record_id, movement_id,
		       received_qty, qc_status, outcome, failure_code,
		       lot_number, batch_number, expiry_date, created_at
		FROM goods_receipt_items WHERE goods_receipt_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipt items: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceiptItem
	for rows.Next() {
		var item entity.GoodsReceiptItem
		if err := rows.Scan(
			&item.ID, &item.GoodsReceiptID, &item.PurchaseOrderItemID, &item.StockRecordID, &item.MovementID,
			&item.ReceivedQty, &item.QCStatus, &item.Outcome, &item.FailureCode,
			&item.LotNumber, &item.BatchNumber, &item.ExpiryDate, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan goods receipt item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
