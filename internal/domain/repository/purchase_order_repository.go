package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto sobre órdenes de compra (solo lo que toca la recepción).
type PurchaseOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetItem(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error)
	// GetItemForUpdate bloquea la línea para acumular received/rejected sin carreras.
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.PurchaseOrderItem, error)
	ListItems(ctx context.Context, purchaseOrderID string) ([]*entity.PurchaseOrderItem, error)
	UpdateItemReceipt(ctx context.Context, item *entity.PurchaseOrderItem) error
	UpdateStatus(ctx context.Context, purchaseOrderID, status string) error
}
