package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Stock          repository.StockRecordRepository
	Movements      repository.MovementRepository
	Reservations   repository.ReservationRepository
	Products       repository.ProductRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Receipts       repository.GoodsReceiptRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza que la secuencia leer-validar-escribir sobre un
// StockRecord (bloqueado con SELECT FOR UPDATE) y la inserción en el mayor de
// movimientos sean una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}
