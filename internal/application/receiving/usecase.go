package receiving

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// UseCase traduce la recepción de una orden de compra (con bifurcación por QC)
// en llamadas al aplicador de movimientos.
//
// Política de fallos: CADA LÍNEA SE CONFIRMA EN SU PROPIA TRANSACCIÓN. La
// recepción física es una secuencia de conteos discretos; una línea fallida no
// revierte las anteriores y el resultado se reporta línea por línea, nunca se
// absorbe en un éxito global.
type UseCase struct {
	txRunner ledger.TxRunner
	applier  *ledger.ApplyMovementUseCase
}

// NewUseCase construye el adaptador de recepción.
func NewUseCase(txRunner ledger.TxRunner, applier *ledger.ApplyMovementUseCase) *UseCase {
	return &UseCase{txRunner: txRunner, applier: applier}
}

// ReceiptItemInput una línea contada en el muelle de recepción.
type ReceiptItemInput struct {
	PurchaseOrderItemID string
	ReceivedQty         decimal.Decimal
	QCStatus            string // PASSED | FAILED
	UnitCost            *decimal.Decimal
	VariantID           *string
	LotNumber           *string
	BatchNumber         *string
	ExpiryDate          *time.Time
}

// ReceiveGoodsInput entrada para registrar una recepción completa.
type ReceiveGoodsInput struct {
	CompanyID       string
	UserID          string
	PurchaseOrderID string
	WarehouseID     string
	Items           []ReceiptItemInput
}

// ReceiveGoodsResult cabecera creada más el resultado por línea.
type ReceiveGoodsResult struct {
	Receipt *entity.GoodsReceipt
	Items   []*entity.GoodsReceiptItem
}

// ReceiveGoods procesa una recepción de mercancía.
// QC PASSED: ubica o crea el StockRecord por (producto, variante, bodega, lote)
// y aplica RECEIPT. QC FAILED: registra el rechazo contra la línea de la OC sin
// movimiento alguno; opcionalmente se crea un registro QUARANTINE para rastreo
// físico, que jamás aporta disponible a reservas.
func (uc *UseCase) ReceiveGoods(ctx context.Context, input ReceiveGoodsInput) (*ReceiveGoodsResult, error) {
	if input.CompanyID == "" || input.PurchaseOrderID == "" || input.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	receipt := &entity.GoodsReceipt{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		PurchaseOrderID: input.PurchaseOrderID,
		WarehouseID:     input.WarehouseID,
		ReceivedAt:      now,
		ReceivedBy:      input.UserID,
		CreatedAt:       now,
	}

	// La cabecera y la validación de la OC van en una primera transacción corta.
	err := uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, input.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.CompanyID != input.CompanyID {
			return domain.ErrForbidden
		}
		return repos.Receipts.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	result := &ReceiveGoodsResult{Receipt: receipt}
	for _, item := range input.Items {
		result.Items = append(result.Items, uc.receiveItem(ctx, receipt, input, item))
	}
	return result, nil
}

// receiveItem procesa una línea en su propia transacción. Los errores de negocio
// quedan en el resultado (Outcome FAILED + código); solo los devuelve al caller
// el fallo de la propia persistencia del resultado.
func (uc *UseCase) receiveItem(ctx context.Context, receipt *entity.GoodsReceipt, input ReceiveGoodsInput, item ReceiptItemInput) *entity.GoodsReceiptItem {
	now := time.Now()
	resultItem := &entity.GoodsReceiptItem{
		ID:                  uuid.New().String(),
		GoodsReceiptID:      receipt.ID,
		PurchaseOrderItemID: item.PurchaseOrderItemID,
		ReceivedQty:         item.ReceivedQty,
		QCStatus:            item.QCStatus,
		LotNumber:           item.LotNumber,
		BatchNumber:         item.BatchNumber,
		ExpiryDate:          item.ExpiryDate,
		CreatedAt:           now,
	}

	err := uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		if item.QCStatus != entity.QCStatusPassed && item.QCStatus != entity.QCStatusFailed {
			return domain.ErrInvalidInput
		}
		if !item.ReceivedQty.GreaterThan(decimal.Zero) || !item.ReceivedQty.IsInteger() {
			return domain.ErrInvalidInput
		}

		poItem, err := repos.PurchaseOrders.GetItemForUpdate(ctx, item.PurchaseOrderItemID)
		if err != nil {
			return err
		}
		if poItem == nil || poItem.PurchaseOrderID != receipt.PurchaseOrderID {
			return domain.ErrNotFound
		}

		if item.QCStatus == entity.QCStatusPassed {
			mov, err := uc.applier.ApplyInTx(ctx, repos, ledger.MovementInput{
				CompanyID: input.CompanyID,
				UserID:    input.UserID,
				Locator: &entity.StockLocator{
					ProductID:   poItem.ProductID,
					VariantID:   firstNonNil(item.VariantID, poItem.VariantID),
					WarehouseID: input.WarehouseID,
					LotNumber:   item.LotNumber,
				},
				Type:      entity.MovementTypeReceipt,
				Quantity:  item.ReceivedQty,
				UnitCost:  item.UnitCost,
				Reason:    "recepción de orden de compra",
				Reference: entity.PurchaseOrderReference(receipt.PurchaseOrderID),
			}, now)
			if err != nil {
				return err
			}
			resultItem.MovementID = &mov.ID
			resultItem.StockRecordID = &mov.StockRecordID
			resultItem.Outcome = entity.ReceiptItemApplied
			poItem.ReceivedQty = poItem.ReceivedQty.Add(item.ReceivedQty)
		} else {
			// Rechazado por QC: nunca entra al stock disponible. Se deja un registro
			// QUARANTINE separado para el rastreo físico de las unidades retenidas.
			quarantineID, err := uc.trackQuarantine(ctx, repos, input, poItem, item, now)
			if err != nil {
				return err
			}
			resultItem.StockRecordID = quarantineID
			resultItem.Outcome = entity.ReceiptItemRejected
			poItem.RejectedQty = poItem.RejectedQty.Add(item.ReceivedQty)
		}

		poItem.UpdatedAt = now
		if err := repos.PurchaseOrders.UpdateItemReceipt(ctx, poItem); err != nil {
			return err
		}
		return uc.rollUpStatus(ctx, repos, receipt.PurchaseOrderID)
	})
	if err != nil {
		resultItem.Outcome = entity.ReceiptItemFailed
		resultItem.FailureCode = failureCode(err)
	}

	// El resultado de la línea se persiste aparte: debe quedar rastro aunque la
	// línea misma haya fallado. Si el propio rastro no se pudo escribir, el
	// resultado devuelto lo reporta (el efecto de negocio de la línea ya quedó
	// confirmado en su transacción); jamás se absorbe en silencio.
	if perr := uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		return repos.Receipts.CreateItem(ctx, resultItem)
	}); perr != nil {
		resultItem.FailureCode = "PERSISTENCE"
	}
	return resultItem
}

// trackQuarantine crea (si no existe) el registro QUARANTINE del lote rechazado y
// le suma las unidades retenidas. Reservable() lo excluye de cualquier reserva.
func (uc *UseCase) trackQuarantine(ctx context.Context, repos ledger.Repos, input ReceiveGoodsInput, poItem *entity.PurchaseOrderItem, item ReceiptItemInput, now time.Time) (*string, error) {
	locator := entity.StockLocator{
		ProductID:   poItem.ProductID,
		VariantID:   firstNonNil(item.VariantID, poItem.VariantID),
		WarehouseID: input.WarehouseID,
		LotNumber:   item.LotNumber,
	}
	record, err := repos.Stock.GetByLocatorForUpdate(ctx, input.CompanyID, locator)
	if err != nil {
		return nil, err
	}
	if record != nil && record.Status != entity.StockStatusQuarantine {
		// El lote ya existe como stock vendible: no se mezcla mercancía rechazada
		// dentro de un registro reservable. Queda solo el rechazo contra la OC.
		return nil, nil
	}
	if record == nil {
		record = &entity.StockRecord{
			ID:               uuid.New().String(),
			CompanyID:        input.CompanyID,
			ProductID:        locator.ProductID,
			VariantID:        locator.VariantID,
			WarehouseID:      locator.WarehouseID,
			LotNumber:        locator.LotNumber,
			Quantity:         decimal.Zero,
			ReservedQuantity: decimal.Zero,
			Status:           entity.StockStatusQuarantine,
			BatchNumber:      item.BatchNumber,
			ExpiryDate:       item.ExpiryDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := repos.Stock.Create(ctx, record); err != nil {
			return nil, err
		}
	}
	record.Quantity = record.Quantity.Add(item.ReceivedQty)
	record.UpdatedAt = now
	if err := repos.Stock.UpdateQuantities(ctx, record); err != nil {
		return nil, err
	}
	return &record.ID, nil
}

// rollUpStatus recalcula el estado de la OC según sus líneas.
func (uc *UseCase) rollUpStatus(ctx context.Context, repos ledger.Repos, purchaseOrderID string) error {
	items, err := repos.PurchaseOrders.ListItems(ctx, purchaseOrderID)
	if err != nil {
		return err
	}
	allSatisfied := true
	anyProgress := false
	for _, it := range items {
		if it.Satisfied() {
			anyProgress = true
			continue
		}
		allSatisfied = false
		if it.ReceivedQty.GreaterThan(decimal.Zero) || it.RejectedQty.GreaterThan(decimal.Zero) {
			anyProgress = true
		}
	}
	status := entity.PurchaseOrderStatusPending
	switch {
	case allSatisfied:
		status = entity.PurchaseOrderStatusReceived
	case anyProgress:
		status = entity.PurchaseOrderStatusPartiallyReceived
	}
	return repos.PurchaseOrders.UpdateStatus(ctx, purchaseOrderID, status)
}

func failureCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "INVARIANT"
	default:
		return "INTERNAL"
	}
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
