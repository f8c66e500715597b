package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// AdjustStockInput entrada para un ajuste administrativo de stock.
// NewQuantity es la cantidad absoluta autoritativa tras el conteo o corrección;
// el movimiento ADJUSTMENT registra el delta firmado realmente aplicado.
type AdjustStockInput struct {
	CompanyID     string
	UserID        string
	StockRecordID string
	NewQuantity   decimal.Decimal
	Reason        string
	ApprovedBy    string
	Reference     entity.Reference
	// AcknowledgeOverReservation: el llamador reconoce que el ajuste puede dejar
	// quantity < reserved_quantity (sobre-reserva). Sin esto el ajuste se rechaza.
	AcknowledgeOverReservation bool
}

// AdjustStock fija la cantidad de un registro en NewQuantity vía un movimiento
// ADJUSTMENT. Lo usan la UI administrativa y la conciliación de conteos físicos.
func (uc *ApplyMovementUseCase) AdjustStock(ctx context.Context, input AdjustStockInput) (*entity.Movement, error) {
	userID := input.UserID
	if input.ApprovedBy != "" {
		userID = input.ApprovedBy
	}
	reference := input.Reference
	if reference.IsZero() {
		reference = entity.ManualReference(input.Reason)
	}
	return uc.ApplyMovement(ctx, MovementInput{
		CompanyID:                  input.CompanyID,
		UserID:                     userID,
		StockRecordID:              input.StockRecordID,
		Type:                       entity.MovementTypeAdjustment,
		Quantity:                   input.NewQuantity,
		Reason:                     input.Reason,
		Reference:                  reference,
		AcknowledgeOverReservation: input.AcknowledgeOverReservation,
	})
}
