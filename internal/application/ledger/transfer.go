package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	CompanyID       string
	UserID          string
	ProductID       string
	VariantID       *string
	LotNumber       *string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Reason          string
}

// TransferResult los dos movimientos del traslado (salida en origen, entrada en destino).
type TransferResult struct {
	TransferID string
	Out        *entity.Movement
	In         *entity.Movement
}

// TransferStock resta en la bodega origen (TRANSFER_OUT) y suma en la destino
// (TRANSFER_IN) dentro de una misma transacción, compartiendo la referencia de
// traslado. El registro destino se crea en cero si no existe.
func (uc *ApplyMovementUseCase) TransferStock(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.CompanyID == "" || input.ProductID == "" ||
		input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) || !input.Quantity.IsInteger() {
		return nil, domain.ErrInvalidInput
	}

	transferID := uuid.New().String()
	reference := entity.TransferReference(transferID)
	result := &TransferResult{TransferID: transferID}

	outLeg := MovementInput{
		CompanyID: input.CompanyID,
		UserID:    input.UserID,
		Locator: &entity.StockLocator{
			ProductID:   input.ProductID,
			VariantID:   input.VariantID,
			WarehouseID: input.FromWarehouseID,
			LotNumber:   input.LotNumber,
		},
		Type:      entity.MovementTypeTransferOut,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
		Reference: reference,
	}
	inLeg := MovementInput{
		CompanyID: input.CompanyID,
		UserID:    input.UserID,
		Locator: &entity.StockLocator{
			ProductID:   input.ProductID,
			VariantID:   input.VariantID,
			WarehouseID: input.ToWarehouseID,
			LotNumber:   input.LotNumber,
		},
		Type:      entity.MovementTypeTransferIn,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
		Reference: reference,
	}

	// Las dos filas se bloquean en orden determinista por bodega: traslados
	// opuestos concurrentes (A→B y B→A) toman los locks en el mismo orden y no
	// se interbloquean. Si una pata falla, la transacción revierte ambas.
	legs := [2]MovementInput{outLeg, inLeg}
	if input.ToWarehouseID < input.FromWarehouseID {
		legs[0], legs[1] = legs[1], legs[0]
	}

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		now := time.Now()
		for _, leg := range legs {
			mov, err := applyLocked(ctx, repos, leg, now)
			if err != nil {
				return err
			}
			if leg.Type == entity.MovementTypeTransferOut {
				result.Out = mov
			} else {
				result.In = mov
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
