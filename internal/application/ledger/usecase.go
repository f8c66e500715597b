package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ApplyMovementUseCase es el único componente autorizado a mutar un StockRecord.
// Toda mutación bloquea la fila (SELECT FOR UPDATE), valida suficiencia e
// invariantes, y escribe el registro actualizado más la entrada del mayor en una
// sola transacción (Commit o Rollback completos).
type ApplyMovementUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository // lecturas fuera de transacción
	stock     repository.StockRecordRepository
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	stock repository.StockRecordRepository,
) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner, movements: movements, stock: stock}
}

// MovementInput entrada para aplicar un movimiento.
// Se identifica el registro por StockRecordID o por Locator (tupla de negocio).
// Quantity siempre es positiva; el tipo decide el signo. Para ADJUSTMENT,
// Quantity es la cantidad absoluta objetivo (el delta aplicado queda registrado
// en el movimiento).
type MovementInput struct {
	CompanyID     string
	UserID        string
	StockRecordID string
	Locator       *entity.StockLocator
	Type          string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal // entradas RECEIPT: recalcula costo promedio del producto
	Reason        string
	Reference     entity.Reference
	OccurredAt    *time.Time
	// AcknowledgeOverReservation permite que un ajuste deje quantity < reserved_quantity
	// (estado de sobre-reserva reconocido explícitamente por el llamador). Cualquier
	// otra vía que rompa el invariante se rechaza.
	AcknowledgeOverReservation bool
}

func (in *MovementInput) validate() error {
	if in.CompanyID == "" || (in.StockRecordID == "" && in.Locator == nil) {
		return domain.ErrInvalidInput
	}
	if in.Locator != nil && !in.Locator.Valid() {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	// Las cantidades del mayor son unidades enteras; el signo lo pone el tipo.
	if !in.Quantity.IsInteger() {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.MovementTypeAdjustment {
		if in.Quantity.IsNegative() {
			return domain.ErrInvalidInput
		}
	} else if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.AcknowledgeOverReservation && in.Type != entity.MovementTypeAdjustment {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement aplica un movimiento de inventario de forma atómica y devuelve la
// entrada creada en el mayor. Todo o nada: si la validación falla no se escribe
// ni el stock ni el movimiento.
func (uc *ApplyMovementUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		mov, err := applyLocked(ctx, repos, input, time.Now())
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma
// transacción). Lo usa el gestor de reservas para convertir un cumplimiento en
// SHIPMENT de forma atómica con el decremento de reserved_quantity, y el
// adaptador de recepción para la transacción por línea.
func (uc *ApplyMovementUseCase) ApplyInTx(ctx context.Context, repos Repos, input MovementInput, now time.Time) (*entity.Movement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return applyLocked(ctx, repos, input, now)
}

// applyLocked ejecuta la secuencia leer-validar-escribir con la fila ya dentro de
// la transacción del caller. Lo comparten ApplyMovement, el traslado, la recepción
// de mercancía y el cumplimiento de reservas (conversión a SHIPMENT).
func applyLocked(ctx context.Context, repos Repos, input MovementInput, now time.Time) (*entity.Movement, error) {
	record, err := lockRecord(ctx, repos, input)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// Primera recepción: las entradas crean el registro en cero antes de aplicar el delta.
		if !entity.IsInbound(input.Type) {
			return nil, domain.ErrNotFound
		}
		record, err = createEmptyRecord(ctx, repos, input, now)
		if err != nil {
			return nil, err
		}
	}
	// Direccionar por id salta el alcance por empresa del locator; se verifica
	// la propiedad explícitamente antes de tocar el registro.
	if record.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	if record.Retired {
		return nil, domain.ErrRecordRetired
	}

	before := record.Quantity
	var delta decimal.Decimal
	switch {
	case entity.IsInbound(input.Type):
		delta = input.Quantity
	case entity.IsOutbound(input.Type):
		delta = input.Quantity.Neg()
	default: // ADJUSTMENT fija la cantidad absoluta; el delta es lo realmente aplicado
		delta = input.Quantity.Sub(before)
		if delta.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	}

	after := before.Add(delta)
	if after.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	if after.LessThan(record.ReservedQuantity) {
		// Dejar quantity < reserved_quantity solo lo permite un ajuste que reconoce
		// la sobre-reserva; cualquier salida ordinaria se rechaza.
		if input.Type != entity.MovementTypeAdjustment || !input.AcknowledgeOverReservation {
			return nil, domain.ErrInvariantViolation
		}
	}

	record.Quantity = after
	record.UpdatedAt = now
	if !record.CheckInvariants() && !input.AcknowledgeOverReservation {
		return nil, domain.ErrInvariantViolation
	}
	if err := repos.Stock.UpdateQuantities(ctx, record); err != nil {
		return nil, err
	}

	// En recepciones con costo unitario se mantiene el costo promedio ponderado
	// del producto dentro de la misma transacción.
	if input.Type == entity.MovementTypeReceipt && input.UnitCost != nil {
		product, err := repos.Products.GetByID(ctx, record.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			newCost := inventory.WeightedAverageCost(before, product.Cost, input.Quantity, *input.UnitCost)
			if err := repos.Products.UpdateCost(ctx, product.ID, newCost); err != nil {
				return nil, err
			}
		}
	}

	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}
	mov := &entity.Movement{
		ID:             uuid.New().String(),
		StockRecordID:  record.ID,
		Type:           input.Type,
		Quantity:       delta,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reason:         input.Reason,
		Reference:      input.Reference,
		OccurredAt:     occurredAt,
		CreatedAt:      now,
		CreatedBy:      input.UserID,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func lockRecord(ctx context.Context, repos Repos, input MovementInput) (*entity.StockRecord, error) {
	if input.StockRecordID != "" {
		return repos.Stock.GetForUpdate(ctx, input.StockRecordID)
	}
	return repos.Stock.GetByLocatorForUpdate(ctx, input.CompanyID, *input.Locator)
}

func createEmptyRecord(ctx context.Context, repos Repos, input MovementInput, now time.Time) (*entity.StockRecord, error) {
	if input.Locator == nil {
		// Con solo un id no hay tupla de negocio con la cual crear el registro.
		return nil, domain.ErrNotFound
	}
	record := &entity.StockRecord{
		ID:               uuid.New().String(),
		CompanyID:        input.CompanyID,
		ProductID:        input.Locator.ProductID,
		VariantID:        input.Locator.VariantID,
		WarehouseID:      input.Locator.WarehouseID,
		LotNumber:        input.Locator.LotNumber,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
		Status:           entity.StockStatusAvailable,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repos.Stock.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
