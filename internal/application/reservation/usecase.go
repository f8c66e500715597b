package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Resultados posibles al liberar una reserva.
const (
	OutcomeCancelled = entity.ReservationStatusCancelled
	OutcomeFulfilled = entity.ReservationStatusFulfilled
)

// UseCase gestiona las retenciones temporales de stock disponible.
// Reservar no mueve stock físico (no crea movimiento); solo el cumplimiento
// (FULFILLED) convierte la reserva en un SHIPMENT, en la misma transacción.
type UseCase struct {
	txRunner     ledger.TxRunner
	applier      *ledger.ApplyMovementUseCase
	reservations repository.ReservationRepository // lecturas fuera de transacción
	stock        repository.StockRecordRepository // idem; resuelve la empresa dueña
}

// NewUseCase construye el gestor de reservas.
func NewUseCase(
	txRunner ledger.TxRunner,
	applier *ledger.ApplyMovementUseCase,
	reservations repository.ReservationRepository,
	stock repository.StockRecordRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, applier: applier, reservations: reservations, stock: stock}
}

// ReserveInput entrada para crear una reserva.
type ReserveInput struct {
	CompanyID     string
	UserID        string
	StockRecordID string
	Quantity      decimal.Decimal
	ReservedFor   string // ORDER | TRANSFER | OTHER
	ReferenceID   string
	ExpiresAt     *time.Time
}

// Reserve retiene stock disponible contra una orden o traslado en curso.
// Bloquea la fila del StockRecord, verifica disponible >= solicitado e inserta la
// reserva ACTIVE incrementando reserved_quantity, todo en una transacción. Bajo
// esta disciplina N reservas concurrentes nunca sobre-comprometen el disponible.
func (uc *UseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.Reservation, error) {
	if input.CompanyID == "" || input.StockRecordID == "" || input.ReferenceID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidReservedFor(input.ReservedFor) {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) || !input.Quantity.IsInteger() {
		return nil, domain.ErrInvalidInput
	}

	var created *entity.Reservation
	err := uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		record, err := repos.Stock.GetForUpdate(ctx, input.StockRecordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}
		if record.CompanyID != input.CompanyID {
			return domain.ErrForbidden
		}
		if !record.Reservable() {
			// Cuarentena, dañado, vencido o retirado: jamás aporta disponible.
			return domain.ErrInsufficientAvailable
		}
		if record.Available().LessThan(input.Quantity) {
			return domain.ErrInsufficientAvailable
		}

		now := time.Now()
		record.ReservedQuantity = record.ReservedQuantity.Add(input.Quantity)
		record.UpdatedAt = now
		if !record.CheckInvariants() {
			return domain.ErrInvariantViolation
		}
		if err := repos.Stock.UpdateQuantities(ctx, record); err != nil {
			return err
		}

		reservation := &entity.Reservation{
			ID:            uuid.New().String(),
			StockRecordID: record.ID,
			Quantity:      input.Quantity,
			ReservedFor:   input.ReservedFor,
			ReferenceID:   input.ReferenceID,
			Status:        entity.ReservationStatusActive,
			ExpiresAt:     input.ExpiresAt,
			CreatedAt:     now,
			CreatedBy:     input.UserID,
		}
		if err := repos.Reservations.Create(ctx, reservation); err != nil {
			return err
		}
		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReleaseInput entrada para liberar una reserva. CompanyID es la empresa del
// llamador: liberar reservas sobre stock ajeno es ErrForbidden. El barrido de
// expiración actúa como sistema y no lleva empresa.
type ReleaseInput struct {
	CompanyID     string
	ReservationID string
	Outcome       string // CANCELLED | FULFILLED
	ReleasedBy    string
}

// Release libera una reserva.
//   - CANCELLED: decrementa reserved_quantity; el stock físico no cambia, no hay movimiento.
//   - FULFILLED: decrementa reserved_quantity Y aplica un SHIPMENT por la misma
//     cantidad contra el mismo registro, en la misma transacción. Es la única vía
//     por la que una reserva se convierte en reducción de on-hand.
//
// Idempotente: liberar una reserva ya liberada con el mismo resultado es no-op.
// Liberar con un resultado distinto al ya aplicado es ErrConflict.
func (uc *UseCase) Release(ctx context.Context, input ReleaseInput) (*entity.Reservation, error) {
	if input.CompanyID == "" || input.ReservationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Outcome != OutcomeCancelled && input.Outcome != OutcomeFulfilled {
		return nil, domain.ErrInvalidInput
	}
	return uc.release(ctx, input.CompanyID, input.ReservationID, input.Outcome, input.ReleasedBy)
}

// release implementa la transición ACTIVE -> toStatus. Orden de bloqueo fijo para
// evitar deadlocks: primero la fila del StockRecord, después el CAS sobre el
// estado de la reserva. El CAS decide las carreras (cumplimiento vs expiración):
// quien confirma primero gana y el perdedor termina en no-op.
// companyID vacío es el barrido (actor de sistema); cualquier otro valor debe
// coincidir con la empresa dueña del registro de stock.
func (uc *UseCase) release(ctx context.Context, companyID, reservationID, toStatus, releasedBy string) (*entity.Reservation, error) {
	var result *entity.Reservation
	err := uc.txRunner.Run(ctx, func(repos ledger.Repos) error {
		reservation, err := repos.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if reservation == nil {
			return domain.ErrNotFound
		}
		if companyID != "" {
			owner, err := repos.Stock.GetByID(ctx, reservation.StockRecordID)
			if err != nil {
				return err
			}
			if owner == nil {
				return domain.ErrNotFound
			}
			if owner.CompanyID != companyID {
				return domain.ErrForbidden
			}
		}
		if !reservation.IsActive() {
			if reservation.Status == toStatus {
				// Ya liberada con el mismo resultado: no-op, no es error.
				result = reservation
				return nil
			}
			return domain.ErrConflict
		}

		record, err := repos.Stock.GetForUpdate(ctx, reservation.StockRecordID)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := repos.Reservations.ReleaseIfActive(ctx, reservation.ID, toStatus, releasedBy, now)
		if err != nil {
			return err
		}
		if !ok {
			// Otro actor liberó primero bajo el mismo lock de fila; releer y decidir.
			current, err := repos.Reservations.GetByID(ctx, reservation.ID)
			if err != nil {
				return err
			}
			if current != nil && current.Status == toStatus {
				result = current
				return nil
			}
			return domain.ErrConcurrencyConflict
		}

		record.ReservedQuantity = record.ReservedQuantity.Sub(reservation.Quantity)
		record.UpdatedAt = now
		if !record.CheckInvariants() {
			return domain.ErrInvariantViolation
		}
		if err := repos.Stock.UpdateQuantities(ctx, record); err != nil {
			return err
		}

		if toStatus == OutcomeFulfilled {
			_, err := uc.applier.ApplyInTx(ctx, repos, ledger.MovementInput{
				CompanyID:     record.CompanyID,
				UserID:        releasedBy,
				StockRecordID: record.ID,
				Type:          entity.MovementTypeShipment,
				Quantity:      reservation.Quantity,
				Reason:        "cumplimiento de reserva",
				Reference:     referenceFor(reservation),
			}, now)
			if err != nil {
				return err
			}
		}

		reservation.Status = toStatus
		reservation.ReleasedAt = &now
		if releasedBy != "" {
			reservation.ReleasedBy = &releasedBy
		}
		result = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID devuelve una reserva (lectura, sin lock). La propiedad se resuelve por
// el registro de stock reservado: una reserva ajena es ErrForbidden.
func (uc *UseCase) GetByID(ctx context.Context, companyID, id string) (*entity.Reservation, error) {
	reservation, err := uc.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, domain.ErrNotFound
	}
	owner, err := uc.stock.GetByID(ctx, reservation.StockRecordID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrNotFound
	}
	if owner.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return reservation, nil
}

func referenceFor(reservation *entity.Reservation) entity.Reference {
	switch reservation.ReservedFor {
	case entity.ReservedForOrder:
		return entity.OrderReference(reservation.ReferenceID)
	case entity.ReservedForTransfer:
		return entity.TransferReference(reservation.ReferenceID)
	}
	return entity.ManualReference(reservation.ReferenceID)
}
