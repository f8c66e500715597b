package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ListMovements devuelve el historial de movimientos según filtros, paginado.
// Lectura pura fuera de transacción (el mayor es append-only). El filtro por
// empresa es obligatorio: el historial jamás cruza inquilinos.
func (uc *ApplyMovementUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movements.List(ctx, filter)
}

// GetStockRecord devuelve un registro de stock por id (lectura, sin lock).
// Un registro de otra empresa es ErrForbidden, nunca se devuelve.
func (uc *ApplyMovementUseCase) GetStockRecord(ctx context.Context, companyID, id string) (*entity.StockRecord, error) {
	record, err := uc.stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if record.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

// GetStockRecordByLocator devuelve un registro por su tupla de negocio.
func (uc *ApplyMovementUseCase) GetStockRecordByLocator(ctx context.Context, companyID string, locator entity.StockLocator) (*entity.StockRecord, error) {
	if !locator.Valid() {
		return nil, domain.ErrInvalidInput
	}
	record, err := uc.stock.GetByLocator(ctx, companyID, locator)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}
