package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// sweepBatchSize reservas vencidas procesadas por pasada del barrido.
const sweepBatchSize = 100

// ExpireOverdue busca reservas ACTIVE con expires_at vencido y las libera como
// EXPIRED (misma semántica que una cancelación: reserved_quantity baja, el stock
// físico no cambia). Cada reserva se procesa en su propia transacción; un
// cumplimiento concurrente que confirme primero gana y el barrido queda en no-op
// para esa reserva. Devuelve cuántas expiró efectivamente.
func (uc *UseCase) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	ids, err := uc.reservations.ListExpiredIDs(ctx, now, sweepBatchSize)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, id := range ids {
		_, err := uc.release(ctx, "", id, entity.ReservationStatusExpired, "")
		if err != nil {
			// Alguien la cumplió o canceló entre el listado y el lock: el barrido
			// pierde esa carrera y sigue con la siguiente.
			if errors.Is(err, domain.ErrConflict) ||
				errors.Is(err, domain.ErrConcurrencyConflict) ||
				errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// Sweeper corre ExpireOverdue periódicamente en segundo plano, fuera de la ruta
// de los requests.
type Sweeper struct {
	uc       *UseCase
	interval time.Duration
	log      *logger.Logger
}

// NewSweeper construye el barrido de expiración.
func NewSweeper(uc *UseCase, interval time.Duration, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{uc: uc, interval: interval, log: log}
}

// Run ejecuta el barrido hasta que el contexto se cancele. Lanzar en goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("barrido de reservas detenido")
			return
		case <-ticker.C:
			expired, err := s.uc.ExpireOverdue(ctx, time.Now())
			if err != nil {
				s.log.Error().Err(err).Msg("barrido de reservas vencidas")
				continue
			}
			if expired > 0 {
				s.log.Info().Int("expiradas", expired).Msg("reservas vencidas liberadas")
			}
		}
	}
}
