package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/apptest"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Barrido de reservas vencidas
// ──────────────────────────────────────────────────────────────────────────────

// El barrido expira solo las reservas ACTIVE vencidas; las vigentes y las sin
// expiración quedan intactas. La expiración devuelve el disponible sin tocar el
// stock físico (semántica de cancelación, estado EXPIRED).
func TestExpireOverdue_SoloVencidas(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 20, 0, entity.StockStatusAvailable)
	uc := buildUseCase(store)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	vencida := reserveInput(3)
	vencida.ExpiresAt = &past
	resVencida, err := uc.Reserve(ctx, vencida)
	require.NoError(t, err)

	vigente := reserveInput(5)
	vigente.ExpiresAt = &future
	resVigente, err := uc.Reserve(ctx, vigente)
	require.NoError(t, err)

	sinExpiracion := reserveInput(2)
	resSinExp, err := uc.Reserve(ctx, sinExpiracion)
	require.NoError(t, err)

	expired, err := uc.ExpireOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, entity.ReservationStatusExpired, store.Reservation(resVencida.ID).Status)
	assert.Equal(t, entity.ReservationStatusActive, store.Reservation(resVigente.ID).Status)
	assert.Equal(t, entity.ReservationStatusActive, store.Reservation(resSinExp.ID).Status)

	record := store.Stock(testRecordID)
	assert.True(t, record.Quantity.Equal(qty(20)), "expirar no mueve stock físico")
	assert.True(t, record.ReservedQuantity.Equal(qty(7)), "solo quedan retenidas las vigentes (5+2)")
	assert.Empty(t, store.Movements(), "la expiración no escribe en el mayor")
}

// Sin reservas vencidas el barrido es no-op.
func TestExpireOverdue_SinVencidasEsNoOp(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 20, 0, entity.StockStatusAvailable)
	uc := buildUseCase(store)

	expired, err := uc.ExpireOverdue(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

// Una pasada del barrido expira todas las vencidas del lote.
func TestExpireOverdue_ExpiraTodasLasVencidas(t *testing.T) {
	store := apptest.NewStore()
	seedRecord(store, 50, 0, entity.StockStatusAvailable)
	uc := buildUseCase(store)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		in := reserveInput(1)
		in.ExpiresAt = &past
		_, err := uc.Reserve(ctx, in)
		require.NoError(t, err)
	}

	expired, err := uc.ExpireOverdue(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 5, expired)
	assert.True(t, store.Stock(testRecordID).ReservedQuantity.IsZero())
}
