package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/inventory"
)

func TestWeightedAverageCost_PromedioPonderado(t *testing.T) {
	// (10*100 + 10*130) / 20 = 115
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(130),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(115)), "esperado 115, obtenido %s", got)
}

func TestWeightedAverageCost_StockPrevioEnCero(t *testing.T) {
	// Sin stock previo el promedio es el costo de la entrada.
	got := inventory.WeightedAverageCost(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(5), decimal.NewFromInt(42),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(42)))
}

func TestWeightedAverageCost_SumaCeroDevuelveCero(t *testing.T) {
	got := inventory.WeightedAverageCost(
		decimal.Zero, decimal.NewFromInt(100),
		decimal.Zero, decimal.NewFromInt(130),
	)
	assert.True(t, got.IsZero(), "sin unidades no hay promedio que calcular")
}

func TestWeightedAverageCost_PonderaPorCantidad(t *testing.T) {
	// (90*10 + 10*20) / 100 = 11: la entrada pequeña mueve poco el promedio.
	got := inventory.WeightedAverageCost(
		decimal.NewFromInt(90), decimal.NewFromInt(10),
		decimal.NewFromInt(10), decimal.NewFromInt(20),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(11)), "esperado 11, obtenido %s", got)
}
