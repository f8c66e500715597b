package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el costo promedio ponderado tras una entrada
// (servicio de dominio, se aplica en recepciones dentro de la misma transacción).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(currentStock, currentCost, inboundQty, inboundCost decimal.Decimal) decimal.Decimal {
	sum := currentStock.Add(inboundQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentStock.Mul(currentCost).Add(inboundQty.Mul(inboundCost))
	return num.Div(sum)
}
