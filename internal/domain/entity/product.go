package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto o SKU (dato de referencia: este core no lo administra,
// solo lee umbrales de reorden y costo, y mantiene el costo promedio en recepciones).
// ReorderPoint/MinStock/ReorderQuantity son nullable: sin umbral, el producto
// queda fuera del análisis de reorden.
type Product struct {
	ID              string
	CompanyID       string
	SKU             string
	Name            string
	Cost            decimal.Decimal // costo promedio ponderado
	Price           decimal.Decimal
	ReorderPoint    *decimal.Decimal
	MinStock        *decimal.Decimal
	ReorderQuantity *decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProductSupplier vínculo producto-proveedor para resolver el proveedor
// preferido en las sugerencias de reposición.
type ProductSupplier struct {
	ProductID    string
	SupplierID   string
	SupplierName string
	Preferred    bool
	LeadTimeDays int
	LastCost     decimal.Decimal
}
