package entity

import "time"

// Warehouse bodega o sucursal donde se almacena inventario (dato de referencia).
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
