package entity

import "time"

// Warehouse magazzino donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}
