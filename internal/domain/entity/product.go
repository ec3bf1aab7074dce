package entity

import "time"

// Product producto de catálogo (lado lectura: la gestión del maestro es externa).
// StockManaged viene de la clasificación del producto; DefaultWarehouseID es opcional.
type Product struct {
	ID                 string
	OrganizationID     string
	SKU                string
	Name               string
	StockManaged       bool
	DefaultWarehouseID string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
