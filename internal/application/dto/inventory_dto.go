package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/movements (movimiento manual).
// Quantity lleva signo: positivo = entrada, negativo = salida. Kind vacío = ADJUSTMENT_IN/OUT según el signo.
type RecordMovementRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Kind        string          `json:"kind,omitempty"`
	Reference   string          `json:"reference,omitempty" validate:"max=120"`
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	WarehouseID          string          `json:"warehouse_id"`
	Quantity             decimal.Decimal `json:"quantity"`
	Kind                 string          `json:"kind"`
	SourceDocumentID     string          `json:"source_document_id,omitempty"`
	SourceDocumentNumber string          `json:"source_document_number,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	CreatedBy            string          `json:"created_by,omitempty"`
}

// StockResponse existencia calculada sumando movimientos.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MovementListQuery filtros de GET /api/inventory/products/:productID/movements.
type MovementListQuery struct {
	PageRequest
	WarehouseID string     `query:"warehouse_id"`
	From        *time.Time `query:"-"`
	To          *time.Time `query:"-"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
