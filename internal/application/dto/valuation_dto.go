package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentSnapshot copia inmutable de un documento tal como se aplicó, para revertir sus estadísticas.
type DocumentSnapshot struct {
	ID            string                 `json:"id"`
	Date          time.Time              `json:"date" validate:"required"`
	Direction     string                 `json:"direction" validate:"required,oneof=SALE PURCHASE INTERNAL"`
	ValuationOn   bool                   `json:"affects_valuation"`
	ValuationSign *int                   `json:"valuation_sign"`
	Lines         []DocumentLineSnapshot `json:"lines" validate:"dive"`
}

// DocumentLineSnapshot línea del snapshot.
type DocumentLineSnapshot struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// ApplyStatsRequest body opcional de POST /api/valuation/documents/:id/apply.
// Con Previous se revierte primero el snapshot anterior (edición de documento contabilizado).
type ApplyStatsRequest struct {
	Previous *DocumentSnapshot `json:"previous,omitempty"`
}

// StatResponse fila anual de valoración.
type StatResponse struct {
	ProductID            string          `json:"product_id"`
	Year                 int             `json:"year"`
	PurchasedQuantity    decimal.Decimal `json:"purchased_quantity"`
	PurchasedTotalAmount decimal.Decimal `json:"purchased_total_amount"`
	SoldQuantity         decimal.Decimal `json:"sold_quantity"`
	SoldTotalAmount      decimal.Decimal `json:"sold_total_amount"`
	WeightedAverageCost  decimal.Decimal `json:"weighted_average_cost"`
	LastCost             decimal.Decimal `json:"last_cost"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// StatsChangeResponse resultado de apply/revert.
type StatsChangeResponse struct {
	DocumentID string         `json:"document_id,omitempty"`
	Skipped    bool           `json:"skipped"`
	Stats      []StatResponse `json:"stats"`
}

// RecalculateResponse resultado del recálculo anual.
type RecalculateResponse struct {
	Year               int   `json:"year"`
	DocumentsProcessed int   `json:"documents_processed"`
	RowsDeleted        int64 `json:"rows_deleted"`
	RowsWritten        int   `json:"rows_written"`
}
