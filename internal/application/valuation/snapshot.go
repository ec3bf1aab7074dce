package valuation

import (
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// SnapshotToDocument convierte el snapshot recibido en un documento del dominio.
// La organización siempre es la del actor: un snapshot no puede tocar filas de otro tenant.
func SnapshotToDocument(organizationID string, s *dto.DocumentSnapshot) (*entity.Document, error) {
	if s.Date.IsZero() {
		return nil, domain.Invalid("date", "es obligatoria")
	}
	switch s.Direction {
	case entity.DirectionSale, entity.DirectionPurchase, entity.DirectionInternal:
	default:
		return nil, domain.Invalid("direction", "valor no admitido %q", s.Direction)
	}
	if s.ValuationSign != nil && *s.ValuationSign != 0 && *s.ValuationSign != 1 && *s.ValuationSign != -1 {
		return nil, &domain.ConfigurationError{
			Subject: "valuation_sign",
			Message: fmt.Sprintf("%d no permitido (solo +1 o -1)", *s.ValuationSign),
		}
	}
	doc := &entity.Document{
		ID:             s.ID,
		OrganizationID: organizationID,
		Date:           s.Date,
		Type: entity.DocumentType{
			Direction:        s.Direction,
			AffectsValuation: s.ValuationOn,
			ValuationSign:    s.ValuationSign,
		},
		Lines: make([]entity.DocumentLine, 0, len(s.Lines)),
	}
	for _, l := range s.Lines {
		doc.Lines = append(doc.Lines, entity.DocumentLine{ProductID: l.ProductID, Quantity: l.Quantity, NetAmount: l.NetAmount})
	}
	return doc, nil
}
