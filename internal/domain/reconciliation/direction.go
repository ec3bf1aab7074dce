package reconciliation

import (
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
)

// InternalPolicy cómo se trata una cuota de documento INTERNAL al decidir la dirección del pago.
type InternalPolicy string

// Políticas admitidas.
const (
	InternalAsSale     InternalPolicy = "sale"
	InternalAsPurchase InternalPolicy = "purchase"
	InternalReject     InternalPolicy = "reject"
)

// ParseInternalPolicy valida el valor de configuración.
func ParseInternalPolicy(s string) (InternalPolicy, error) {
	switch p := InternalPolicy(s); p {
	case InternalAsSale, InternalAsPurchase, InternalReject:
		return p, nil
	case "":
		return InternalAsSale, nil
	default:
		return "", &domain.ConfigurationError{Subject: "internal_direction", Message: fmt.Sprintf("valor %q no admitido", s)}
	}
}

// ExpectedPaymentDirection deriva la dirección que debe tener un pago nuevo:
// todas de compra → OUTFLOW; todas de venta → INFLOW; mezcla → ErrMixedDirections.
func ExpectedPaymentDirection(installments []*entity.Installment, policy InternalPolicy) (string, error) {
	var sale, purchase bool
	for _, inst := range installments {
		dir := inst.DocumentDirection
		if dir == entity.DirectionInternal {
			switch policy {
			case InternalAsPurchase:
				dir = entity.DirectionPurchase
			case InternalReject:
				return "", domain.Invalid("allocations", "la cuota %s pertenece a un documento interno y no admite pagos", inst.ID)
			default:
				dir = entity.DirectionSale
			}
		}
		switch dir {
		case entity.DirectionPurchase:
			purchase = true
		case entity.DirectionSale:
			sale = true
		default:
			return "", domain.Invalid("allocations", "la cuota %s no tiene dirección de documento", inst.ID)
		}
	}
	if sale && purchase {
		return "", &domain.ValidationError{
			Field:   "allocations",
			Message: "las cuotas mezclan documentos de compra y de venta; concilie cada grupo por separado",
			Cause:   domain.ErrMixedDirections,
		}
	}
	if purchase {
		return entity.PaymentOutflow, nil
	}
	return entity.PaymentInflow, nil
}

// CheckPaymentDirection verifica que la dirección elegida coincida con la esperada.
func CheckPaymentDirection(direction string, installments []*entity.Installment, policy InternalPolicy) error {
	expected, err := ExpectedPaymentDirection(installments, policy)
	if err != nil {
		return err
	}
	if direction != expected {
		return domain.Invalid("payment.direction", "debe ser %s para las cuotas seleccionadas (recibido %s)", expected, direction)
	}
	return nil
}
