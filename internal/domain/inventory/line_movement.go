package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestionale-api/internal/domain"
	"github.com/jhoicas/Gestionale-api/internal/domain/entity"
	"github.com/jhoicas/Gestionale-api/pkg/money"
)

// ValidateStockSign verifica que el signo de stock del tipo sea +1 o -1.
// Cualquier otro valor es un error de configuración que aborta la contabilización completa.
func ValidateStockSign(t entity.DocumentType) error {
	if t.StockSign == 1 || t.StockSign == -1 {
		return nil
	}
	return &domain.ConfigurationError{
		Subject: "document_type " + t.Code,
		Message: fmt.Sprintf("operation_sign_stock %d no permitido (solo +1 o -1)", t.StockSign),
	}
}

// ResolveWarehouse override de línea → almacén por defecto del producto → almacén del documento.
func ResolveWarehouse(line entity.DocumentLine, product *entity.Product, doc *entity.Document) string {
	if line.WarehouseID != "" {
		return line.WarehouseID
	}
	if product != nil && product.DefaultWarehouseID != "" {
		return product.DefaultWarehouseID
	}
	return doc.DefaultWarehouseID
}

// MovementFromLine construye el movimiento de una línea contabilizada, o nil si la línea no mueve stock:
// tipo sin movimiento de inventario, línea sin producto, almacén no resoluble o producto sin gestión de stock.
// product debe ser el producto de la línea ya cargado (la ausencia del producto es fatal y la controla el llamador).
func MovementFromLine(doc *entity.Document, line entity.DocumentLine, product *entity.Product, kinds *MovementKindTable) (*entity.StockMovement, error) {
	if !doc.Type.MovesInventory || line.ProductID == "" {
		return nil, nil
	}
	if err := ValidateStockSign(doc.Type); err != nil {
		return nil, err
	}
	if product == nil || !product.StockManaged {
		return nil, nil
	}
	warehouseID := ResolveWarehouse(line, product, doc)
	if warehouseID == "" {
		return nil, nil
	}
	qty := money.RoundQuantity(line.Quantity.Mul(decimal.NewFromInt(int64(doc.Type.StockSign))))
	return &entity.StockMovement{
		OrganizationID:       doc.OrganizationID,
		ProductID:            line.ProductID,
		WarehouseID:          warehouseID,
		Quantity:             qty,
		Kind:                 kinds.Resolve(doc.Type.Code, doc.Type.StockSign),
		SourceDocumentID:     doc.ID,
		SourceDocumentNumber: doc.Number,
		SourceDocumentLineID: line.ID,
	}, nil
}
