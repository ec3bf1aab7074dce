package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
	errorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, w errorWriter) *InventoryHandler {
	return &InventoryHandler{uc: uc, errorWriter: w}
}

// RecordMovement godoc
// @Summary      Registrar movimiento manual de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, warehouse_id, quantity con signo, kind opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return h.write(c, err)
	}
	out, err := h.uc.RecordMovement(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CurrentStock godoc
// @Summary      Existencia calculada (suma de movimientos)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productID     path   string  true   "producto"
// @Param        warehouse_id  query  string  false  "almacén; vacío = todos"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/inventory/stock/{productID} [get]
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	out, err := h.uc.CurrentStock(c.UserContext(), GetActor(c), c.Params("productID"), c.Query("warehouse_id"))
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// ListMovements movimientos de un producto, más recientes primero.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if err := queryParser(c, &q); err != nil {
		return h.write(c, err)
	}
	q.DefaultPage()
	if err := validateStruct(&q); err != nil {
		return h.write(c, err)
	}
	var err error
	if q.From, err = queryDate(c, "from"); err != nil {
		return h.write(c, err)
	}
	if q.To, err = queryDate(c, "to"); err != nil {
		return h.write(c, err)
	}
	q.To = endOfDay(q.To, c.Query("to"))

	out, err := h.uc.ListMovements(c.UserContext(), GetActor(c), c.Params("productID"), q)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}
