package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/application/posting"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
)

// ValuationHandler estadísticas anuales y contabilización de documentos.
type ValuationHandler struct {
	stats   *valuation.UseCase
	posting *posting.PostDocumentUseCase
	errorWriter
}

// NewValuationHandler construye el handler.
func NewValuationHandler(stats *valuation.UseCase, post *posting.PostDocumentUseCase, w errorWriter) *ValuationHandler {
	return &ValuationHandler{stats: stats, posting: post, errorWriter: w}
}

// PostDocument godoc
// @Summary      Contabilizar documento (movimientos + estadísticas en una transacción)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "documento"
// @Success      201  {object}  dto.PostDocumentResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya contabilizado"
// @Router       /api/documents/{id}/post [post]
func (h *ValuationHandler) PostDocument(c *fiber.Ctx) error {
	out, err := h.posting.PostDocument(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return h.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ApplyStats godoc
// @Summary      Aplicar el documento a las estadísticas anuales
// @Description  Con "previous" en el body revierte ese snapshot y aplica el estado actual en la misma transacción.
// @Tags         valuation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true   "documento"
// @Param        body  body  dto.ApplyStatsRequest  false  "snapshot anterior (edición de líneas)"
// @Success      200   {object}  dto.StatsChangeResponse
// @Router       /api/valuation/documents/{id}/apply [post]
func (h *ValuationHandler) ApplyStats(c *fiber.Ctx) error {
	var in dto.ApplyStatsRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return h.write(c, err)
		}
	}
	out, err := h.stats.ApplyDocumentStats(c.UserContext(), GetActor(c), c.Params("id"), in.Previous)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// RevertStats revierte un snapshot de documento (borrado o anulación).
func (h *ValuationHandler) RevertStats(c *fiber.Ctx) error {
	var in dto.DocumentSnapshot
	if err := bindJSON(c, &in); err != nil {
		return h.write(c, err)
	}
	out, err := h.stats.RevertDocumentStats(c.UserContext(), GetActor(c), in)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// Recalculate godoc
// @Summary      Reconstruir las estadísticas del año desde los documentos
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        year  path  int  true  "año"
// @Success      200   {object}  dto.RecalculateResponse
// @Router       /api/valuation/recalculate/{year} [post]
func (h *ValuationHandler) Recalculate(c *fiber.Ctx) error {
	year, err := paramYear(c)
	if err != nil {
		return h.write(c, err)
	}
	out, err := h.stats.RecalculateStatsForYear(c.UserContext(), GetActor(c), year)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// ListStats filas del año.
func (h *ValuationHandler) ListStats(c *fiber.Ctx) error {
	year, err := paramYear(c)
	if err != nil {
		return h.write(c, err)
	}
	list, err := h.stats.ListStats(c.UserContext(), GetActor(c), year)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(fiber.Map{
		"year":  year,
		"total": len(list),
		"items": list,
	})
}
