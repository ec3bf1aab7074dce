package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/application/payments"
)

// HeaderIdempotencyKey clave opcional del cliente para reintentar una conciliación sin duplicarla.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotentReplay se añade cuando la respuesta viene de un intento anterior.
const HeaderIdempotentReplay = "Idempotent-Replayed"

// PaymentHandler conciliación de pagos y consultas derivadas.
type PaymentHandler struct {
	uc *payments.UseCase
	errorWriter
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.UseCase, w errorWriter) *PaymentHandler {
	return &PaymentHandler{uc: uc, errorWriter: w}
}

// Reconcile godoc
// @Summary      Asignar un pago (existente o nuevo) a cuotas
// @Description  Todo o nada. Ninguna cuota queda con residuo negativo ni el pago asignado por encima de su importe.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                false  "clave de reintento"
// @Param        body             body    dto.ReconcileRequest  true   "payment_id o payment, y allocations"
// @Success      200  {object}  dto.ReconcileResponse
// @Success      201  {object}  dto.ReconcileResponse  "pago creado"
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.LimitErrorResponse
// @Router       /api/payments/reconcile [post]
func (h *PaymentHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := bindJSON(c, &in); err != nil {
		return h.write(c, err)
	}
	key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	out, replayed, err := h.uc.ReconcileIdempotent(c.UserContext(), GetActor(c), key, in)
	if err != nil {
		return h.write(c, err)
	}
	if replayed {
		c.Set(HeaderIdempotentReplay, "true")
	}
	status := fiber.StatusOK
	if out.PaymentCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Delete borra el pago y sus asignaciones.
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePayment(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return h.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List pagos con importe asignado y libre.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var q dto.PaymentListQuery
	if err := queryParser(c, &q); err != nil {
		return h.write(c, err)
	}
	q.DefaultPage()
	q.Direction = strings.ToUpper(q.Direction)
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
	out, err := h.uc.ListPayments(c.UserContext(), GetActor(c), q)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// AllocatableInstallments godoc
// @Summary      Cuotas con pagado y residuo calculados
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        direction    query  string  false  "SALE, PURCHASE o INTERNAL"
// @Param        document_id  query  string  false  "documento"
// @Param        all          query  bool    false  "incluir cuotas saldadas"
// @Param        due_before   query  string  false  "vencimiento hasta (AAAA-MM-DD)"
// @Success      200  {object}  dto.InstallmentListResponse
// @Router       /api/installments/allocatable [get]
func (h *PaymentHandler) AllocatableInstallments(c *fiber.Ctx) error {
	var q dto.InstallmentQuery
	if err := queryParser(c, &q); err != nil {
		return h.write(c, err)
	}
	q.DefaultPage()
	q.Direction = strings.ToUpper(q.Direction)
	if err := validateStruct(&q); err != nil {
		return h.write(c, err)
	}
	var err error
	if q.DueBefore, err = queryDate(c, "due_before"); err != nil {
		return h.write(c, err)
	}
	out, err := h.uc.GetInstallmentsForAllocation(c.UserContext(), GetActor(c), q)
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}

// AccountBalance saldo derivado de la cuenta.
func (h *PaymentHandler) AccountBalance(c *fiber.Ctx) error {
	out, err := h.uc.AccountBalance(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return h.write(c, err)
	}
	return c.JSON(out)
}
