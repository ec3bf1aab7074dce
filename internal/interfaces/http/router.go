package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestionale-api/internal/application/inventory"
	"github.com/jhoicas/Gestionale-api/internal/application/payments"
	"github.com/jhoicas/Gestionale-api/internal/application/posting"
	"github.com/jhoicas/Gestionale-api/internal/application/valuation"
	"github.com/jhoicas/Gestionale-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.LedgerUseCase
	Valuation *valuation.UseCase
	Posting   *posting.PostDocumentUseCase
	Payments  *payments.UseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := errorWriter{log: log.Component("http")}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireWrite()

	// Libro de movimientos
	inventoryHandler := NewInventoryHandler(deps.Ledger, errs)
	inv := api.Group("/inventory")
	inv.Post("/movements", write, inventoryHandler.RecordMovement)
	inv.Get("/stock/:productID", inventoryHandler.CurrentStock)
	inv.Get("/products/:productID/movements", inventoryHandler.ListMovements)

	// Documentos y valoración
	valuationHandler := NewValuationHandler(deps.Valuation, deps.Posting, errs)
	api.Post("/documents/:id/post", write, valuationHandler.PostDocument)
	val := api.Group("/valuation")
	val.Post("/documents/:id/apply", write, valuationHandler.ApplyStats)
	val.Post("/revert", write, valuationHandler.RevertStats)
	val.Post("/recalculate/:year", write, valuationHandler.Recalculate)
	val.Get("/stats/:year", valuationHandler.ListStats)

	// Conciliación
	paymentHandler := NewPaymentHandler(deps.Payments, errs)
	pay := api.Group("/payments")
	pay.Post("/reconcile", write, paymentHandler.Reconcile)
	pay.Get("/", paymentHandler.List)
	pay.Delete("/:id", write, paymentHandler.Delete)
	api.Get("/installments/allocatable", paymentHandler.AllocatableInstallments)
	api.Get("/accounts/:id/balance", paymentHandler.AccountBalance)
}
