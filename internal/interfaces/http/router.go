package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/application/reorder"
	"github.com/jhoicas/Almacen-api/internal/application/reservation"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Applier       *ledger.ApplyMovementUseCase
	StockAdmin    *ledger.StockAdminUseCase
	ReservationUC *reservation.UseCase
	ReceivingUC   *receiving.UseCase
	ReorderUC     *reorder.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventory: movimientos, ajustes, traslados y consultas de stock (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Applier, deps.StockAdmin)
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Post("/adjustments", inventoryHandler.AdjustStock)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Get("/stock", inventoryHandler.FindStockRecord)
	invGroup.Get("/stock/:id", inventoryHandler.GetStockRecord)
	invGroup.Post("/stock/:id/retire", inventoryHandler.RetireStockRecord)
	invGroup.Get("/warehouses/:warehouse_id/stock", inventoryHandler.ListStockByWarehouse)

	// Reservations (protegido)
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Get("/:id", reservationHandler.GetByID)
	reservations.Post("/:id/release", reservationHandler.Release)

	// Goods receipts (protegido)
	receipts := protected.Group("/receipts")
	receiptHandler := NewReceiptHandler(deps.ReceivingUC)
	receipts.Post("/", receiptHandler.ReceiveGoods)

	// Reorder analysis (protegido, solo lectura)
	reorderGroup := protected.Group("/reorder")
	reorderHandler := NewReorderHandler(deps.ReorderUC)
	reorderGroup.Get("/alerts", reorderHandler.GetLowStockAlerts)
	reorderGroup.Get("/suggestions", reorderHandler.GetReorderSuggestions)
}
