package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockLedger *ledger.StockLedgerUseCase
	Records     *ledger.RecordUseCase
	Reports     *ledger.ReportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el ledger es protegido: el token aporta
// el actor (performed_by) que exige la auditoría.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	records := api.Group("/records")
	recordHandler := NewRecordHandler(deps.Records)
	records.Post("/", recordHandler.Create)
	records.Get("/:productId", recordHandler.GetByProduct)
	records.Put("/:productId/status", RequireRole("admin"), recordHandler.UpdateStatus)
	records.Get("/:productId/transactions", recordHandler.ListTransactions)
	records.Get("/:productId/alerts", recordHandler.ListAlerts)

	ledgerHandler := NewLedgerHandler(deps.StockLedger)
	records.Post("/:productId/stock/add", ledgerHandler.AddStock)
	records.Post("/:productId/stock/remove", ledgerHandler.RemoveStock)
	records.Post("/:productId/stock/reserve", ledgerHandler.ReserveStock)
	records.Post("/:productId/stock/release", ledgerHandler.ReleaseReservedStock)

	alerts := api.Group("/alerts")
	alerts.Put("/:id/resolve", recordHandler.ResolveAlert)

	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/low-stock", reportHandler.LowStockPDF)
}
