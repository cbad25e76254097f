package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lot-costing-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Costing   CostingDeps
	JWTSecret string
}

// Router registra las rutas de la API. Lectura: cualquier rol; escritura: admin o costing.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	read := RequireRole(jwt.RoleAdmin, jwt.RoleCosting, jwt.RoleViewer)
	write := RequireRole(jwt.RoleAdmin, jwt.RoleCosting)

	h := NewCostingHandler(deps.Costing)
	costing := api.Group("/costing")
	costing.Get("/lot-cost", read, h.GetLotCost)
	costing.Get("/skus/:sku/lots", read, h.GetAvailableLots)
	costing.Post("/lots/available", read, h.GetAvailableLotsForSkus)
	costing.Get("/manufacturing/:id/cost", read, h.GetJobCost)
	costing.Get("/skus/:sku/ledger", read, h.GetLedger)
	costing.Get("/skus/:sku/ledger.pdf", read, h.ExportLedger("pdf"))
	costing.Get("/skus/:sku/ledger.xlsx", read, h.ExportLedger("xlsx"))
	costing.Get("/tiers", read, h.GetTiers)

	costing.Post("/propagate", write, h.PropagateCost)
	costing.Post("/manufacturing/sync", write, h.SyncManufacturing)
	costing.Put("/opening-balances/:id/cost", RequireRole(jwt.RoleAdmin), h.UpdateOpeningBalanceCost)
}
