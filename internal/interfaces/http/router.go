package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/internal/application/accounting"
	"github.com/jhoicas/vendedores-api/internal/application/inventory"
	"github.com/jhoicas/vendedores-api/internal/application/sales"
	"github.com/jhoicas/vendedores-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger     *inventory.LedgerUseCase
	Query      *inventory.QueryUseCase
	Sales      *sales.RecordSaleUseCase
	Statements *accounting.StatementUseCase
	Proration  *accounting.ProrationUseCase
	Expenses   *accounting.ExpenseUseCase
	Location   *time.Location
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	adminOrSeller := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)
	admin := RequireRole(jwt.RoleAdmin)

	// Inventario
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Query, deps.Location)
	inv.Post("/deliveries", staff, inventoryHandler.Deliver)
	inv.Post("/deliveries/batch", staff, inventoryHandler.DeliverBatch)
	inv.Post("/write-offs", staff, inventoryHandler.WriteOff)
	inv.Post("/transfers", staff, inventoryHandler.Transfer)
	inv.Get("/stock/:holder", anyRole, inventoryHandler.Stock)
	inv.Get("/movements", anyRole, inventoryHandler.Movements)

	// Ventas
	salesHandler := NewSalesHandler(deps.Sales, deps.Location)
	api.Post("/sales", adminOrSeller, salesHandler.Sell)

	// Contabilidad
	accGroup := api.Group("/accounting")
	accountingHandler := NewAccountingHandler(deps.Statements, deps.Proration, deps.Expenses)
	accGroup.Get("/statement", admin, accountingHandler.AllSellersStatement)
	accGroup.Get("/sellers/:id/statement", adminOrSeller, accountingHandler.SellerStatement)
	accGroup.Get("/sellers/:id/expenses/prorated", adminOrSeller, accountingHandler.ProratedExpenses)
	accGroup.Get("/sellers/:id/expenses", adminOrSeller, accountingHandler.ListExpenses)
	accGroup.Get("/sellers/:id/commission", adminOrSeller, accountingHandler.GetCommission)
	accGroup.Put("/sellers/:id/commission", admin, accountingHandler.SetCommission)
	accGroup.Post("/expenses", admin, accountingHandler.AddExpense)
	accGroup.Patch("/expenses/:id", admin, accountingHandler.UpdateExpense)
	accGroup.Delete("/expenses/:id", admin, accountingHandler.RemoveExpense)
}
