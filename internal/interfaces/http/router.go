package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Tienda-api/internal/application/analytics"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/orders"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *inventory.LedgerUseCase
	History      *inventory.HistoryUseCase
	Alerts       *inventory.AlertUseCase
	Orders       *orders.OrderUseCase
	Profit       *appanalytics.ProfitUseCase
	Events       ports.ChangeSubscriber
	JWTSecret    string
	SSEKeepAlive time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	staff := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Orders: el alta admite invitados; el resto es back-office
	orderHandler := NewOrderHandler(deps.Orders)
	api.Post("/orders", OptionalAuth(deps.JWTSecret), orderHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	ordersGroup := protected.Group("/orders", staff)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.Get)
	ordersGroup.Post("/:id/validate", orderHandler.Validate)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Delete("/:id", adminOnly, orderHandler.Delete)

	// Inventory: libro de stock, alertas e historial
	invGroup := protected.Group("/inventory", staff)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.History, deps.Alerts)
	invGroup.Get("/products", inventoryHandler.ListProducts)
	invGroup.Get("/products/:id", inventoryHandler.GetProduct)
	invGroup.Put("/products/:id/stock", inventoryHandler.AdjustStock)
	invGroup.Put("/products/:id/threshold", adminOnly, inventoryHandler.AdjustThreshold)
	invGroup.Put("/products/:id/purchase-price", adminOnly, inventoryHandler.SetPurchasePrice)
	invGroup.Get("/products/:id/history/verify", inventoryHandler.VerifyHistory)
	invGroup.Get("/alerts", inventoryHandler.ListAlerts)
	invGroup.Get("/history", inventoryHandler.History)
	invGroup.Get("/history/report", inventoryHandler.HistoryReport)

	// Analytics (solo admin)
	analytics := protected.Group("/analytics", adminOnly)
	analyticsHandler := NewAnalyticsHandler(deps.Profit)
	analytics.Get("/profit", analyticsHandler.GetProfit)
	analytics.Get("/dashboard", analyticsHandler.GetDashboard)

	// Avisos de cambio en vivo (SSE)
	if deps.Events != nil {
		eventsHandler := NewEventsHandler(deps.Events, deps.SSEKeepAlive)
		protected.Get("/events", staff, eventsHandler.Stream)
	}
}
