package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/returns"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockSvc     *stock.Service
	SalesEngine  *sales.Engine
	InvoiceUC    *billing.GenerateInvoiceUseCase
	InvoicePDF   *billing.PDFUseCase
	ReturnEngine *returns.Engine
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockSvc)
	stockGroup.Post("/events", stockHandler.RecordEvent)
	stockGroup.Post("/recalculate", RequireRole(entity.RoleAdmin), stockHandler.Recalculate)
	stockGroup.Get("/ledger", stockHandler.ListLedger)
	stockGroup.Get("/:variantId/:warehouseId", stockHandler.GetCurrent)
	stockGroup.Get("/:variantId", stockHandler.GetBreakdown)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesEngine)
	salesGroup.Post("/", saleHandler.Process)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Facturación colgada de la venta (protegido)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	salesGroup.Post("/:id/invoice", invoiceHandler.Generate)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)

	// Returns (protegido)
	returnHandler := NewReturnHandler(deps.ReturnEngine)
	salesGroup.Post("/:id/returns", returnHandler.Process)
	returnsGroup := protected.Group("/returns")
	returnsGroup.Get("/:id", returnHandler.GetByID)
}
