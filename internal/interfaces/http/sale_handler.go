package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleHandler maneja el checkout y consulta de ventas (protegido).
type SaleHandler struct {
	engine *sales.Engine
}

// NewSaleHandler construye el handler.
func NewSaleHandler(engine *sales.Engine) *SaleHandler {
	return &SaleHandler{engine: engine}
}

// Process ejecuta el checkout. La clave de idempotencia viene en el header
// Idempotency-Key o en el body (el header tiene prioridad). Reintentar con la
// misma clave devuelve la misma venta.
// POST /api/sales
func (h *SaleHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := c.Get("Idempotency-Key")
	if key == "" {
		key = in.IdempotencyKey
	}
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "clave de idempotencia requerida"})
	}

	lines := make([]sales.SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.SaleLine{Identifier: l.Identifier, Quantity: l.Quantity})
	}
	sale, err := h.engine.ProcessSale(c.Context(), sales.SaleInput{
		IdempotencyKey: key,
		WarehouseID:    in.WarehouseID,
		PaymentMethod:  in.PaymentMethod,
		Actor:          GetUserID(c),
		Lines:          lines,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale, nil))
}

// GetByID devuelve una venta con sus líneas.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	sale, err := h.engine.GetSale(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	items, err := h.engine.GetSaleItems(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toSaleResponse(sale, items))
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) dto.SaleResponse {
	resp := dto.SaleResponse{
		ID:            sale.ID,
		Number:        sale.Number,
		WarehouseID:   sale.WarehouseID,
		Status:        sale.Status,
		Subtotal:      sale.Subtotal,
		TaxTotal:      sale.TaxTotal,
		Total:         sale.Total,
		ItemCount:     sale.ItemCount,
		PaymentMethod: sale.PaymentMethod,
		CreatedAt:     sale.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}
