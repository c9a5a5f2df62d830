package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/returns"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ReturnHandler maneja devoluciones (protegido).
type ReturnHandler struct {
	engine *returns.Engine
}

// NewReturnHandler construye el handler.
func NewReturnHandler(engine *returns.Engine) *ReturnHandler {
	return &ReturnHandler{engine: engine}
}

// Process ejecuta una devolución parcial o total contra una venta COMPLETED.
// POST /api/sales/:id/returns
func (h *ReturnHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]returns.ReturnLine, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, returns.ReturnLine{SaleItemID: it.SaleItemID, Quantity: it.Quantity})
	}
	ret, err := h.engine.ProcessReturn(c.Context(), returns.ReturnInput{
		SaleID:      c.Params("id"),
		WarehouseID: in.WarehouseID,
		Reason:      in.Reason,
		Actor:       GetUserID(c),
		Items:       items,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReturnResponse(ret, nil))
}

// GetByID devuelve una devolución con sus líneas.
// GET /api/returns/:id
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	ret, err := h.engine.GetReturn(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	items, err := h.engine.GetReturnItems(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReturnResponse(ret, items))
}

func toReturnResponse(ret *entity.Return, items []*entity.ReturnItem) dto.ReturnResponse {
	resp := dto.ReturnResponse{
		ID:             ret.ID,
		SaleID:         ret.SaleID,
		WarehouseID:    ret.WarehouseID,
		Reason:         ret.Reason,
		RefundSubtotal: ret.RefundSubtotal,
		RefundTax:      ret.RefundTax,
		RefundTotal:    ret.RefundTotal,
		Status:         ret.Status,
		CreatedAt:      ret.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.ReturnItemResponse{
			ID:           it.ID,
			SaleItemID:   it.SaleItemID,
			Quantity:     it.Quantity,
			RefundAmount: it.RefundAmount,
		})
	}
	return resp
}
