package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockHandler maneja eventos de stock y consultas del ledger (protegido).
type StockHandler struct {
	svc *stock.Service
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *stock.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// RecordEvent registra un evento de stock (compra, venta manual, devolución,
// ajuste). Quantity con signo.
// POST /api/stock/events
func (h *StockHandler) RecordEvent(c *fiber.Ctx) error {
	var in dto.RecordEventRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.svc.RecordStockEvent(c.Context(), stock.EventInput{
		VariantID:     in.VariantID,
		WarehouseID:   in.WarehouseID,
		EventType:     in.Type,
		Quantity:      in.Quantity,
		RefType:       in.RefType,
		RefID:         in.RefID,
		Note:          in.Note,
		Actor:         GetUserID(c),
		AllowNegative: in.AllowNegative && in.Type == entity.EventTypeAdjustment,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLedgerEntryResponse(entry))
}

// GetCurrent devuelve la cantidad actual de (variante, bodega).
// GET /api/stock/:variantId/:warehouseId
func (h *StockHandler) GetCurrent(c *fiber.Ctx) error {
	variantID := c.Params("variantId")
	warehouseID := c.Params("warehouseId")
	qty, err := h.svc.GetCurrentStock(c.Context(), variantID, warehouseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StockResponse{VariantID: variantID, WarehouseID: warehouseID, Quantity: qty})
}

// GetBreakdown devuelve el desglose por bodega de una variante.
// GET /api/stock/:variantId
func (h *StockHandler) GetBreakdown(c *fiber.Ctx) error {
	snaps, err := h.svc.GetStockBreakdown(c.Context(), c.Params("variantId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	rows := make([]dto.StockBreakdownRow, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, dto.StockBreakdownRow{WarehouseID: s.WarehouseID, Quantity: s.Quantity})
	}
	return c.JSON(rows)
}

// ListLedger consulta el ledger con filtros opcionales.
// GET /api/stock/ledger?variant_id=&warehouse_id=&type=&from=&to=&limit=&offset=
func (h *StockHandler) ListLedger(c *fiber.Ctx) error {
	filter := repository.LedgerFilter{
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
		EventType:   c.Query("type"),
		Limit:       c.QueryInt("limit"),
		Offset:      c.QueryInt("offset"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida (RFC3339)"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida (RFC3339)"})
		}
		filter.To = &t
	}
	entries, err := h.svc.ListLedger(c.Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// Recalculate reconstruye el snapshot de (variante, bodega) desde el ledger.
// POST /api/stock/recalculate
func (h *StockHandler) Recalculate(c *fiber.Ctx) error {
	var in dto.RecalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.VariantID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id y warehouse_id requeridos"})
	}
	snap, err := h.svc.Recalculate(c.Context(), in.VariantID, in.WarehouseID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StockResponse{VariantID: snap.VariantID, WarehouseID: snap.WarehouseID, Quantity: snap.Quantity})
}

func toLedgerEntryResponse(e *entity.StockLedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID,
		VariantID:   e.VariantID,
		WarehouseID: e.WarehouseID,
		Type:        e.EventType,
		Quantity:    e.Quantity,
		RefType:     e.RefType,
		RefID:       e.RefID,
		Note:        e.Note,
		Actor:       e.Actor,
		CreatedAt:   e.CreatedAt,
	}
}
