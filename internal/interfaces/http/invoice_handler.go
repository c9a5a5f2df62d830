package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// InvoiceHandler maneja la generación y consulta de facturas (protegido).
type InvoiceHandler struct {
	uc    *billing.GenerateInvoiceUseCase
	pdfUC *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.GenerateInvoiceUseCase, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdfUC: pdfUC}
}

// Generate genera la factura de una venta COMPLETED. Idempotente por venta:
// repetir devuelve la factura existente.
// POST /api/sales/:id/invoice
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.GenerateInvoiceForSale(c.Context(), billing.InvoiceInput{
		SaleID:        c.Params("id"),
		BillingName:   in.BillingName,
		BillingPhone:  in.BillingPhone,
		BillingTaxID:  in.BillingTaxID,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInvoiceResponse(invoice, nil))
}

// GetByID devuelve una factura con sus líneas.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	invoice, err := h.uc.GetInvoice(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	items, err := h.uc.GetInvoiceItems(c.Context(), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toInvoiceResponse(invoice, items))
}

// GetPDF genera y descarga el PDF de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.pdfUC.GenerateInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factura.pdf"`)
	return c.Send(pdfBytes)
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		SaleID:         inv.SaleID,
		WarehouseID:    inv.WarehouseID,
		Subtotal:       inv.Subtotal,
		DiscountType:   inv.DiscountType,
		DiscountValue:  inv.DiscountValue,
		DiscountAmount: inv.DiscountAmount,
		TaxTotal:       inv.TaxTotal,
		GrandTotal:     inv.GrandTotal,
		BillingName:    inv.BillingName,
		BillingPhone:   inv.BillingPhone,
		BillingTaxID:   inv.BillingTaxID,
		CreatedAt:      inv.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:            it.ID,
			ProductName:   it.ProductName,
			SKU:           it.SKU,
			VariantDesc:   it.VariantDesc,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			TaxableAmount: it.TaxableAmount,
			TaxRate:       it.TaxRate,
			TaxAmount:     it.TaxAmount,
			LineTotal:     it.LineTotal,
		})
	}
	return resp
}
