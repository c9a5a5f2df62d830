package billing

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner abre la transacción de generación de factura: cabecera, líneas y
// consecutivo comparten Commit/Rollback. Una generación fallida no quema
// números.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// SellerInfo identidad del vendedor que se imprime en la factura. Es
// configuración explícita inyectada al servicio, no estado global.
type SellerInfo struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
}

// InvoicePDFGenerator renderiza la representación gráfica de una factura.
// Colaborador externo al núcleo: corre después del commit y su fallo nunca
// revierte la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, items []*entity.InvoiceItem, seller SellerInfo) ([]byte, error)
}
