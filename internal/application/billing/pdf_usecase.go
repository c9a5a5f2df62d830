package billing

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// PDFUseCase arma los datos de una factura y delega el render al generador.
// Corre siempre después del commit de la factura: es solo lectura y su fallo
// no afecta el documento ya persistido.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	seller      SellerInfo
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator, seller SellerInfo) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator, seller: seller}
}

// GenerateInvoicePDF genera el PDF de la factura y devuelve sus bytes.
func (uc *PDFUseCase) GenerateInvoicePDF(ctx context.Context, invoiceID string) ([]byte, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.ListItems(invoiceID)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateInvoicePDF(ctx, invoice, items, uc.seller)
}
