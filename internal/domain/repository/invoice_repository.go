package repository

import "github.com/jhoicas/Ventas-api/internal/domain/entity"

// InvoiceRepository es el puerto de persistencia de facturas. Insert-only.
type InvoiceRepository interface {
	// Create inserta la factura. Devuelve domain.ErrDuplicate (envuelto) si ya
	// existe factura para la venta (UNIQUE sale_id): el caller la relee y la
	// devuelve como éxito idempotente.
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetBySaleID(saleID string) (*entity.Invoice, error)
	ListItems(invoiceID string) ([]*entity.InvoiceItem, error)
}
