package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner abre la transacción que abarca el checkout completo: venta,
// líneas, consecutivo y eventos de stock comparten Commit/Rollback.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
		saleRepo repository.SaleRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
