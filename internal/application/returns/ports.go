package returns

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner abre la transacción de devolución: cabecera, líneas y reingresos
// de stock comparten Commit/Rollback.
type TxRunner interface {
	RunReturn(ctx context.Context, fn func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error) error
}
