package stock

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// GetCurrentStock devuelve la cantidad actual para (variante, bodega).
// Lee el snapshot; si la clave aún no tiene snapshot cae a la suma del ledger.
func (s *Service) GetCurrentStock(ctx context.Context, variantID, warehouseID string) (int64, error) {
	snap, err := s.snapRepo.Get(variantID, warehouseID)
	if err != nil {
		return 0, err
	}
	if snap != nil {
		return snap.Quantity, nil
	}
	return s.ledgerRepo.SumByKey(variantID, warehouseID)
}

// GetStockBreakdown lista (bodega, cantidad) para una variante. Camino de
// lectura para reportes.
func (s *Service) GetStockBreakdown(ctx context.Context, variantID string) ([]*entity.StockSnapshot, error) {
	return s.snapRepo.ListByVariant(variantID)
}

// ListLedger consulta asientos del ledger con filtros (variante, bodega,
// tipo de evento, rango de fechas). Solo lectura.
func (s *Service) ListLedger(ctx context.Context, filter repository.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.ledgerRepo.List(filter)
}

// Recalculate reconstruye el snapshot de (variante, bodega) sumando todo el
// ledger y lo materializa. Para inicialización, reparación y auditorías:
// después de Recalculate vale snapshot.Quantity == Σ ledger.Quantity.
func (s *Service) Recalculate(ctx context.Context, variantID, warehouseID string) (*entity.StockSnapshot, error) {
	var snap *entity.StockSnapshot
	err := s.txRunner.Run(ctx, func(
		ledgerRepo repository.StockLedgerRepository,
		snapRepo repository.StockSnapshotRepository,
	) error {
		// Bloquear primero la fila: una mutación concurrente sobre la misma
		// clave esperaría aquí y la suma queda consistente al commit.
		locked, err := snapRepo.LockForUpdate(variantID, warehouseID)
		if err != nil {
			return err
		}
		total, err := ledgerRepo.SumByKey(variantID, warehouseID)
		if err != nil {
			return err
		}
		locked.Quantity = total
		locked.UpdatedAt = time.Now()
		if err := snapRepo.Upsert(locked); err != nil {
			return err
		}
		snap = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
