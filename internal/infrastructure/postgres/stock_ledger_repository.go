package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del ledger sobre PostgreSQL (usable con pool
// o tx). Solo Append y lecturas: el trigger de la tabla rechaza cualquier
// UPDATE/DELETE con error estructural.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

const ledgerColumns = "id, variant_id, warehouse_id, event_type, quantity, ref_type, ref_id, note, actor, created_at"

// Append persiste un asiento del ledger.
func (r *StockLedgerRepo) Append(entry *entity.StockLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, variant_id, warehouse_id, event_type, quantity, ref_type, ref_id, note, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.VariantID, entry.WarehouseID, entry.EventType, entry.Quantity,
		nullIfEmpty(entry.RefType), nullIfEmpty(entry.RefID), nullIfEmpty(entry.Note),
		nullIfEmpty(entry.Actor), entry.CreatedAt,
	)
	if err != nil {
		if isImmutableViolation(err) {
			return fmt.Errorf("append ledger entry: %w", domain.ErrImmutableRecord)
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockLedgerRepo) GetByID(id string) (*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE id = $1`
	entry, err := scanLedgerEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return entry, nil
}

// List consulta asientos con filtros opcionales (variante, bodega, tipo de
// evento, rango de fechas), paginado.
func (r *StockLedgerRepo) List(filter repository.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.VariantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, filter.VariantID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", pos)
		args = append(args, filter.EventType)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// SumByKey suma las cantidades con signo de la clave (variante, bodega).
func (r *StockLedgerRepo) SumByKey(variantID, warehouseID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_ledger WHERE variant_id = $1 AND warehouse_id = $2`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, variantID, warehouseID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return total, nil
}

func scanLedgerEntry(row pgx.Row) (*entity.StockLedgerEntry, error) {
	var e entity.StockLedgerEntry
	var refType, refID, note, actor *string
	err := row.Scan(&e.ID, &e.VariantID, &e.WarehouseID, &e.EventType, &e.Quantity,
		&refType, &refID, &note, &actor, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if refType != nil {
		e.RefType = *refType
	}
	if refID != nil {
		e.RefID = *refID
	}
	if note != nil {
		e.Note = *note
	}
	if actor != nil {
		e.Actor = *actor
	}
	return &e, nil
}
