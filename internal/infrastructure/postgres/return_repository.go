package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo devoluciones y sus líneas.
type ReturnRepo struct {
	q Querier
}

func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = "id, sale_id, warehouse_id, reason, refund_subtotal, refund_tax, refund_total, status, actor, created_at"

func (r *ReturnRepo) Create(ret *entity.Return) error {
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	query := `
		INSERT INTO returns (id, sale_id, warehouse_id, reason, refund_subtotal, refund_tax, refund_total, status, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.SaleID, ret.WarehouseID, nullIfEmpty(ret.Reason),
		ret.RefundSubtotal, ret.RefundTax, ret.RefundTotal, ret.Status,
		nullIfEmpty(ret.Actor), ret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create return: %w", err)
	}
	return nil
}

func (r *ReturnRepo) CreateItem(item *entity.ReturnItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO return_items (id, return_id, sale_item_id, quantity, refund_amount)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.ReturnID, item.SaleItemID, item.Quantity, item.RefundAmount,
	)
	if err != nil {
		return fmt.Errorf("create return item: %w", err)
	}
	return nil
}

func (r *ReturnRepo) GetByID(id string) (*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	ret, err := scanReturn(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return ret, nil
}

func (r *ReturnRepo) ListBySale(saleID string) ([]*entity.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE sale_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		list = append(list, ret)
	}
	return list, rows.Err()
}

func (r *ReturnRepo) ListItems(returnID string) ([]*entity.ReturnItem, error) {
	query := `
		SELECT id, return_id, sale_item_id, quantity, refund_amount
		FROM return_items WHERE return_id = $1`
	rows, err := r.q.Query(context.Background(), query, returnID)
	if err != nil {
		return nil, fmt.Errorf("list return items: %w", err)
	}
	defer rows.Close()
	var items []*entity.ReturnItem
	for rows.Next() {
		var it entity.ReturnItem
		err := rows.Scan(&it.ID, &it.ReturnID, &it.SaleItemID, &it.Quantity, &it.RefundAmount)
		if err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// SumReturnedBySaleItem suma las unidades ya devueltas de una línea de venta.
// Se llama con las líneas bloqueadas (FOR UPDATE) para que el tope qty sea
// estable frente a devoluciones concurrentes.
func (r *ReturnRepo) SumReturnedBySaleItem(saleItemID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM return_items WHERE sale_item_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, saleItemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum returned: %w", err)
	}
	return total, nil
}

func scanReturn(row pgx.Row) (*entity.Return, error) {
	var ret entity.Return
	var reason, actor *string
	err := row.Scan(&ret.ID, &ret.SaleID, &ret.WarehouseID, &reason,
		&ret.RefundSubtotal, &ret.RefundTax, &ret.RefundTotal, &ret.Status,
		&actor, &ret.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		ret.Reason = *reason
	}
	if actor != nil {
		ret.Actor = *actor
	}
	return &ret, nil
}
