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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y sus líneas. Insert-only: la tabla tiene trigger de
// inmutabilidad, las correcciones van por devoluciones.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = "id, number, idempotency_key, warehouse_id, status, subtotal, tax_total, total, item_count, payment_method, actor, created_at"

// Create inserta la venta. Una colisión del UNIQUE sobre idempotency_key se
// traduce a domain.ErrDuplicate para que el caso de uso recupere la venta
// ganadora.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, number, idempotency_key, warehouse_id, status, subtotal, tax_total, total, item_count, payment_method, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Number, sale.IdempotencyKey, sale.WarehouseID, sale.Status,
		sale.Subtotal, sale.TaxTotal, sale.Total, sale.ItemCount, sale.PaymentMethod,
		nullIfEmpty(sale.Actor), sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create sale: %w", domain.ErrDuplicate)
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de venta con precio e impuesto congelados.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, variant_id, quantity, unit_price, tax_rate, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.VariantID, item.Quantity,
		item.UnitPrice, item.TaxRate, item.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("create sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

// GetByIdempotencyKey busca la venta registrada para la clave, (nil, nil) si
// es la primera vez que se ve.
func (r *SaleRepo) GetByIdempotencyKey(key string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE idempotency_key = $1`
	sale, err := scanSale(r.q.QueryRow(context.Background(), query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale by key: %w", err)
	}
	return sale, nil
}

func (r *SaleRepo) ListItems(saleID string) ([]*entity.SaleItem, error) {
	return r.listItems(saleID, false)
}

// ListItemsForUpdate bloquea las líneas de la venta dentro de la tx actual.
// Lo usa el motor de devoluciones para serializar devoluciones concurrentes
// sobre la misma venta.
func (r *SaleRepo) ListItemsForUpdate(saleID string) ([]*entity.SaleItem, error) {
	return r.listItems(saleID, true)
}

func (r *SaleRepo) listItems(saleID string, lock bool) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, variant_id, quantity, unit_price, tax_rate, line_total
		FROM sale_items WHERE sale_id = $1
		ORDER BY variant_id`
	if lock {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.VariantID, &it.Quantity,
			&it.UnitPrice, &it.TaxRate, &it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var actor *string
	err := row.Scan(&s.ID, &s.Number, &s.IdempotencyKey, &s.WarehouseID, &s.Status,
		&s.Subtotal, &s.TaxTotal, &s.Total, &s.ItemCount, &s.PaymentMethod,
		&actor, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if actor != nil {
		s.Actor = *actor
	}
	return &s, nil
}
