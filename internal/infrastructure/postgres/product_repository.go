package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos y variantes (solo lectura para los
// motores de venta y stock).
type ProductRepo struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) GetProductByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, name, active, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).
		Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) GetVariantByID(id string) (*entity.ProductVariant, error) {
	query := variantQuery + ` WHERE id = $1`
	return r.getVariant(query, id)
}

func (r *ProductRepo) GetVariantBySKU(sku string) (*entity.ProductVariant, error) {
	query := variantQuery + ` WHERE sku = $1`
	return r.getVariant(query, sku)
}

const variantQuery = `
	SELECT id, product_id, sku, description, price, tax_rate, active, created_at, updated_at
	FROM product_variants`

func (r *ProductRepo) getVariant(query string, arg any) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := r.q.QueryRow(context.Background(), query, arg).
		Scan(&v.ID, &v.ProductID, &v.SKU, &v.Description, &v.Price, &v.TaxRate,
			&v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}
