package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Product mirrors a row of the products table. Price is stored in minor
// units, discount is an integer percent between 0 and 100.
type Product struct {
	ID          pgtype.UUID
	Title       string
	Slug        string
	Description string
	Price       int64
	Discount    int32
	Stock       int32
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const productColumns = `id, title, slug, description, price, discount, stock, tags, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Discount,
		&p.Stock, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProductParams captures the fields required to insert a product.
type CreateProductParams struct {
	Title       string
	Slug        string
	Description string
	Price       int64
	Discount    int32
	Stock       int32
	Tags        []string
}

const createProductSQL = `
INSERT INTO products (title, slug, description, price, discount, stock, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns

// CreateProduct inserts a catalog product.
func (s *Store) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	return scanProduct(s.pool.QueryRow(ctx, createProductSQL,
		arg.Title, arg.Slug, arg.Description, arg.Price, arg.Discount, arg.Stock, arg.Tags))
}

const getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

// GetProductByID loads a product by primary key.
func (s *Store) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	return scanProduct(s.pool.QueryRow(ctx, getProductByIDSQL, id))
}

const getProductBySlugSQL = `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

// GetProductBySlug loads a product by its URL slug.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (Product, error) {
	return scanProduct(s.pool.QueryRow(ctx, getProductBySlugSQL, slug))
}

const productsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

// ProductsByIDs resolves the given ids to full product rows. Missing ids are
// simply absent from the result; callers decide whether that is an error.
func (s *Store) ProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]Product, error) {
	rows, err := s.pool.Query(ctx, productsByIDsSQL, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListProductsParams captures list pagination and search filters.
type ListProductsParams struct {
	Query  string
	Limit  int32
	Offset int32
}

const listProductsSQL = `
SELECT ` + productColumns + ` FROM products
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR $1 = ANY(tags))
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListProducts returns a page of products, newest first.
func (s *Store) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := s.pool.Query(ctx, listProductsSQL, arg.Query, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const countProductsSQL = `
SELECT count(*) FROM products
WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR $1 = ANY(tags))`

// CountProducts returns the total matching the same filter as ListProducts.
func (s *Store) CountProducts(ctx context.Context, query string) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, countProductsSQL, query).Scan(&total)
	return total, err
}

const setProductDiscountSQL = `
UPDATE products SET discount = $2, updated_at = now() WHERE id = $1`

// SetProductDiscount overwrites the product's percent discount.
func (s *Store) SetProductDiscount(ctx context.Context, id pgtype.UUID, percent int32) error {
	_, err := s.pool.Exec(ctx, setProductDiscountSQL, id, percent)
	return err
}
