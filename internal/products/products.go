// Package products holds the catalog: categories are static reference data,
// products are created through the admin surface and read everywhere else.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// InsertProduct saves a new catalog entry and returns it with the generated
// id and timestamp.
func (c *Conf) InsertProduct(ctx context.Context, np NewProduct) (Product, error) {
	query := `
		INSERT INTO products (name, description, price, image, category_id, stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, description, price, image, category_id, stock, created_at
	`
	var p Product
	err := c.db.QueryRowContext(ctx, query,
		np.Name, np.Description, np.Price, np.Image, np.CategoryID, np.Stock).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.CategoryID, &p.Stock, &p.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("inserting product: %w", err)
	}
	return p, nil
}

// GetProductByID fetches one product, returning ErrNotFound when the id does
// not exist.
func (c *Conf) GetProductByID(ctx context.Context, productID string) (Product, error) {
	query := `
		SELECT id, name, description, price, image, category_id, stock, created_at
		FROM products
		WHERE id = $1
	`
	var p Product
	err := c.db.QueryRowContext(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.CategoryID, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("querying product: %w", err)
	}
	return p, nil
}

// ListProducts returns catalog entries with optional name search (ILIKE
// substring) and category filter, plus pagination and sorting. Sort column
// and order are whitelisted here so handler input never reaches the SQL
// string.
func (c *Conf) ListProducts(ctx context.Context, nameFilter string, categoryID int, limit, offset int, sortBy, order string) ([]Product, error) {
	sortColumns := map[string]string{
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "name"
	}
	if order != "desc" {
		order = "asc"
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, price, image, category_id, stock, created_at
		FROM products
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		  AND ($2 = 0 OR category_id = $2)
		ORDER BY %s %s
		LIMIT $3 OFFSET $4
	`, column, order)

	rows, err := c.db.QueryContext(ctx, query, nameFilter, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var list []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.CategoryID, &p.Stock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}
	return list, nil
}

// ListCategories returns all categories in insertion order.
func (c *Conf) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, icon, description FROM categories ORDER BY id`
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var list []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.Description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		list = append(list, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}
	return list, nil
}

// CountProducts reports the catalog size for the admin dashboard.
func (c *Conf) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return count, nil
}
