// Package cart owns the per-user cart lines: one row per (user, product),
// quantity always at least 1. Checkout lives in the orders package, which
// consumes and clears these rows in its own transaction.
package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("cart line not found")
	ErrUnauthorized    = errors.New("cart line belongs to another user")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrProductNotFound = errors.New("product does not exist")
)

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// AddItem adds quantity of a product to the user's cart. Re-adding a product
// the user already has increments the existing line; the upsert against the
// (user_id, product_id) unique constraint keeps concurrent adds from ever
// producing two lines for the same pair. Returns the updated line count.
func (c *Conf) AddItem(ctx context.Context, userID, productID string, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}

	var count int
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryUpsert := `
			INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
			              updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, queryUpsert, userID, productID, quantity); err != nil {
			var pgErr *pgconn.PgError
			// 23503: the product_id foreign key has no catalog row behind it
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrProductNotFound
			}
			return fmt.Errorf("upserting cart line: %w", err)
		}

		queryCount := `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`
		if err := tx.QueryRowContext(ctx, queryCount, userID).Scan(&count); err != nil {
			return fmt.Errorf("counting cart lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AdjustItem applies increase/decrease/remove to one cart line. Decrease
// floors at quantity 1 and never removes the line. The line is locked for
// the duration of the transaction so two clicks racing on the same line
// serialize at the row.
func (c *Conf) AdjustItem(ctx context.Context, userID string, lineID int, action Action) (AdjustResult, error) {
	var result AdjustResult
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		queryLine := `
			SELECT ci.user_id, ci.quantity, p.price
			FROM cart_items ci
			JOIN products p ON p.id = ci.product_id
			WHERE ci.id = $1
			FOR UPDATE OF ci
		`
		var ownerID string
		var quantity int
		var price int64
		err := tx.QueryRowContext(ctx, queryLine, lineID).Scan(&ownerID, &quantity, &price)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("querying cart line: %w", err)
		}
		if ownerID != userID {
			return ErrUnauthorized
		}

		switch action {
		case ActionIncrease:
			quantity++
			if _, err := tx.ExecContext(ctx,
				`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`,
				quantity, lineID); err != nil {
				return fmt.Errorf("increasing cart line: %w", err)
			}
			result.Subtotal = price * int64(quantity)
		case ActionDecrease:
			// no-op at quantity 1; decrease never removes a line
			if quantity > 1 {
				quantity--
				if _, err := tx.ExecContext(ctx,
					`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`,
					quantity, lineID); err != nil {
					return fmt.Errorf("decreasing cart line: %w", err)
				}
			}
			result.Subtotal = price * int64(quantity)
		case ActionRemove:
			if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, lineID); err != nil {
				return fmt.Errorf("removing cart line: %w", err)
			}
			result.Subtotal = 0
		default:
			return fmt.Errorf("unknown cart action %q", action)
		}

		queryCount := `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`
		if err := tx.QueryRowContext(ctx, queryCount, userID).Scan(&result.Count); err != nil {
			return fmt.Errorf("counting cart lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return AdjustResult{}, err
	}
	return result, nil
}

// GetCart returns the user's cart lines in insertion order with the live
// total at current product prices.
func (c *Conf) GetCart(ctx context.Context, userID string) (*CartResponse, error) {
	query := `
		SELECT ci.id, ci.product_id, p.name, p.image, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying cart lines: %w", err)
	}
	defer rows.Close()

	resp := &CartResponse{}
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.ProductID, &line.ProductName, &line.Image, &line.Price, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		line.Subtotal = line.Price * int64(line.Quantity)
		resp.Total += line.Subtotal
		resp.Items = append(resp.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cart lines: %w", err)
	}
	return resp, nil
}

// Count reports the number of cart lines for the UI badge.
func (c *Conf) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting cart lines: %w", err)
	}
	return count, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if er := tx.Rollback(); er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
