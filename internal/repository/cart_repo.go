package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

type CartRepo struct {
	db *sql.DB
}

func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (models.Cart, error) {
	return getCart(ctx, r.db, cartID)
}

func getCart(ctx context.Context, q queryer, cartID string) (models.Cart, error) {
	cart := models.Cart{ID: cartID}

	err := q.QueryRowContext(ctx, `SELECT updated_at FROM carts WHERE id = $1`, cartID).Scan(&cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Cart{}, models.ErrCartNotFound
		}
		return models.Cart{}, err
	}

	lines, err := cartLines(ctx, q, cartID)
	if err != nil {
		return models.Cart{}, err
	}
	cart.Lines = lines
	return cart, nil
}

func cartLines(ctx context.Context, q queryer, cartID string) ([]models.CartLine, error) {
	query := `
		SELECT product_id, price, quantity
		FROM cart_lines
		WHERE cart_id = $1
		ORDER BY seq
	`
	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ProductID, &l.Price, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// AddLine creates the cart if needed and adds line to it. An existing line for
// the same product has its quantity increased and its price replaced.
func (r *CartRepo) AddLine(ctx context.Context, cartID string, line models.CartLine) (models.Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Cart{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	upsertCart := `
		INSERT INTO carts (id, created_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsertCart, cartID, now); err != nil {
		return models.Cart{}, fmt.Errorf("upsert cart: %w", err)
	}

	upsertLine := `
		INSERT INTO cart_lines (cart_id, product_id, price, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity,
		              price = EXCLUDED.price
	`
	if _, err := tx.ExecContext(ctx, upsertLine, cartID, line.ProductID, line.Price, line.Quantity); err != nil {
		return models.Cart{}, fmt.Errorf("upsert line: %w", err)
	}

	cart, err := getCart(ctx, tx, cartID)
	if err != nil {
		return models.Cart{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Cart{}, fmt.Errorf("tx commit: %w", err)
	}
	return cart, nil
}

func (r *CartRepo) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	query := `
		UPDATE cart_lines
		SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2
	`
	return r.mutateLine(ctx, cartID, false, query, productID, quantity)
}

// RemoveLine drops a line. A cart left without lines is deleted in the same
// transaction, so the returned empty cart no longer exists.
func (r *CartRepo) RemoveLine(ctx context.Context, cartID, productID string) (models.Cart, error) {
	query := `DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`
	return r.mutateLine(ctx, cartID, true, query, productID)
}

// mutateLine runs a single-line statement under a row lock on the cart and
// returns the resulting cart. args follow cartID in the statement. With
// dropEmpty the cart row is deleted before commit when no lines remain.
func (r *CartRepo) mutateLine(ctx context.Context, cartID string, dropEmpty bool, stmt string, args ...any) (models.Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Cart{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockCart(ctx, tx, cartID); err != nil {
		return models.Cart{}, err
	}

	res, err := tx.ExecContext(ctx, stmt, append([]any{cartID}, args...)...)
	if err != nil {
		return models.Cart{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Cart{}, err
	}
	if n == 0 {
		return models.Cart{}, models.ErrLineNotFound
	}

	if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = $2 WHERE id = $1`, cartID, time.Now().UTC()); err != nil {
		return models.Cart{}, err
	}

	cart, err := getCart(ctx, tx, cartID)
	if err != nil {
		return models.Cart{}, err
	}
	if dropEmpty && cart.IsEmpty() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
			return models.Cart{}, fmt.Errorf("delete empty cart: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Cart{}, fmt.Errorf("tx commit: %w", err)
	}
	return cart, nil
}

func lockCart(ctx context.Context, tx *sql.Tx, cartID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrCartNotFound
	}
	return err
}

// Delete removes the cart and, by cascade, its lines.
func (r *CartRepo) Delete(ctx context.Context, cartID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrCartNotFound
	}
	return nil
}
