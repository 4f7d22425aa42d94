package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateFromCart turns the cart order.CartID into order inside one
// transaction: the cart row is locked, its lines and total are copied onto
// the order, and the cart is deleted.
func (r *OrderRepo) CreateFromCart(ctx context.Context, order models.Order) (models.Order, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return models.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockCart(ctx, tx, order.CartID); err != nil {
		return models.Order{}, err
	}
	lines, err := cartLines(ctx, tx, order.CartID)
	if err != nil {
		return models.Order{}, fmt.Errorf("load lines: %w", err)
	}
	if len(lines) == 0 {
		return models.Order{}, models.ErrEmptyCart
	}

	order.Lines = lines
	order.Total = models.Cart{Lines: lines}.Total()

	insertOrder := `
		INSERT INTO orders (id, cart_id, customer_id, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.ExecContext(ctx, insertOrder,
		order.ID,
		order.CartID,
		order.CustomerID,
		order.Total,
		string(order.Status),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}

	stmt := `INSERT INTO order_lines (order_id, position, product_id, price, quantity) VALUES ($1, $2, $3, $4, $5)`
	for i, l := range lines {
		if _, err := tx.ExecContext(ctx, stmt, order.ID, i, l.ProductID, l.Price, l.Quantity); err != nil {
			return models.Order{}, fmt.Errorf("insert order line: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = $1`, order.CartID); err != nil {
		return models.Order{}, fmt.Errorf("delete cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return order, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	var status string

	query := `
		SELECT id, cart_id, customer_id, total, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.CartID, &o.CustomerID, &o.Total, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, models.ErrOrderNotFound
		}
		return models.Order{}, err
	}
	o.Status = models.OrderStatus(status)

	rows, err := r.db.QueryContext(ctx, `SELECT product_id, price, quantity FROM order_lines WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return models.Order{}, err
	}
	defer rows.Close()

	o.Lines = []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ProductID, &l.Price, &l.Quantity); err != nil {
			return models.Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), time.Now().UTC())
	if err != nil {
		return models.Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Order{}, err
	}
	if n == 0 {
		return models.Order{}, models.ErrOrderNotFound
	}
	return r.Get(ctx, id)
}
