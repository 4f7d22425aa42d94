package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

const uniqueViolation = "23505"

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `id, email, name, guest, status, password_hash, created_at, updated_at`

func scanCustomer(row *sql.Row) (models.Customer, error) {
	var c models.Customer
	var status string
	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Guest, &status, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, models.ErrCustomerNotFound
		}
		return models.Customer{}, err
	}
	c.Status = models.CustomerStatus(status)
	return c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Email,
		c.Name,
		c.Guest,
		string(c.Status),
		c.PasswordHash,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.Customer{}, models.ErrEmailTaken
		}
		return models.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail only looks at registered customers; guests may share an email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1 AND guest = false`
	return scanCustomer(r.db.QueryRowContext(ctx, query, email))
}

func (r *CustomerRepo) UpdateStatus(ctx context.Context, id string, status models.CustomerStatus) (models.Customer, error) {
	query := `
		UPDATE customers
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + customerColumns
	return scanCustomer(r.db.QueryRowContext(ctx, query, id, string(status), time.Now().UTC()))
}
