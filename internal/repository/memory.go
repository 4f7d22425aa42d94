package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Cheertaboi/storefront-cart/internal/models"
)

// Memory backs all three repositories with maps under one lock, so placing an
// order and deleting its cart stay atomic in the same way the Postgres
// transaction makes them.
type Memory struct {
	mu        sync.Mutex
	carts     map[string]models.Cart
	customers map[string]models.Customer
	orders    map[string]models.Order
}

func NewMemory() *Memory {
	return &Memory{
		carts:     make(map[string]models.Cart),
		customers: make(map[string]models.Customer),
		orders:    make(map[string]models.Order),
	}
}

func (m *Memory) Carts() *MemoryCartRepo         { return &MemoryCartRepo{m: m} }
func (m *Memory) Customers() *MemoryCustomerRepo { return &MemoryCustomerRepo{m: m} }
func (m *Memory) Orders() *MemoryOrderRepo       { return &MemoryOrderRepo{m: m} }

type MemoryCartRepo struct{ m *Memory }

func (r *MemoryCartRepo) Get(_ context.Context, cartID string) (models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[cartID]
	if !ok {
		return models.Cart{}, models.ErrCartNotFound
	}
	return c.Clone(), nil
}

func (r *MemoryCartRepo) AddLine(_ context.Context, cartID string, line models.CartLine) (models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[cartID]
	if !ok {
		c = models.Cart{ID: cartID, Lines: []models.CartLine{}}
	}
	c = c.WithLine(line)
	c.UpdatedAt = time.Now().UTC()
	r.m.carts[cartID] = c
	return c.Clone(), nil
}

func (r *MemoryCartRepo) SetQuantity(_ context.Context, cartID, productID string, quantity int) (models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[cartID]
	if !ok {
		return models.Cart{}, models.ErrCartNotFound
	}
	c, ok = c.WithQuantity(productID, quantity)
	if !ok {
		return models.Cart{}, models.ErrLineNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	r.m.carts[cartID] = c
	return c.Clone(), nil
}

func (r *MemoryCartRepo) RemoveLine(_ context.Context, cartID, productID string) (models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[cartID]
	if !ok {
		return models.Cart{}, models.ErrCartNotFound
	}
	c, ok = c.Without(productID)
	if !ok {
		return models.Cart{}, models.ErrLineNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	if c.IsEmpty() {
		delete(r.m.carts, cartID)
	} else {
		r.m.carts[cartID] = c
	}
	return c.Clone(), nil
}

func (r *MemoryCartRepo) Delete(_ context.Context, cartID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.carts[cartID]; !ok {
		return models.ErrCartNotFound
	}
	delete(r.m.carts, cartID)
	return nil
}

type MemoryCustomerRepo struct{ m *Memory }

func (r *MemoryCustomerRepo) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if !c.Guest {
		for _, existing := range r.m.customers {
			if !existing.Guest && existing.Email == c.Email {
				return models.Customer{}, models.ErrEmailTaken
			}
		}
	}
	r.m.customers[c.ID] = c
	return c, nil
}

func (r *MemoryCustomerRepo) GetByID(_ context.Context, id string) (models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok {
		return models.Customer{}, models.ErrCustomerNotFound
	}
	return c, nil
}

func (r *MemoryCustomerRepo) GetByEmail(_ context.Context, email string) (models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.customers {
		if !c.Guest && c.Email == email {
			return c, nil
		}
	}
	return models.Customer{}, models.ErrCustomerNotFound
}

func (r *MemoryCustomerRepo) UpdateStatus(_ context.Context, id string, status models.CustomerStatus) (models.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok {
		return models.Customer{}, models.ErrCustomerNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.m.customers[id] = c
	return c, nil
}

type MemoryOrderRepo struct{ m *Memory }

func (r *MemoryOrderRepo) CreateFromCart(_ context.Context, order models.Order) (models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[order.CartID]
	if !ok {
		return models.Order{}, models.ErrCartNotFound
	}
	if c.IsEmpty() {
		return models.Order{}, models.ErrEmptyCart
	}
	order.Lines = c.Clone().Lines
	order.Total = c.Total()
	r.m.orders[order.ID] = order
	delete(r.m.carts, order.CartID)
	return order, nil
}

func (r *MemoryOrderRepo) Get(_ context.Context, id string) (models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	return o, nil
}

func (r *MemoryOrderRepo) UpdateStatus(_ context.Context, id string, status models.OrderStatus) (models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.m.orders[id] = o
	return o, nil
}
