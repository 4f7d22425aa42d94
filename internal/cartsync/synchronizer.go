// Package cartsync keeps the device's cached cart consistent with the remote
// cart. Every mutation is written to the cache first, sent to the backend,
// and then replaced by the backend's answer; a failed call restores the
// previous cache contents. Calls are never retried.
package cartsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/storefront-cart/internal/cache"
	"github.com/Cheertaboi/storefront-cart/internal/models"
)

const stateKey = "cart"

// Remote is the cart half of the backend API.
type Remote interface {
	AddItem(ctx context.Context, cartID string, line models.CartLine) (models.Cart, error)
	UpdateItem(ctx context.Context, cartID, productID string, quantity int) (models.Cart, error)
	DeleteItem(ctx context.Context, cartID, productID string) (models.Cart, error)
	GetCart(ctx context.Context, cartID string) (models.Cart, error)
	ClearCart(ctx context.Context, cartID string) error
}

// State is what the device remembers about its cart.
type State struct {
	CartID string            `json:"cartId"`
	Lines  []models.CartLine `json:"lines"`
}

func (s State) Cart() models.Cart {
	return models.Cart{ID: s.CartID, Lines: s.Lines}
}

type Synchronizer struct {
	remote Remote
	store  cache.Store
	notify Notifier
	log    *slog.Logger
	newID  func() string

	// mu serializes cache read-modify-write. It is not held across remote
	// calls, so overlapping mutations resolve in response order.
	mu sync.Mutex
}

type Option func(*Synchronizer)

func WithNotifier(n Notifier) Option {
	return func(s *Synchronizer) { s.notify = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// WithIDGenerator replaces uuid.NewString for new cart identifiers.
func WithIDGenerator(f func() string) Option {
	return func(s *Synchronizer) { s.newID = f }
}

func New(remote Remote, store cache.Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		remote: remote,
		store:  store,
		log:    slog.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notify == nil {
		s.notify = LogNotifier{Log: s.log}
	}
	return s
}

// Cart returns the cached cart without touching the network.
func (s *Synchronizer) Cart(ctx context.Context) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return models.Cart{}, err
	}
	return st.Cart(), nil
}

// AddLine adds quantity of a product, creating the cart identifier on first use.
func (s *Synchronizer) AddLine(ctx context.Context, productID string, price decimal.Decimal, quantity int) (models.Cart, error) {
	line := models.CartLine{ProductID: productID, Price: price, Quantity: quantity}
	if err := models.ValidateLine(line); err != nil {
		return models.Cart{}, err
	}

	return s.mutate(ctx, mutation{
		name:     "add line",
		createID: true,
		apply: func(c models.Cart) (models.Cart, error) {
			return c.WithLine(line), nil
		},
		call: func(ctx context.Context, cartID string) (models.Cart, error) {
			return s.remote.AddItem(ctx, cartID, line)
		},
		success: fmt.Sprintf("Added %s to cart", productID),
		failure: "Could not add item to cart",
	})
}

// UpdateLine sets the quantity of a product already in the cart.
func (s *Synchronizer) UpdateLine(ctx context.Context, productID string, quantity int) (models.Cart, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return models.Cart{}, err
	}

	return s.mutate(ctx, mutation{
		name: "update line",
		apply: func(c models.Cart) (models.Cart, error) {
			next, ok := c.WithQuantity(productID, quantity)
			if !ok {
				return models.Cart{}, fmt.Errorf("%w: %s", models.ErrLineNotFound, productID)
			}
			return next, nil
		},
		call: func(ctx context.Context, cartID string) (models.Cart, error) {
			return s.remote.UpdateItem(ctx, cartID, productID, quantity)
		},
		success: "Cart updated",
		failure: "Could not update cart",
	})
}

// RemoveLine drops a product. When the cart ends up empty the identifier and
// cache are discarded.
func (s *Synchronizer) RemoveLine(ctx context.Context, productID string) (models.Cart, error) {
	return s.mutate(ctx, mutation{
		name: "remove line",
		apply: func(c models.Cart) (models.Cart, error) {
			next, ok := c.Without(productID)
			if !ok {
				return models.Cart{}, fmt.Errorf("%w: %s", models.ErrLineNotFound, productID)
			}
			return next, nil
		},
		call: func(ctx context.Context, cartID string) (models.Cart, error) {
			return s.remote.DeleteItem(ctx, cartID, productID)
		},
		success: fmt.Sprintf("Removed %s from cart", productID),
		failure: "Could not remove item from cart",
	})
}

// Fetch loads the authoritative cart and overwrites the cache with it. An
// empty cartID means the cached identifier; with none cached there is nothing
// to fetch and the empty cart is returned.
func (s *Synchronizer) Fetch(ctx context.Context, cartID string) (models.Cart, error) {
	if cartID == "" {
		st, err := s.state(ctx)
		if err != nil {
			return models.Cart{}, err
		}
		if st.CartID == "" {
			return models.Cart{}, nil
		}
		cartID = st.CartID
	}

	remote, err := s.remote.GetCart(ctx, cartID)
	cart, rerr := s.reconcile(ctx, cartID, remote, err)
	if rerr != nil {
		s.notify.Notify(ctx, Notification{
			Level:   LevelError,
			Message: "Could not load cart: " + UserMessage(rerr),
			Err:     rerr,
		})
		return cart, fmt.Errorf("fetch cart: %w", rerr)
	}
	return cart, nil
}

// Clear asks the backend to drop the cart and then forgets it locally, even
// when the remote call fails.
func (s *Synchronizer) Clear(ctx context.Context) error {
	st, err := s.state(ctx)
	if err != nil {
		return err
	}
	var remoteErr error
	if st.CartID != "" {
		if err := s.remote.ClearCart(ctx, st.CartID); err != nil && !errors.Is(err, models.ErrCartNotFound) {
			remoteErr = fmt.Errorf("clear cart: %w", err)
			s.notify.Notify(ctx, Notification{
				Level:   LevelError,
				Message: "Could not clear cart: " + UserMessage(err),
				Err:     err,
			})
		}
	}
	if err := s.Discard(ctx); err != nil {
		return err
	}
	return remoteErr
}

// Discard forgets the cart identifier and cached lines without calling the
// backend. Checkout uses it once the order owns the cart.
func (s *Synchronizer) Discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discard(ctx)
}

type mutation struct {
	name     string
	createID bool
	apply    func(models.Cart) (models.Cart, error)
	call     func(ctx context.Context, cartID string) (models.Cart, error)
	success  string
	failure  string
}

func (s *Synchronizer) mutate(ctx context.Context, m mutation) (models.Cart, error) {
	snapshot, optimistic, err := s.applyLocal(ctx, m)
	if err != nil {
		return models.Cart{}, err
	}
	cartID := optimistic.CartID

	confirmed, callErr := m.call(ctx, cartID)
	if callErr != nil {
		s.rollback(ctx, snapshot)
		s.notify.Notify(ctx, Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("%s: %s", m.failure, UserMessage(callErr)),
			Err:     callErr,
		})
		s.log.WarnContext(ctx, "cart mutation failed, rolled back",
			slog.String("op", m.name),
			slog.String("cart_id", cartID),
			slog.Any("err", callErr))

		// best effort; the snapshot stays if the backend is unreachable
		remote, err := s.remote.GetCart(ctx, cartID)
		if cart, rerr := s.reconcile(ctx, cartID, remote, err); rerr == nil {
			return cart, fmt.Errorf("%s: %w", m.name, callErr)
		}
		return snapshot.Cart(), fmt.Errorf("%s: %w", m.name, callErr)
	}

	remote, err := s.remote.GetCart(ctx, cartID)
	if err != nil && !errors.Is(err, models.ErrCartNotFound) {
		// the mutation response is server state too
		s.log.WarnContext(ctx, "cart re-fetch failed, using mutation response",
			slog.String("op", m.name),
			slog.String("cart_id", cartID),
			slog.Any("err", err))
		remote, err = confirmed, nil
	}
	cart, err := s.reconcile(ctx, cartID, remote, err)
	if err != nil {
		return cart, fmt.Errorf("%s: %w", m.name, err)
	}
	if cart.IsEmpty() && len(optimistic.Lines) > 0 {
		// the backend accepted the change but the cart is gone, e.g. cleared
		// or checked out from another device
		s.notify.Notify(ctx, Notification{
			Level:   LevelError,
			Message: m.failure + ": cart is no longer available",
			Err:     models.ErrCartNotFound,
		})
		s.log.WarnContext(ctx, "cart vanished after mutation",
			slog.String("op", m.name),
			slog.String("cart_id", cartID))
		return cart, nil
	}
	s.notify.Notify(ctx, Notification{Level: LevelInfo, Message: m.success})
	return cart, nil
}

// applyLocal writes the optimistic state and returns the states before and
// after it. A new cart identifier is only persisted together with that state.
func (s *Synchronizer) applyLocal(ctx context.Context, m mutation) (State, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return State{}, State{}, err
	}
	created := false
	if st.CartID == "" {
		if !m.createID {
			return State{}, State{}, models.ErrCartNotFound
		}
		st = State{CartID: s.newID()}
		created = true
	}

	snapshot := State{CartID: st.CartID, Lines: st.Cart().Clone().Lines}
	next, err := m.apply(st.Cart())
	if err != nil {
		return State{}, State{}, err
	}
	optimistic := State{CartID: st.CartID, Lines: next.Lines}
	if err := s.save(ctx, optimistic); err != nil {
		return State{}, State{}, err
	}
	if created {
		s.log.DebugContext(ctx, "cart identifier created", slog.String("cart_id", st.CartID))
	}
	return snapshot, optimistic, nil
}

func (s *Synchronizer) rollback(ctx context.Context, snapshot State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, snapshot); err != nil {
		s.log.ErrorContext(ctx, "cart rollback failed",
			slog.String("cart_id", snapshot.CartID), slog.Any("err", err))
	}
}

// reconcile stores the backend's answer for cartID. A missing or empty remote
// cart discards local state. Any other fetch error leaves the cache alone and
// is returned.
func (s *Synchronizer) reconcile(ctx context.Context, cartID string, remote models.Cart, fetchErr error) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case errors.Is(fetchErr, models.ErrCartNotFound):
		if err := s.discard(ctx); err != nil {
			return models.Cart{}, err
		}
		return models.Cart{}, nil
	case fetchErr != nil:
		return models.Cart{}, fetchErr
	}

	if remote.IsEmpty() {
		if err := s.discard(ctx); err != nil {
			return models.Cart{}, err
		}
		return models.Cart{}, nil
	}

	st := State{CartID: cartID, Lines: remote.Lines}
	if err := s.save(ctx, st); err != nil {
		return models.Cart{}, err
	}
	return st.Cart(), nil
}

func (s *Synchronizer) state(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Synchronizer) load(ctx context.Context) (State, error) {
	var st State
	err := cache.GetJSON(ctx, s.store, stateKey, &st)
	if errors.Is(err, cache.ErrCacheMiss) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load cart state: %w", err)
	}
	return st, nil
}

func (s *Synchronizer) save(ctx context.Context, st State) error {
	if err := cache.SetJSON(ctx, s.store, stateKey, st); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

func (s *Synchronizer) discard(ctx context.Context) error {
	if err := s.store.Delete(ctx, stateKey); err != nil {
		return fmt.Errorf("discard cart state: %w", err)
	}
	return nil
}
