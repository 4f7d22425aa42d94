// Package apitest runs the cart-service router over in-memory repositories
// for tests of its clients.
package apitest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/Cheertaboi/storefront-cart/internal/api"
	"github.com/Cheertaboi/storefront-cart/internal/repository"
	"github.com/Cheertaboi/storefront-cart/internal/service"
)

type Server struct {
	*httptest.Server
	Memory *repository.Memory
}

func NewServer(t testing.TB) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := repository.NewMemory()
	srv := httptest.NewServer(api.NewRouter(api.Services{
		Carts:     service.NewCartService(mem.Carts(), log),
		Customers: service.NewCustomerService(mem.Customers(), log),
		Orders:    service.NewOrderService(mem.Orders(), mem.Customers(), log),
	}, log))
	t.Cleanup(srv.Close)
	return &Server{Server: srv, Memory: mem}
}
