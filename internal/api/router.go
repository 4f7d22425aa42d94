package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Cheertaboi/storefront-cart/internal/api/handlers"
	"github.com/Cheertaboi/storefront-cart/internal/api/middleware"
	"github.com/Cheertaboi/storefront-cart/internal/service"
)

type Services struct {
	Carts     *service.CartService
	Customers *service.CustomerService
	Orders    *service.OrderService
}

// NewRouter builds the HTTP router for the cart-service
func NewRouter(svc Services, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(log))

	cartHandler := handlers.NewCartHandler(svc.Carts, log)
	customerHandler := handlers.NewCustomerHandler(svc.Customers, log)
	orderHandler := handlers.NewOrderHandler(svc.Orders, log)

	r.Route("/carts/{cartID}", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddLine)
		r.Patch("/items/{productID}", cartHandler.UpdateLine)
		r.Delete("/items/{productID}", cartHandler.RemoveLine)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", customerHandler.CreateCustomer)
		r.Post("/login", customerHandler.Login)
		r.Get("/{customerID}", customerHandler.GetCustomer)
		r.Patch("/{customerID}/status", customerHandler.UpdateStatus)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/{orderID}", orderHandler.GetOrder)
		r.Patch("/{orderID}/status", orderHandler.UpdateStatus)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return otelhttp.NewHandler(r, "cart-service",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method + " " + r.URL.Path
		}),
	)
}
