package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/service"
)

type CartHandler struct {
	service *service.CartService
	log     *slog.Logger
}

func NewCartHandler(svc *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, log: log}
}

// AddLine handles POST /carts/{cartID}/items
// creates the cart on first use
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req models.AddLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}

	cart, err := h.service.AddLine(r.Context(), chi.URLParam(r, "cartID"), models.CartLine{
		ProductID: req.ProductID,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewCartResponse(cart))
}

// GetCart handles GET /carts/{cartID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewCartResponse(cart))
}

// UpdateLine handles PATCH /carts/{cartID}/items/{productID}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewCartResponse(cart))
}

// RemoveLine handles DELETE /carts/{cartID}/items/{productID}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewCartResponse(cart))
}

// ClearCart handles DELETE /carts/{cartID}
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
