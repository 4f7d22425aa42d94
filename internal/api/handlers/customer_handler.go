package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/storefront-cart/internal/models"
	"github.com/Cheertaboi/storefront-cart/internal/service"
)

type CustomerHandler struct {
	service *service.CustomerService
	log     *slog.Logger
}

func NewCustomerHandler(svc *service.CustomerService, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{service: svc, log: log}
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Login handles POST /customers/login
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	c, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetCustomer handles GET /customers/{customerID}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateStatus handles PATCH /customers/{customerID}/status
func (h *CustomerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCustomerStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadBody(w)
		return
	}
	c, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "customerID"), req.Status)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
