package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/streetmandi/mandi-backend/internal/modules/auth"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Handler exposes order HTTP endpoints. Every route requires authentication.
type Handler struct {
	service Service
	authmw  func(http.Handler) http.Handler
}

func NewHandler(service Service, authmw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authmw: authmw}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(h.authmw)
		r.Post("/", h.placeOrder)             // POST   /api/v1/orders
		r.Get("/", h.listOrders)              // GET    /api/v1/orders
		r.Get("/{id}", h.getOrder)            // GET    /api/v1/orders/{id}
		r.Patch("/{id}/status", h.updateStatus) // PATCH /api/v1/orders/{id}/status
		r.Delete("/{id}", h.cancelOrder)      // DELETE /api/v1/orders/{id}
		r.Get("/{id}/receipt", h.getReceipt)  // GET    /api/v1/orders/{id}/receipt
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	if principal.Role != user.RoleVendor {
		respond(w, http.StatusForbidden, map[string]string{"error": "Only vendors can create orders"})
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	o, err := h.service.PlaceOrder(r.Context(), principal.UserID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	orders, err := h.service.ListOrders(r.Context(), principal.UserID, principal.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	o, err := h.service.GetOrder(r.Context(), principal.UserID, principal.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	if principal.Role != user.RoleSupplier {
		respond(w, http.StatusForbidden, map[string]string{"error": "Only suppliers can update order status"})
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), principal.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	if principal.Role != user.RoleVendor {
		respond(w, http.StatusForbidden, map[string]string{"error": "Only vendors can cancel their orders"})
		return
	}
	if err := h.service.CancelOrder(r.Context(), principal.UserID, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "order cancelled"})
}

func (h *Handler) getReceipt(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}
	receipt, err := h.service.Receipt(r.Context(), principal.UserID, principal.Role, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, receipt)
}

// respondError maps the error taxonomy onto HTTP statuses. Typed order
// errors carry their detail fields straight into the response body.
func respondError(w http.ResponseWriter, err error) {
	var oe *Error
	if !errors.As(err, &oe) {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, httpStatus(oe.Code), oe)
}

func httpStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeProductNotFound, CodeBelowMinimumOrder, CodeInsufficientStock, CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case CodeOrderNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
