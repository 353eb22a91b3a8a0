package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/streetmandi/mandi-backend/internal/modules/auth"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Handler exposes catalog HTTP endpoints. Browsing is public; mutation is
// restricted to the owning supplier.
type Handler struct {
	service Service
	authmw  func(http.Handler) http.Handler
}

func NewHandler(service Service, authmw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authmw: authmw}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)
		r.Get("/categories", h.listCategories)

		r.Group(func(r chi.Router) {
			r.Use(h.authmw)
			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.replaceProduct)
			r.Post("/seed", h.seedSampleData)
		})
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	category := Category(r.URL.Query().Get("category"))
	activeOnly := r.URL.Query().Get("active") != "false"
	products, err := h.service.ListProducts(r.Context(), category, activeOnly)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, Categories())
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := supplierOnly(w, r)
	if !ok {
		return
	}
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), principal.UserID, req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) replaceProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := supplierOnly(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.ReplaceProduct(r.Context(), principal.UserID, id, req)
	if err != nil {
		code := http.StatusBadRequest
		if err.Error() == "product belongs to another supplier" {
			code = http.StatusForbidden
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) seedSampleData(w http.ResponseWriter, r *http.Request) {
	principal, ok := supplierOnly(w, r)
	if !ok {
		return
	}
	n, err := h.service.SeedSampleData(r.Context(), principal.UserID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully seeded %d sample products", n),
	})
}

func supplierOnly(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return nil, false
	}
	if principal.Role != user.RoleSupplier {
		respond(w, http.StatusForbidden, map[string]string{"error": "Only suppliers can manage products"})
		return nil, false
	}
	return principal, true
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
