package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/streetmandi/mandi-backend/internal/modules/auth"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// Handler exposes the analytics read model. One bucket schema, two display
// projections: vendors see spend, suppliers see revenue.
type Handler struct {
	service Service
	authmw  func(http.Handler) http.Handler
}

func NewHandler(service Service, authmw func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, authmw: authmw}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Group(func(r chi.Router) {
		r.Use(h.authmw)
		r.Get("/api/v1/analytics", h.getAnalytics)
	})
}

func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
		return
	}

	report, err := h.service.Query(r.Context(), principal.UserID, principal.Role)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	respond(w, http.StatusOK, project(report, principal.Role))
}

// project renders one report in role-specific vocabulary: vendors spend
// money ("total"/"total_spent"), suppliers earn it ("revenue"/"total_revenue").
func project(report *Report, role user.Role) map[string]interface{} {
	moneyField, summaryField := "total", "total_spent"
	if role == user.RoleSupplier {
		moneyField, summaryField = "revenue", "total_revenue"
	}

	periods := func(values map[string]BucketValue) map[string]map[string]interface{} {
		out := make(map[string]map[string]interface{}, len(values))
		for key, v := range values {
			out[key] = map[string]interface{}{
				"orders":   v.Orders,
				moneyField: v.Accumulated,
			}
		}
		return out
	}

	return map[string]interface{}{
		"daily":        periods(report.Daily),
		"weekly":       periods(report.Weekly),
		"monthly":      periods(report.Monthly),
		"total_orders": report.TotalOrders,
		summaryField:   report.TotalAccumulated,
		"active_months": report.ActiveMonths,
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
