package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetmandi/mandi-backend/internal/modules/auth"
	"github.com/streetmandi/mandi-backend/internal/modules/user"
)

// principalAuth injects a fixed principal, standing in for the JWT middleware.
func principalAuth(p *auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func newTestServer(t *testing.T, f *fixture, p *auth.Principal) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(f.service, principalAuth(p)).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestPlaceOrderHTTP(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, &auth.Principal{UserID: f.vendorID.String(), Role: user.RoleVendor})

	resp := postJSON(t, srv.URL+"/api/v1/orders", f.placeRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	// Money renders as rupees with two decimals.
	assert.Equal(t, 130.0, body["subtotal"])
	assert.Equal(t, 6.5, body["tax"])
	assert.Equal(t, 136.5, body["total"])
	assert.Equal(t, "pending", body["status"])
}

func TestPlaceOrderHTTPVendorOnly(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, &auth.Principal{UserID: f.supplierID.String(), Role: user.RoleSupplier})

	resp := postJSON(t, srv.URL+"/api/v1/orders", f.placeRequest())
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Only vendors can create orders", decodeBody(t, resp)["error"])
}

func TestPlaceOrderHTTPInsufficientStock(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, &auth.Principal{UserID: f.vendorID.String(), Role: user.RoleVendor})

	req := f.placeRequest()
	req.Items = []CartItem{{ProductID: f.tomatoes.String(), Quantity: 51}}
	resp := postJSON(t, srv.URL+"/api/v1/orders", req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, string(CodeInsufficientStock), body["code"])
	assert.Equal(t, float64(51), body["requested"])
	assert.Equal(t, float64(50), body["available"])
	assert.Equal(t, f.tomatoes.String(), body["product_id"])
}

func TestGetOrderHTTPNotFound(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, &auth.Principal{UserID: f.vendorID.String(), Role: user.RoleVendor})

	resp, err := http.Get(srv.URL + "/api/v1/orders/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCancelOrderHTTPVendorOnly(t *testing.T) {
	f := newFixture(t)
	srv := newTestServer(t, f, &auth.Principal{UserID: f.supplierID.String(), Role: user.RoleSupplier})

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/orders/"+uuid.NewString(), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
