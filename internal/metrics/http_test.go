package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/api/v1", func(r chi.Router) {
		r.Put("/records/{type}/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		r.Post("/search", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{}"))
		})
		r.Post("/commit", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
	})
	return r
}

func serve(r http.Handler, method, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, http.NoBody))
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newRouter()
	route := "/api/v1/records/{type}/{id}"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("PUT", route, "200"))

	serve(r, "PUT", "/api/v1/records/book/1")
	serve(r, "PUT", "/api/v1/records/book/2")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("PUT", route, "200"))
	if got-before != 2 {
		t.Errorf("requests_total delta = %v, want 2", got-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{"POST", "/api/v1/search", "/api/v1/search", "200"},
		{"POST", "/api/v1/commit", "/api/v1/commit", "502"},
		{"GET", "/nope", "unmatched", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status))
			serve(r, tc.method, tc.path)
			got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status))
			if got-before != 1 {
				t.Errorf("requests_total{%s,%s,%s} delta = %v, want 1", tc.method, tc.route, tc.status, got-before)
			}
		})
	}
}

func TestMiddleware_InFlightSettles(t *testing.T) {
	serve(newRouter(), "POST", "/api/v1/search")
	if v := testutil.ToFloat64(httpRequestsInFlight); v != 0 {
		t.Errorf("in flight = %v after request, want 0", v)
	}
}

func TestRouteLabel_NoRouteContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/x", http.NoBody)
	if got := routeLabel(req); got != "unmatched" {
		t.Errorf("routeLabel = %q", got)
	}
}
