package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New()

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/contacts/by_id/{id}", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", m.Handler())

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contacts/by_id/"+id, nil))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `contacts_http_requests_total{method="GET",path="/contacts/by_id/{id}",status="404"} 3`)
	assert.False(t, strings.Contains(body, `path="/contacts/by_id/1"`), "Raw ids should never become labels")
}

func TestNewDoesNotPanicTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
