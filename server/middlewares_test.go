package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseHeaders(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "GET", "/contacts", "")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(REQUEST_ID_HEADER), "Should generate a request id")

	processTime, err := strconv.ParseFloat(rr.Header().Get(PROCESS_TIME_HEADER), 64)
	require.Nil(t, err)
	assert.GreaterOrEqual(t, processTime, 0.0)

	req := httptest.NewRequest("GET", "/contacts/by_id/404", nil)
	req.Header.Set(REQUEST_ID_HEADER, "req-42")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get(REQUEST_ID_HEADER), "Should keep the caller's request id")
	assert.NotEmpty(t, rr.Header().Get(PROCESS_TIME_HEADER), "Error responses are timed too")
}

func TestResponseWriterWithStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &ResponseWriterWithStatus{ResponseWriter: rr, Status: http.StatusOK}

	_, err := io.WriteString(rw, "ok")
	assert.Nil(t, err)
	rw.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rw.Status, "An implicit 200 can't be overwritten")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(PROCESS_TIME_HEADER))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doRequest(router, "GET", "/contacts", "")
	doRequest(router, "POST", "/contacts", contactJSON("harvey", "specter", "harvey@pearson.com", "555-0172", "1990-06-05"))

	rr := doRequest(router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `contacts_http_requests_total{method="GET",path="/contacts",status="200"}`)
	assert.Contains(t, body, `contacts_writes_total{operation="create",outcome="success"}`)
	assert.NotContains(t, rr.Header().Get("Content-Type"), "application/json")
}
