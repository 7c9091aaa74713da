package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Daskott/contacts/colors"
	"github.com/google/uuid"
)

const (
	REQUEST_ID_HEADER   = "X-Request-Id"
	PROCESS_TIME_HEADER = "X-Process-Time"
)

type RequestContextKey string

// ResponseWriterWithStatus records the status & stamps the process time
// header just before the first byte goes out.
type ResponseWriterWithStatus struct {
	http.ResponseWriter
	Status      int
	start       time.Time
	wroteHeader bool
}

func (r *ResponseWriterWithStatus) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.Status = status
	r.Header().Set(PROCESS_TIME_HEADER, fmt.Sprintf("%f", time.Since(r.start).Seconds()))
	r.ResponseWriter.WriteHeader(status)
}

func (r *ResponseWriterWithStatus) Write(body []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(body)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responseWriter := &ResponseWriterWithStatus{
			ResponseWriter: w,
			Status:         http.StatusOK,
			start:          time.Now(),
		}

		defer func() {
			logg.Infof("%s %s %s %s %s",
				colors.Method(r.Method),
				r.RequestURI,
				colors.Status(responseWriter.Status),
				colors.Yellow(fmt.Sprintf("[%v]", time.Since(responseWriter.start))),
				w.Header().Get(REQUEST_ID_HEADER),
			)
		}()

		next.ServeHTTP(responseWriter, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(REQUEST_ID_HEADER, requestID)
		ctx := context.WithValue(r.Context(), RequestContextKey("requestID"), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
