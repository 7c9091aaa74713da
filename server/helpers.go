package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/server/validation"
	"github.com/Daskott/contacts/server/work"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var ErrMalformedBody = errors.New("malformed request body")

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	writeJSON(rw, payLoad, statusCode)
}

func writeJSON(rw http.ResponseWriter, body interface{}, statusCode int) {
	rw.WriteHeader(statusCode)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		logg.Errorf("writeJSON: %v", err)
	}
}

// writeError maps 'err' to a status code & writes it as a ResponsePayload.
// Unexpected errors are logged, but never sent to the client.
func writeError(rw http.ResponseWriter, err error) {
	statusCode := statusFor(err)

	var messages []string
	var formatErrors validation.FormatErrors
	switch {
	case errors.As(err, &formatErrors):
		messages = formatErrors.Messages()
	case statusCode == http.StatusInternalServerError:
		logg.Error(err)
		messages = []string{"internal server error"}
	default:
		messages = []string{err.Error()}
	}

	writeResponse(rw, ResponsePayload{Errors: messages}, statusCode)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, validation.ErrInvalidFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseID reads the 'id' path value, which must be a whole number >= 1.
func parseID(r *http.Request) (uint, error) {
	value := mux.Vars(r)["id"]

	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id < 1 {
		return 0, &validation.InvalidFormatError{Field: "id", Value: value, Rule: "should be a whole number >= 1"}
	}

	return uint(id), nil
}

func decodeContactFields(r *http.Request) (models.ContactFields, error) {
	data := ContactModel{}
	decoder := json.NewDecoder(r.Body)

	err := decoder.Decode(&data)
	if err != nil {
		return models.ContactFields{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	return data.toContactFields()
}

func countWrite(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = http.StatusText(statusFor(err))
	}
	serverMetrics.ContactsWritten.WithLabelValues(operation, outcome).Inc()
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Contacts server is listening on port:%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(workerPool *work.WorkerPoolAdapter, server *http.Server, backupDb bool) {
	// Stop all background jobs first, so none runs against a closing database
	workerPool.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Errorf("Contacts server shutdown failed:%+s", err)
	}

	// No more writes can come in, so this is the final copy
	if backupDb {
		if err := backupSqliteDb(nil); err != nil {
			logg.Error(err)
		}
	}

	if err := models.Close(); err != nil {
		logg.Error(err)
	}

	logg.Infof("Contacts server stopped properly")
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
