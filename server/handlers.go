package server

import (
	"net/http"
	"time"

	"github.com/Daskott/contacts/server/birthdays"
	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/server/validation"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

var (
	validate *validator.Validate

	// location decides which calendar day "today" is for birthdays
	location = time.UTC
	now      = time.Now
)

func init() {
	var err error
	validate, err = validation.New()
	if err != nil {
		logg.Fatal(err)
	}
}

func healthChecker(rw http.ResponseWriter, r *http.Request) {
	err := models.Ping(r.Context())
	if err != nil {
		logg.Error(err)
		writeResponse(rw, ResponsePayload{Errors: []string{"error connecting to the database"}}, http.StatusInternalServerError)
		return
	}

	writeJSON(rw, map[string]string{"message": "Welcome to contacts!"}, http.StatusOK)
}

func getContacts(rw http.ResponseWriter, r *http.Request) {
	contacts, err := models.ListContacts(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponses(contacts), http.StatusOK)
}

func getContactByID(rw http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact, err := models.FindContact(r.Context(), id)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponse(*contact), http.StatusOK)
}

func getContactsByName(rw http.ResponseWriter, r *http.Request) {
	contacts, err := models.FindContactsByName(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponses(contacts), http.StatusOK)
}

func getContactsByLastname(rw http.ResponseWriter, r *http.Request) {
	contacts, err := models.FindContactsByLastname(r.Context(), mux.Vars(r)["lastname"])
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponses(contacts), http.StatusOK)
}

func getContactByEmail(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContactByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponse(*contact), http.StatusOK)
}

func getBirthdaysAlongWeek(rw http.ResponseWriter, r *http.Request) {
	contacts, err := models.ListContacts(r.Context())
	if err != nil {
		writeError(rw, err)
		return
	}

	upcoming := birthdays.UpcomingWeek(now().In(location), contacts)
	writeJSON(rw, toContactResponses(upcoming), http.StatusOK)
}

func createContact(rw http.ResponseWriter, r *http.Request) {
	fields, err := decodeContactFields(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact := models.Contact{ContactFields: fields}
	err = models.CreateContact(r.Context(), &contact)
	countWrite("create", err)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponse(contact), http.StatusCreated)
}

func updateContact(rw http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	fields, err := decodeContactFields(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact, err := models.UpdateContact(r.Context(), id, fields)
	countWrite("update", err)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponse(*contact), http.StatusOK)
}

func deleteContact(rw http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(rw, err)
		return
	}

	contact, err := models.DeleteContact(r.Context(), id)
	countWrite("delete", err)
	if err != nil {
		writeError(rw, err)
		return
	}

	writeJSON(rw, toContactResponse(*contact), http.StatusOK)
}
