package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	models.InitializeTestDb(t)
	return newRouter()
}

func freezeTime(t *testing.T, today time.Time) {
	t.Helper()
	originalNow := now
	now = func() time.Time { return today }
	t.Cleanup(func() { now = originalNow })
}

func doRequest(router http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func contactJSON(name, lastname, email, phone, birthday string) string {
	return fmt.Sprintf(`{"name":%q,"lastname":%q,"email":%q,"phone":%q,"birthday":%q,"note":"from the firm"}`,
		name, lastname, email, phone, birthday)
}

func createTestContact(t *testing.T, router http.Handler, name, lastname, email, birthday string) ContactResponse {
	t.Helper()
	rr := doRequest(router, "POST", "/contacts", contactJSON(name, lastname, email, "555-0172", birthday))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeContact(t, rr)
}

func decodeContact(t *testing.T, rr *httptest.ResponseRecorder) ContactResponse {
	t.Helper()
	contact := ContactResponse{}
	require.Nil(t, json.NewDecoder(rr.Body).Decode(&contact))
	return contact
}

func decodeContacts(t *testing.T, rr *httptest.ResponseRecorder) []ContactResponse {
	t.Helper()
	contacts := []ContactResponse{}
	require.Nil(t, json.NewDecoder(rr.Body).Decode(&contacts))
	return contacts
}

func decodeErrors(t *testing.T, rr *httptest.ResponseRecorder) ResponsePayload {
	t.Helper()
	payload := ResponsePayload{}
	require.Nil(t, json.NewDecoder(rr.Body).Decode(&payload))
	return payload
}

func TestCreateContact(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "POST", "/contacts", contactJSON("harvey", "specter", "harvey@pearson.com", "+1 (202)  555 - 0172", "1990-06-05"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decodeContact(t, rr)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "+1 (202) 555-0172", created.Phone, "Should store the normalized phone")
	assert.Equal(t, "1990-06-05", created.Birthday)
	assert.Equal(t, "from the firm", created.Note)

	cases := []struct {
		description    string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			description:    "Should reject the same name & lastname",
			body:           contactJSON("harvey", "specter", "other@pearson.com", "555-0172", "1990-06-05"),
			expectedStatus: http.StatusConflict,
			expectedError:  models.ErrConflict.Error(),
		},
		{
			description:    "Should reject the same email",
			body:           contactJSON("mike", "ross", "harvey@pearson.com", "555-0172", "1990-06-05"),
			expectedStatus: http.StatusConflict,
			expectedError:  models.ErrConflict.Error(),
		},
		{
			description:    "Should reject an invalid email",
			body:           contactJSON("mike", "ross", "not-an-email", "555-0172", "1990-06-05"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "wrong email 'not-an-email'",
		},
		{
			description:    "Should reject an invalid phone, reporting its normalized form",
			body:           contactJSON("mike", "ross", "mike@pearson.com", "abc  - 123", "1990-06-05"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "wrong phone 'abc-123'",
		},
		{
			description:    "Should reject a birthday that is not YYYY-MM-DD",
			body:           contactJSON("mike", "ross", "mike@pearson.com", "555-0172", "05/06/1990"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "wrong birthday '05/06/1990'",
		},
		{
			description:    "Should reject a name that is too long",
			body:           contactJSON(strings.Repeat("m", 51), "ross", "mike@pearson.com", "555-0172", "1990-06-05"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "should be at most 50 characters long",
		},
		{
			description:    "Should reject a missing lastname",
			body:           `{"name":"mike","email":"mike@pearson.com","phone":"555-0172","birthday":"1990-06-05"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "wrong lastname '': this field is required",
		},
		{
			description:    "Should reject malformed JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  ErrMalformedBody.Error(),
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			rr := doRequest(router, "POST", "/contacts", c.body)
			assert.Equal(t, c.expectedStatus, rr.Code)

			payload := decodeErrors(t, rr)
			assert.False(t, payload.Success)
			assert.Contains(t, strings.Join(payload.Errors, "\n"), c.expectedError)
		})
	}

	rr = doRequest(router, "GET", "/contacts", "")
	assert.Len(t, decodeContacts(t, rr), 1, "Rejected creates should store nothing")
}

func TestGetContacts(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "GET", "/contacts", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String(), "An empty store should give an empty list")

	createTestContact(t, router, "harvey", "specter", "harvey@pearson.com", "1990-06-05")
	createTestContact(t, router, "mike", "ross", "mike@pearson.com", "1992-02-29")

	rr = doRequest(router, "GET", "/contacts", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeContacts(t, rr), 2)
}

func TestGetContactByID(t *testing.T) {
	router := newTestRouter(t)
	harvey := createTestContact(t, router, "harvey", "specter", "harvey@pearson.com", "1990-06-05")

	cases := []struct {
		description    string
		id             string
		expectedStatus int
	}{
		{description: "Should find an existing contact", id: fmt.Sprint(harvey.ID), expectedStatus: http.StatusOK},
		{description: "Should not find a missing contact", id: "404", expectedStatus: http.StatusNotFound},
		{description: "Should reject a non numeric id", id: "abc", expectedStatus: http.StatusUnprocessableEntity},
		{description: "Should reject an id below 1", id: "0", expectedStatus: http.StatusUnprocessableEntity},
		{description: "Should reject a negative id", id: "-1", expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			rr := doRequest(router, "GET", "/contacts/by_id/"+c.id, "")
			assert.Equal(t, c.expectedStatus, rr.Code)
		})
	}

	rr := doRequest(router, "GET", fmt.Sprintf("/contacts/by_id/%v", harvey.ID), "")
	assert.Equal(t, harvey, decodeContact(t, rr))
}

func TestSearchContacts(t *testing.T) {
	router := newTestRouter(t)
	createTestContact(t, router, "Donna", "Paulsen", "donna@pearson.com", "1980-03-04")
	createTestContact(t, router, "donna", "litt", "dl@pearson.com", "1981-03-04")
	createTestContact(t, router, "rachel", "zane", "Rachel@Pearson.com", "1985-08-11")

	rr := doRequest(router, "GET", "/contacts/by_name/DONNA", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeContacts(t, rr), 2)

	rr = doRequest(router, "GET", "/contacts/by_name/nobody", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeContacts(t, rr))

	rr = doRequest(router, "GET", "/contacts/by_lastname/paulsen", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	byLastname := decodeContacts(t, rr)
	require.Len(t, byLastname, 1)
	assert.Equal(t, "Donna", byLastname[0].Name)

	rr = doRequest(router, "GET", "/contacts/by_email/rachel@pearson.com", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "zane", decodeContact(t, rr).Lastname)

	rr = doRequest(router, "GET", "/contacts/by_email/nobody@pearson.com", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateContact(t *testing.T) {
	router := newTestRouter(t)
	harvey := createTestContact(t, router, "harvey", "specter", "harvey@pearson.com", "1990-06-05")
	mike := createTestContact(t, router, "mike", "ross", "mike@pearson.com", "1992-02-29")

	cases := []struct {
		description    string
		id             string
		body           string
		expectedStatus int
	}{
		{
			description:    "Should reject a name & lastname taken by another contact",
			id:             fmt.Sprint(mike.ID),
			body:           contactJSON("harvey", "specter", "mike@pearson.com", "555-0172", "1992-02-29"),
			expectedStatus: http.StatusConflict,
		},
		{
			description:    "Should not update a missing contact",
			id:             "404",
			body:           contactJSON("louis", "litt", "louis@pearson.com", "555-0172", "1975-01-01"),
			expectedStatus: http.StatusNotFound,
		},
		{
			description:    "Should reject an invalid body",
			id:             fmt.Sprint(mike.ID),
			body:           contactJSON("mike", "ross", "mike@pearson.com", "call me", "1992-02-29"),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			description:    "Should reject malformed JSON",
			id:             fmt.Sprint(mike.ID),
			body:           `[]`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			description:    "Should reject an invalid id",
			id:             "mike",
			body:           contactJSON("mike", "ross", "mike@pearson.com", "555-0172", "1992-02-29"),
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			rr := doRequest(router, "PUT", "/contacts/"+c.id, c.body)
			assert.Equal(t, c.expectedStatus, rr.Code, rr.Body.String())
		})
	}

	rr := doRequest(router, "PUT", fmt.Sprintf("/contacts/%v", harvey.ID),
		contactJSON("louis", "litt", "louis@pearson.com", "555 - 0100", "1975-12-31"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	updated := decodeContact(t, rr)
	assert.Equal(t, harvey.ID, updated.ID, "Update should never change the id")
	assert.Equal(t, "louis", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, "1975-12-31", updated.Birthday)

	rr = doRequest(router, "GET", fmt.Sprintf("/contacts/by_id/%v", mike.ID), "")
	assert.Equal(t, mike, decodeContact(t, rr), "Rejected updates should leave the record untouched")
}

func TestDeleteContact(t *testing.T) {
	router := newTestRouter(t)
	harvey := createTestContact(t, router, "harvey", "specter", "harvey@pearson.com", "1990-06-05")

	rr := doRequest(router, "DELETE", fmt.Sprintf("/contacts/%v", harvey.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, harvey, decodeContact(t, rr), "Delete should return the prior record")

	rr = doRequest(router, "DELETE", fmt.Sprintf("/contacts/%v", harvey.ID), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(router, "GET", fmt.Sprintf("/contacts/by_id/%v", harvey.ID), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(router, "DELETE", "/contacts/0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestBirthdaysAlongWeek(t *testing.T) {
	router := newTestRouter(t)
	freezeTime(t, time.Date(2023, time.December, 29, 10, 0, 0, 0, time.UTC))

	createTestContact(t, router, "jessica", "pearson", "jessica@pearson.com", "1970-12-31")
	createTestContact(t, router, "louis", "litt", "louis@pearson.com", "1975-01-05")
	createTestContact(t, router, "donna", "paulsen", "donna@pearson.com", "1980-01-04")
	createTestContact(t, router, "robert", "zane", "robert@zane.com", "1960-12-28")

	rr := doRequest(router, "GET", "/contacts/birthdays_along_week", "")
	require.Equal(t, http.StatusOK, rr.Code)

	names := []string{}
	for _, contact := range decodeContacts(t, rr) {
		names = append(names, contact.Name)
	}
	assert.Equal(t, []string{"jessica", "donna"}, names)
}

func TestBirthdaysAlongWeekUsesLocation(t *testing.T) {
	router := newTestRouter(t)

	toronto, err := time.LoadLocation("America/Toronto")
	require.Nil(t, err)
	originalLocation := location
	location = toronto
	t.Cleanup(func() { location = originalLocation })

	// Already June 8th in UTC, still June 7th in Toronto
	freezeTime(t, time.Date(2023, time.June, 8, 2, 0, 0, 0, time.UTC))
	createTestContact(t, router, "harvey", "specter", "harvey@pearson.com", "1990-06-07")

	rr := doRequest(router, "GET", "/contacts/birthdays_along_week", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeContacts(t, rr), 1)
}

func TestHealthChecker(t *testing.T) {
	router := newTestRouter(t)

	rr := doRequest(router, "GET", "/api/healthchecker", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Welcome to contacts!"}`, rr.Body.String())
}
