package server

import (
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/server/validation"
)

// ContactModel is the body accepted by create & update.
type ContactModel struct {
	Name     string `json:"name" validate:"required,max=50"`
	Lastname string `json:"lastname" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,max=100,email"`
	Phone    string `json:"phone" validate:"required,max=50,phone_number"`
	Birthday string `json:"birthday" validate:"required,iso_date"`
	Note     string `json:"note" validate:"max=250"`
}

// ContactResponse is the wire shape of a stored contact.
type ContactResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`
	Note     string `json:"note"`
}

// toContactFields normalizes the phone, validates every field and
// returns what gets stored.
func (cm ContactModel) toContactFields() (models.ContactFields, error) {
	cm.Phone = validation.NormalizePhone(cm.Phone)

	err := validation.Struct(validate, cm)
	if err != nil {
		return models.ContactFields{}, err
	}

	birthday, err := time.Parse(validation.DATE_LAYOUT, cm.Birthday)
	if err != nil {
		return models.ContactFields{}, &validation.InvalidFormatError{
			Field: "birthday",
			Value: cm.Birthday,
			Rule:  err.Error(),
		}
	}

	return models.ContactFields{
		Name:     cm.Name,
		Lastname: cm.Lastname,
		Email:    cm.Email,
		Phone:    cm.Phone,
		Birthday: birthday,
		Note:     cm.Note,
	}, nil
}

func toContactResponse(contact models.Contact) ContactResponse {
	return ContactResponse{
		ID:       contact.ID,
		Name:     contact.Name,
		Lastname: contact.Lastname,
		Email:    contact.Email,
		Phone:    contact.Phone,
		Birthday: contact.Birthday.Format(validation.DATE_LAYOUT),
		Note:     contact.Note,
	}
}

func toContactResponses(contacts []models.Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		responses = append(responses, toContactResponse(contact))
	}
	return responses
}
