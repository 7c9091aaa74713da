package models

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ContactFields are the user supplied, mutable parts of a contact.
type ContactFields struct {
	Name     string    `json:"name" gorm:"size:50;not null"`
	Lastname string    `json:"lastname" gorm:"size:100;not null"`
	Email    string    `json:"email" gorm:"size:100;not null"`
	Phone    string    `json:"phone" gorm:"size:50;not null"`
	Birthday time.Time `json:"birthday" gorm:"type:date;not null"`
	Note     string    `json:"note" gorm:"size:250"`
}

type Contact struct {
	BaseModel
	ContactFields
}

// updates lists every column an update replaces. Keep it in step with ContactFields.
func (fields ContactFields) updates() map[string]interface{} {
	return map[string]interface{}{
		"name":     fields.Name,
		"lastname": fields.Lastname,
		"email":    fields.Email,
		"phone":    fields.Phone,
		"birthday": dateOnly(fields.Birthday),
		"note":     fields.Note,
	}
}

func ListContacts(ctx context.Context) ([]Contact, error) {
	contacts := []Contact{}
	err := db.WithContext(ctx).Order("id").Find(&contacts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}

	return contacts, nil
}

func FindContact(ctx context.Context, id uint) (*Contact, error) {
	contact := Contact{}
	err := db.WithContext(ctx).First(&contact, id).Error
	if err != nil {
		return nil, notFoundOr(err, "find contact")
	}

	return &contact, nil
}

// FindContactsByName matches 'name' exactly, ignoring case.
func FindContactsByName(ctx context.Context, name string) ([]Contact, error) {
	return findContactsWhere(ctx, "LOWER(name) = LOWER(?)", name)
}

// FindContactsByLastname matches 'lastname' exactly, ignoring case.
func FindContactsByLastname(ctx context.Context, lastname string) ([]Contact, error) {
	return findContactsWhere(ctx, "LOWER(lastname) = LOWER(?)", lastname)
}

// FindContactByEmail matches 'email' exactly, ignoring case. When email is not
// unique on its own the contact with the lowest id wins.
func FindContactByEmail(ctx context.Context, email string) (*Contact, error) {
	contact := Contact{}
	err := db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Order("id").
		First(&contact).Error
	if err != nil {
		return nil, notFoundOr(err, "find contact by email")
	}

	return &contact, nil
}

// CreateContact inserts 'contact' and sets its ID. The unique index decides
// conflicts, so two racing creates can never both succeed.
func CreateContact(ctx context.Context, contact *Contact) error {
	contact.ID = 0
	contact.Birthday = dateOnly(contact.Birthday)

	err := db.WithContext(ctx).Create(contact).Error
	if isUniqueViolation(err) {
		return ErrConflict
	}

	return errors.Wrap(err, "create contact")
}

// UpdateContact replaces every mutable field of contact 'id' and returns the stored result.
func UpdateContact(ctx context.Context, id uint, fields ContactFields) (*Contact, error) {
	contact := Contact{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contact, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&contact).Updates(fields.updates()).Error; err != nil {
			return err
		}

		return tx.First(&contact, id).Error
	})
	if isUniqueViolation(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, notFoundOr(err, "update contact")
	}

	return &contact, nil
}

// DeleteContact removes contact 'id' and returns the record as it was.
func DeleteContact(ctx context.Context, id uint) (*Contact, error) {
	contact := Contact{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contact, id).Error; err != nil {
			return err
		}

		return tx.Delete(&contact).Error
	})
	if err != nil {
		return nil, notFoundOr(err, "delete contact")
	}

	return &contact, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func findContactsWhere(ctx context.Context, query string, value string) ([]Contact, error) {
	contacts := []Contact{}
	err := db.WithContext(ctx).Where(query, value).Order("id").Find(&contacts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find contacts")
	}

	return contacts, nil
}

func notFoundOr(err error, operation string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, operation)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
