package models

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"
	"gorm.io/gorm"
)

// UniqueKey names the set of contact fields that must be distinct across all contacts.
type UniqueKey string

const (
	// UNIQUE_NAME_LASTNAME keeps (name, lastname) unique, with email unique on its own.
	UNIQUE_NAME_LASTNAME UniqueKey = "name_lastname"

	// UNIQUE_NAME_LASTNAME_EMAIL keeps only the (name, lastname, email) triple unique.
	UNIQUE_NAME_LASTNAME_EMAIL UniqueKey = "name_lastname_email"

	pgUniqueViolation = "23505"
)

type uniqueIndex struct {
	name    string
	columns string
}

var uniqueIndexes = map[UniqueKey][]uniqueIndex{
	UNIQUE_NAME_LASTNAME: {
		{name: "idx_contacts_name_lastname", columns: "name, lastname"},
		{name: "idx_contacts_email", columns: "email"},
	},
	UNIQUE_NAME_LASTNAME_EMAIL: {
		{name: "idx_contacts_name_lastname_email", columns: "name, lastname, email"},
	},
}

var activeUniqueKey = UNIQUE_NAME_LASTNAME

// ParseUniqueKey maps a config value to a UniqueKey, defaulting to UNIQUE_NAME_LASTNAME.
func ParseUniqueKey(value string) (UniqueKey, error) {
	if value == "" {
		return UNIQUE_NAME_LASTNAME, nil
	}

	key := UniqueKey(value)
	if _, ok := uniqueIndexes[key]; !ok {
		return "", fmt.Errorf("unknown contacts unique key %q, must be %q or %q",
			value, UNIQUE_NAME_LASTNAME, UNIQUE_NAME_LASTNAME_EMAIL)
	}

	return key, nil
}

// EmailIsUnique reports whether the active key makes email unique by itself.
func EmailIsUnique() bool {
	return activeUniqueKey == UNIQUE_NAME_LASTNAME
}

// applyUniqueKey drops the indexes belonging to every other key and creates
// the ones for 'key', so exactly one definition is enforced at a time.
func applyUniqueKey(key UniqueKey) error {
	key, err := ParseUniqueKey(string(key))
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for otherKey, indexes := range uniqueIndexes {
			if otherKey == key {
				continue
			}
			for _, index := range indexes {
				if err := tx.Exec(fmt.Sprintf("DROP INDEX IF EXISTS %s", index.name)).Error; err != nil {
					return err
				}
			}
		}

		for _, index := range uniqueIndexes[key] {
			err := tx.Exec(fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON contacts (%s)",
				index.name, index.columns)).Error
			if err != nil {
				return fmt.Errorf("failed to create unique index %s: %v", index.name, err)
			}
		}

		activeUniqueKey = key
		logg.Infof("Contacts unique key set to '%s'", key)
		return nil
	})
}

// isUniqueViolation recognises a unique constraint failure from any supported driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
