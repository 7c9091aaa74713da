// Package birthdays finds the contacts whose birthday comes up within the next week.
package birthdays

import (
	"time"

	"github.com/Daskott/contacts/server/models"
)

const (
	WINDOW_DAYS = 7

	// A window crossing new year is moved back by SHIFT_DAYS so that it,
	// and every birthday compared against it, sit in one calendar year.
	SHIFT_DAYS = 14
)

// UpcomingWeek returns, in input order, the contacts whose next birthday
// falls in [today, today+7d). Only the calendar date of 'today' is used.
func UpcomingWeek(today time.Time, contacts []models.Contact) []models.Contact {
	start := dateOf(today)
	end := start.AddDate(0, 0, WINDOW_DAYS)

	shift := 0
	if start.Year() < end.Year() {
		shift = SHIFT_DAYS
		start = start.AddDate(0, 0, -shift)
		end = end.AddDate(0, 0, -shift)
	}

	upcoming := []models.Contact{}
	for _, contact := range contacts {
		birthday := dateOf(contact.Birthday).AddDate(0, 0, -shift)
		projected := projectOnto(birthday, start.Year())

		if !projected.Before(start) && projected.Before(end) {
			upcoming = append(upcoming, contact)
		}
	}

	return upcoming
}

// projectOnto moves 'birthday' to 'year'. Feb 29 becomes Mar 1 when 'year' has no leap day.
func projectOnto(birthday time.Time, year int) time.Time {
	if !dateExists(year, birthday.Month(), birthday.Day()) {
		birthday = birthday.AddDate(0, 0, 1)
	}

	return time.Date(year, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
}

func dateExists(year int, month time.Month, day int) bool {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Month() == month && t.Day() == day
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
