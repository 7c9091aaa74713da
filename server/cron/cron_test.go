package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	cases := []struct {
		description string
		timeZone    string
		expected    string
	}{
		{description: "Should default to UTC", timeZone: "", expected: "UTC"},
		{description: "Should load a known zone", timeZone: "America/Toronto", expected: "America/Toronto"},
		{description: "Should fall back to UTC for an unknown zone", timeZone: "Mars/Olympus_Mons", expected: "UTC"},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			assert.Equal(t, c.expected, Location(c.timeZone).String())
		})
	}
}

func TestNewCronScheduler(t *testing.T) {
	scheduler := NewCronScheduler("UTC")

	_, err := scheduler.Cron("0 8 * * 1").Tag("digest").Do(func() {})
	assert.Nil(t, err)

	_, err = scheduler.Cron("0 9 * * 1").Tag("digest").Do(func() {})
	assert.NotNil(t, err, "Tags should be unique")
	assert.Equal(t, time.UTC, scheduler.Location())
}
