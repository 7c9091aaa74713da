package cron

import (
	"time"

	"github.com/Daskott/contacts/server/logger"
	"github.com/go-co-op/gocron"
)

var logg = logger.NewLogger()

// NewCronScheduler returns a scheduler running in 'timeZone', falling back
// to UTC when the zone is unknown. Tags are unique so a job can't be scheduled twice.
func NewCronScheduler(timeZone string) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(Location(timeZone))
	scheduler.TagsUnique()

	return scheduler
}

// Location loads 'timeZone', or UTC when it's empty or unknown.
func Location(timeZone string) *time.Location {
	if timeZone == "" {
		return time.UTC
	}

	location, err := time.LoadLocation(timeZone)
	if err != nil {
		logg.Warnf("Unknown time zone '%s', using UTC: %v", timeZone, err)
		return time.UTC
	}

	return location
}
