package server

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Daskott/contacts/server/birthdays"
	"github.com/Daskott/contacts/server/gstorage"
	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/server/twilio"
	"github.com/Daskott/contacts/server/work"
	"github.com/Daskott/contacts/utils"
	"github.com/pkg/errors"
)

const (
	BIRTHDAY_DIGEST_JOB = "birthdayDigest"
	SQLITE_BACKUP_JOB   = "backupSqliteDb"

	DEFAULT_BIRTHDAY_DIGEST_SCHEDULE = "0 8 * * 1"

	jobTimeout = 2 * time.Minute
)

var (
	// messenger & ownerNumber are set when the digest should also go out by SMS
	messenger   twilio.Messenger
	ownerNumber string

	// backupBucket & dbFilePath are set when sqlite backups are enabled
	backupBucket gstorage.Bucket
	dbFilePath   string
)

func birthdayDigest(map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	contacts, err := models.ListContacts(ctx)
	if err != nil {
		return errors.Wrap(err, "birthday digest")
	}

	upcoming := birthdays.UpcomingWeek(now().In(location), contacts)
	if len(upcoming) == 0 {
		logg.Info("No birthdays coming up this week")
		return nil
	}

	digest := digestMessage(upcoming)
	logg.Info(digest)

	if messenger == nil || ownerNumber == "" {
		return nil
	}

	return errors.Wrap(messenger.SendMessage(ownerNumber, digest), "send birthday digest")
}

func digestMessage(contacts []models.Contact) string {
	var sb strings.Builder
	sb.WriteString("Birthdays this week:")
	for _, contact := range contacts {
		sb.WriteString(fmt.Sprintf("\n- %s %s, %s (%s)",
			contact.Name, contact.Lastname, contact.Birthday.Format("Jan 02"), contact.Phone))
	}
	return sb.String()
}

func backupSqliteDb(map[string]interface{}) error {
	if backupBucket == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := models.Checkpoint(ctx)
	if err != nil {
		return err
	}

	err = backupBucket.UploadFile(ctx, dbFilePath)
	if err != nil {
		return errors.Wrap(err, "backup sqlite db")
	}

	logg.Infof("Uploaded %s backup", dbFilePath)
	return nil
}

// restoreSqliteDb pulls the last backup when there is no local database yet.
func restoreSqliteDb() error {
	if backupBucket == nil {
		return nil
	}

	if utils.FileExist(dbFilePath) {
		return nil
	}

	err := utils.CreateDirIfNotExist(filepath.Dir(dbFilePath))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err = backupBucket.RestoreFile(ctx, dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Info("No sqlite backup to restore, starting with an empty database")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "restore sqlite db")
	}

	logg.Infof("Restored %s from backup", dbFilePath)
	return nil
}

func registerJobHandlers(wpa *work.WorkerPoolAdapter) error {
	err := wpa.Register(BIRTHDAY_DIGEST_JOB, birthdayDigest)
	if err != nil {
		return err
	}

	return wpa.Register(SQLITE_BACKUP_JOB, backupSqliteDb)
}

func enqueueJobs(wpa *work.WorkerPoolAdapter, digestSchedule, backupSchedule string) error {
	err := wpa.PeriodicallyPerform(digestSchedule, work.JobParams{
		Name:    BIRTHDAY_DIGEST_JOB,
		Handler: BIRTHDAY_DIGEST_JOB,
		Args:    map[string]interface{}{},
	})
	if err != nil {
		return err
	}

	if backupBucket == nil {
		return nil
	}

	return wpa.PeriodicallyPerform(backupSchedule, work.JobParams{
		Name:    SQLITE_BACKUP_JOB,
		Handler: SQLITE_BACKUP_JOB,
		Args:    map[string]interface{}{},
	})
}
