package models

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"github.com/Daskott/contacts/server/logger"
	"github.com/Daskott/contacts/utils"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DB_NAME = "contacts.db"

	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "postgres"
)

var logg = logger.NewLogger()
var db *gorm.DB
var activeDriver = SQLITE_DRIVER

// DBConfig describes which database to open and how contacts are kept unique in it.
type DBConfig struct {
	Driver     string
	DSN        string
	PassPhrase string
	RootDir    string
	UniqueKey  UniqueKey
}

// AutoMigrate opens the configured database, migrates the contacts schema
// and installs the unique indexes for the active uniqueness key.
func AutoMigrate(config DBConfig) error {
	err := openDB(config)
	if err != nil {
		return err
	}

	err = db.AutoMigrate(&Contact{})
	if err != nil {
		return errors.Wrap(err, "failed to migrate contacts")
	}

	return applyUniqueKey(config.UniqueKey)
}

// Ping runs a trivial query to confirm the database answers.
func Ping(ctx context.Context) error {
	if db == nil {
		return errors.New("database is not configured")
	}

	var one int
	err := db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
	if err != nil {
		return errors.Wrap(err, "ping database")
	}

	if one != 1 {
		return errors.New("database is not configured correctly")
	}

	return nil
}

// Checkpoint folds the sqlite write-ahead log back into the database file,
// so the file alone is a complete copy. It does nothing for other drivers.
func Checkpoint(ctx context.Context) error {
	if db == nil || activeDriver != SQLITE_DRIVER {
		return nil
	}

	err := db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
	return errors.Wrap(err, "checkpoint database")
}

// Close releases the underlying connection pool.
func Close() error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DbFilePath is where the sqlite database lives under 'dbRootDir'.
func DbFilePath(dbRootDir string) string {
	return filepath.Join(dbRootDir, "db", DB_NAME)
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func openDB(config DBConfig) error {
	dialector, err := dialectorFor(config)
	if err != nil {
		return err
	}

	db, err = gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %v", err)
	}

	activeDriver = config.Driver
	if activeDriver == "" {
		activeDriver = SQLITE_DRIVER
	}

	return nil
}

func dialectorFor(config DBConfig) (gorm.Dialector, error) {
	switch config.Driver {
	case "", SQLITE_DRIVER:
		dsn, err := sqliteDSN(config.PassPhrase, config.RootDir)
		if err != nil {
			return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
		}
		return sqliteEncrypt.Open(dsn), nil
	case POSTGRES_DRIVER:
		if config.DSN == "" {
			return nil, errors.New("a DSN is required for the postgres driver")
		}
		return postgres.Open(config.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}
}

func sqliteDSN(passPhrase string, dbRootDir string) (string, error) {
	err := utils.CreateDirIfNotExist(filepath.Dir(DbFilePath(dbRootDir)))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL&_busy_timeout=5000",
		DbFilePath(dbRootDir),
		passPhrase,
	), nil
}
