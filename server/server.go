package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Daskott/contacts/server/cron"
	"github.com/Daskott/contacts/server/gstorage"
	"github.com/Daskott/contacts/server/logger"
	"github.com/Daskott/contacts/server/metrics"
	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/server/twilio"
	"github.com/Daskott/contacts/server/validation"
	"github.com/Daskott/contacts/server/work"
	"github.com/Daskott/contacts/shared"
	"github.com/Daskott/contacts/utils"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	logg          = logger.NewLogger()
	serverMetrics = metrics.New()
)

func Start(configValues *viper.Viper, devMode bool) {
	config, err := loadConfig(configValues)
	fatalOnError(err)

	location = cron.Location(config.Contacts.TimeZone)

	uniqueKey, err := models.ParseUniqueKey(config.Contacts.UniqueKey)
	fatalOnError(err)

	dbRootDir := dataDirectory(config.Contacts.DataDir, devMode)
	usingSqlite := config.Database.Driver == "" || config.Database.Driver == models.SQLITE_DRIVER
	dbFilePath = models.DbFilePath(dbRootDir)

	if usingSqlite && config.Google.Storage.EnableSqliteBackup {
		storage := config.Google.Storage
		backupBucket, err = gstorage.NewGStorage(config.Google.ApplicationCredentials, storage.Bucket, storage.Prefix)
		fatalOnError(err)
		fatalOnError(restoreSqliteDb())
	}

	if config.Twilio.Enabled() {
		messenger = twilio.NewClient(config.Twilio, devMode)
		ownerNumber = config.Twilio.OwnerNumber
	}

	err = models.AutoMigrate(models.DBConfig{
		Driver:     config.Database.Driver,
		DSN:        config.Database.DSN,
		PassPhrase: config.Sqlite.PassPhrase,
		RootDir:    dbRootDir,
		UniqueKey:  uniqueKey,
	})
	fatalOnError(err)

	digestSchedule := config.Cron.BirthdayDigestSchedule
	if digestSchedule == "" {
		digestSchedule = DEFAULT_BIRTHDAY_DIGEST_SCHEDULE
	}

	workerPool := work.NewWorkerAdapter(config.Contacts.TimeZone)
	fatalOnError(registerJobHandlers(workerPool))
	fatalOnError(enqueueJobs(workerPool, digestSchedule, config.Google.Storage.SqliteBackupSchedule))
	workerPool.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.Contacts.Listener.Port),
		Handler: newRouter(),
	}
	go serve(server)

	// Block until we receive a termination signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cleanup(workerPool, server, backupBucket != nil)
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware, serverMetrics.Middleware)

	router.Handle("/metrics", serverMetrics.Handler()).Methods("GET")

	api := router.NewRoute().Subrouter()
	api.Use(contentTypeMiddleware)

	api.HandleFunc("/api/healthchecker", healthChecker).Methods("GET")

	api.HandleFunc("/contacts", getContacts).Methods("GET")
	api.HandleFunc("/contacts", createContact).Methods("POST")
	api.HandleFunc("/contacts/birthdays_along_week", getBirthdaysAlongWeek).Methods("GET")
	api.HandleFunc("/contacts/by_id/{id}", getContactByID).Methods("GET")
	api.HandleFunc("/contacts/by_name/{name}", getContactsByName).Methods("GET")
	api.HandleFunc("/contacts/by_lastname/{lastname}", getContactsByLastname).Methods("GET")
	api.HandleFunc("/contacts/by_email/{email}", getContactByEmail).Methods("GET")
	api.HandleFunc("/contacts/{id}", updateContact).Methods("PUT")
	api.HandleFunc("/contacts/{id}", deleteContact).Methods("DELETE")

	return router
}

// loadConfig decodes & validates the server config.
func loadConfig(configValues *viper.Viper) (*shared.ServerConfig, error) {
	config := shared.ServerConfig{}

	err := configValues.Unmarshal(&config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode server config")
	}

	err = validation.Struct(validate, config)
	if err != nil {
		return nil, errors.Wrap(err, "invalid server config")
	}

	if config.Database.Driver == models.POSTGRES_DRIVER && config.Database.DSN == "" {
		return nil, errors.New("invalid server config: 'database.dsn' is required for the postgres driver")
	}

	return &config, nil
}

// dataDirectory retrieves the directory to store the contacts database.
// Or logs an error message and then calls os.Exit if it's unable to.
func dataDirectory(dataDir string, devMode bool) string {
	if dataDir != "" {
		fatalOnError(utils.CreateDirIfNotExist(dataDir))
		return dataDir
	}

	// Use 'contacts' folder in home directory for prod
	folderName := "contacts"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		folderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	dir := filepath.Join(rootDir, folderName)
	fatalOnError(utils.CreateDirIfNotExist(dir))

	return dir
}
