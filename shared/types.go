package shared

type ServerConfig struct {
	Contacts ContactsConfig `mapstructure:"contacts" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Cron     CronConfig     `mapstructure:"cron"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type ContactsConfig struct {
	Listener  ListenerConfig `mapstructure:"listener" validate:"required"`
	TimeZone  string         `mapstructure:"timeZone"`
	UniqueKey string         `mapstructure:"uniqueKey" validate:"omitempty,oneof=name_lastname name_lastname_email"`
	DataDir   string         `mapstructure:"dataDir"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=sqlite postgres"`
	DSN    string `mapstructure:"dsn"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
}

type CronConfig struct {
	BirthdayDigestSchedule string `mapstructure:"birthdayDigestSchedule"`
}

type TwilioConfig struct {
	AccountSid          string `mapstructure:"accountSid"`
	AuthToken           string `mapstructure:"authToken" validate:"required_with=AccountSid"`
	MessagingServiceSid string `mapstructure:"messagingServiceSid" validate:"required_with=AccountSid"`
	OwnerNumber         string `mapstructure:"ownerNumber" validate:"omitempty,e164"`
}

// Enabled reports whether enough is configured to send SMS.
func (tc TwilioConfig) Enabled() bool {
	return tc.AccountSid != "" && tc.OwnerNumber != ""
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket               string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackup"`
	Prefix               string `mapstructure:"prefix"`
	SqliteBackupSchedule string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackup"`
	EnableSqliteBackup   bool   `mapstructure:"enableSqliteBackup"`
}
