package config

const SERVER_YML = `
contacts:
  listener:
    port: 3000
  timeZone: "America/Toronto"
  uniqueKey: name_lastname

database:
  driver: sqlite

sqlite:
  passPhrase: passphrase

cron:
  birthdayDigestSchedule: "*/5 * * * *"

google:
  storage:
    bucket: "contacts"
    prefix: "contacts-dev"
    sqliteBackupSchedule: "*/30 * * * *"
    enableSqliteBackup: false
  applicationCredentials:

twilio:
  accountSid:
  authToken:
  messagingServiceSid:
  ownerNumber:
`
