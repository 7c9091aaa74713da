package models

import "testing"

const testPassPhrase = "passphrase"

// InitializeTestDb points the package at a fresh, encrypted sqlite database
// under tb.TempDir(), using the default unique key.
func InitializeTestDb(tb testing.TB) {
	InitializeTestDbWithKey(tb, UNIQUE_NAME_LASTNAME)
}

func InitializeTestDbWithKey(tb testing.TB, key UniqueKey) {
	tb.Helper()

	err := AutoMigrate(DBConfig{
		Driver:     SQLITE_DRIVER,
		PassPhrase: testPassPhrase,
		RootDir:    tb.TempDir(),
		UniqueKey:  key,
	})
	if err != nil {
		tb.Fatalf("failed to initialize test db: %v", err)
	}

	tb.Cleanup(func() {
		if err := Close(); err != nil {
			tb.Logf("failed to close test db: %v", err)
		}
	})
}
