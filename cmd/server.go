/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/contacts/dev/config"
	"github.com/Daskott/contacts/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverDefaults = map[string]interface{}{
	"contacts.listener.port":              3000,
	"contacts.timeZone":                   "UTC",
	"contacts.uniqueKey":                  "name_lastname",
	"contacts.dataDir":                    "",
	"database.driver":                     "sqlite",
	"database.dsn":                        "",
	"sqlite.passPhrase":                   "",
	"cron.birthdayDigestSchedule":         "0 8 * * 1",
	"twilio.accountSid":                   "",
	"twilio.authToken":                    "",
	"twilio.messagingServiceSid":          "",
	"twilio.ownerNumber":                  "",
	"google.applicationCredentials":       "",
	"google.storage.bucket":               "",
	"google.storage.prefix":               "",
	"google.storage.sqliteBackupSchedule": "",
	"google.storage.enableSqliteBackup":   false,
}

func createServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start a contacts server",
		Long: `The contacts server stores your contacts & serves them over HTTP.
Every week it also sends a digest of the birthdays coming up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := serverConfigFile(cfgFile, isDevEnv)
			if err != nil {
				return err
			}

			config, err := loadServerConfig(configFile)
			if err != nil {
				return err
			}

			if isDevEnv {
				fmt.Fprintln(os.Stderr, warningLabel, "running in development mode, SMS will only be logged")
			}

			server.Start(config, isDevEnv)
			return nil
		},
	}
}

// loadServerConfig reads 'configFile' (when set) on top of the defaults.
// Env vars override both, e.g. CONTACTS_LISTENER_PORT for 'contacts.listener.port'.
func loadServerConfig(configFile string) (*viper.Viper, error) {
	config := viper.New()

	for key, value := range serverDefaults {
		config.SetDefault(key, value)
	}

	// The credentials file is usually set by the standard google env var
	config.BindEnv("google.applicationCredentials", "GOOGLE_APPLICATION_CREDENTIALS")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv() // read in environment variables that match

	if configFile == "" {
		return config, nil
	}

	config.SetConfigFile(configFile)
	if err := config.ReadInConfig(); err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())

	return config, nil
}

// serverConfigFile picks the config to use: the --config flag, else the dev
// config in dev mode (written on first use), else $HOME/.contacts.yml if present.
func serverConfigFile(flagValue string, devMode bool) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if devMode {
		return devConfigFilePath()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configFile := filepath.Join(home, ".contacts.yml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return "", nil
	}

	return configFile, nil
}

func devConfigFilePath() (string, error) {
	configDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir = filepath.Join(configDir, "dev", "config")
	configFile := filepath.Join(configDir, "server.yml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(configFile, []byte(devConfig.SERVER_YML), 0600); err != nil {
			return "", err
		}
	}

	return configFile, nil
}
