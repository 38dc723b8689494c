/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee Templater commands. Provides common
configuration loading, logging setup, engine construction, and store access used
across all command implementations.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-templater/pkg/engines"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/logging"
	"github.com/kleascm/akaylee-templater/pkg/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from files and environment.
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	viper.SetEnvPrefix("AKAYLEE")
	viper.AutomaticEnv()
	return nil
}

// SetupLogging builds the logger from the persistent flags.
func SetupLogging() (*logrus.Logger, error) {
	return logging.NewLogger(&logging.Config{
		Level:     viper.GetString("log_level"),
		Format:    logging.LogFormat(viper.GetString("log_format")),
		OutputDir: viper.GetString("log_dir"),
		Colors:    true,
	})
}

// BuildOracleEngine constructs the oracle engine from the --oracle-cmd flag.
func BuildOracleEngine() (interfaces.OracleEngine, error) {
	command := strings.Fields(viper.GetString("oracle_cmd"))
	if len(command) == 0 {
		return nil, fmt.Errorf("no oracle engine configured (set --oracle-cmd)")
	}
	return engines.NewProcessOracleEngine(command), nil
}

// BuildTemplateEngine constructs the target engine from the --engine-cmd flag.
func BuildTemplateEngine() (interfaces.TemplateEngine, error) {
	command := strings.Fields(viper.GetString("engine_cmd"))
	if len(command) == 0 {
		return nil, fmt.Errorf("no target engine configured (set --engine-cmd)")
	}
	return engines.NewProcessTemplateEngine(command), nil
}

// OpenStore opens the template database at path.
func OpenStore(path string) (*store.SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("no template database given")
	}
	return store.Open(path)
}
