/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/errandhq/errandsync/types"
)

const (
	configName = ".errandsync"
	envPrefix  = "ERRANDSYNC"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance, it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. ERRANDSYNC_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setConfigDefaults()

	if cfgFileFlag := viper.GetString("config"); cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
		// Running without a config file is the common case.
	} else if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: unable to decode config: %v\n", err)
		os.Exit(1)
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
}

func setConfigDefaults() {
	viper.SetDefault("server.port", 8347)
	viper.SetDefault("payments.requestTimeoutSeconds", 30)
	viper.SetDefault("payments.country", "NG")
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// GetConfig returns the unmarshaled application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}

// CurrentUserID resolves the acting user identity, preferring the --user
// flag over configuration.
func CurrentUserID() string {
	if userID != "" {
		return userID
	}
	return GlobalAppConfig.User.ID
}
