// Package config loads combkit settings from files and the environment.
//
// It uses Viper to read YAML configuration and godotenv to load .env files.
// Environment variables override file values using the COMBKIT_ prefix with
// underscore-separated paths (e.g. COMBKIT_LOGGING_LEVEL).
//
//	settings, err := config.Load[config.Settings](config.LoaderOptions{})
//	if err != nil {
//	    return err
//	}
//	caller, err := apicaller.New(settings.Callers["events"])
package config
