package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderOptions controls where configuration is loaded from.
type LoaderOptions struct {
	// ConfigFile is an explicit config file path. When empty, standard
	// locations are searched and a missing file is not an error.
	ConfigFile string
	// EnvFile is an explicit .env file path. When empty, ./.env is loaded
	// if present.
	EnvFile string
	// EnvPrefix is the environment variable prefix. Defaults to "COMBKIT".
	EnvPrefix string
	// FileSystem overrides file access, for tests. Defaults to the real
	// filesystem.
	FileSystem FileSystem
}

// defaulter is implemented by config structs that fill in defaults.
type defaulter interface {
	ApplyDefaults()
}

// validatable is implemented by config structs that self-validate.
type validatable interface {
	Validate() error
}

// Load reads configuration into a struct of type T: .env file first, then
// the config file, then environment overrides. If T implements
// ApplyDefaults or Validate, they run after unmarshalling, in that order.
func Load[T any](opts LoaderOptions) (*T, error) {
	fs := opts.FileSystem
	if fs == nil {
		fs = &RealFileSystem{}
	}
	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "COMBKIT"
	}

	if err := loadEnvFile(fs, opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = findConfigFile(fs)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	cfg := new(T)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if d, ok := any(cfg).(defaulter); ok {
		d.ApplyDefaults()
	}
	if val, ok := any(cfg).(validatable); ok {
		if err := val.Validate(); err != nil {
			return nil, fmt.Errorf("config: validate: %w", err)
		}
	}
	return cfg, nil
}

// loadEnvFile loads an explicit env file, or ./.env when present.
func loadEnvFile(fs FileSystem, explicit string) error {
	if explicit != "" {
		if err := fs.LoadEnv(explicit); err != nil {
			return fmt.Errorf("config: load env file %s: %w", explicit, err)
		}
		return nil
	}
	if fs.Exists(".env") {
		if err := fs.LoadEnv(".env"); err != nil {
			return fmt.Errorf("config: load .env: %w", err)
		}
	}
	return nil
}

// findConfigFile searches standard locations for a config file.
func findConfigFile(fs FileSystem) string {
	searchPaths := []string{
		"./config.yml",
		"./config.yaml",
		"./config/config.yml",
		"./config/config.yaml",
	}
	for _, path := range searchPaths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}
