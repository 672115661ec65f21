package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // app.timezone must resolve on hosts without zoneinfo

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StorageConfig selects where the app document lives.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"` // memory, file, sqlite or mongo
	Path      string `mapstructure:"path"`   // Directory for file, database file for sqlite
	Watch     bool   `mapstructure:"watch"`  // Follow writes made by other processes
	AsyncLoad bool   `mapstructure:"async_load"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	LinkExpiry      time.Duration `mapstructure:"link_expiry"`
}

// Enabled reports whether export sharing has a bucket to upload to.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// AuthConfig holds the bcrypt hash of the API passcode. Empty disables auth.
type AuthConfig struct {
	PasscodeHash string `mapstructure:"passcode_hash"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type AppConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name; "today" is computed in this zone
}

// Location resolves the configured timezone, falling back to the host zone.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// LoadConfig reads configuration from config.yaml in path and from environment
// variables, e.g. storage.driver -> STORAGE_DRIVER.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.watch", true)
	v.SetDefault("storage.async_load", false)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "runrep")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.link_expiry", "24h")
	v.SetDefault("auth.passcode_hash", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "720h")
	v.SetDefault("app.timezone", "Local")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}

// Validate checks combinations Unmarshal cannot.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	if c.Auth.PasscodeHash != "" && c.JWT.Secret == "" {
		return errors.New("jwt.secret is required when auth.passcode_hash is set")
	}
	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}
