package config

import (
	"reflect"
	"strings"

	"shaper-sync/core/database"
	"shaper-sync/core/logger"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/shaper"
	"shaper-sync/core/storage"
	"shaper-sync/core/store"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the daemon, divided into partial
// configurations per concern.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Engine holds the reconciliation engine tunables.
	Engine reconcile.Config `mapstructure:"engine"`
	// Paths holds the locations of the persisted and declarative files.
	Paths store.Config `mapstructure:"paths"`
	// Shaper holds the external reload command settings.
	Shaper shaper.Config `mapstructure:"shaper"`
	// Database holds the optional audit database connection.
	Database database.Config `mapstructure:"database"`
	// Mirror holds the optional object storage mirror settings.
	Mirror storage.Config `mapstructure:"mirror"`
	// Status holds the optional status HTTP endpoint settings.
	Status StatusConfig `mapstructure:"status"`
}

// StatusConfig configures the local status endpoint.
type StatusConfig struct {
	// Enabled turns the HTTP endpoint on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Port is the listen port.
	Port string `mapstructure:"port" default:"8423"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists; missing is fine (e.g. production).
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. ENGINE_GRACE_SECONDS -> engine.grace_seconds)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default
// values in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
