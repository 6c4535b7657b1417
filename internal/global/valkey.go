package global

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// LoadValkeyConfig returns the Valkey/Redis configuration from Viper,
// grounded on LoadPostgresConfig/LoadNATSConfig's default-then-override
// shape.
func LoadValkeyConfig() *ValkeyConfig {
	viper.SetDefault("VALKEY_HOST", "localhost")
	viper.SetDefault("VALKEY_PORT", 6379)
	viper.SetDefault("VALKEY_DB", 0)

	return &ValkeyConfig{
		Host:     viper.GetString("VALKEY_HOST"),
		Port:     viper.GetInt("VALKEY_PORT"),
		Password: viper.GetString("VALKEY_PASSWORD"),
		DB:       viper.GetInt("VALKEY_DB"),
	}
}

// Client returns a go-redis client for this configuration. The caller
// owns the returned client's lifecycle (Close it on shutdown).
func (c ValkeyConfig) Client() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password: c.Password,
		DB:       c.DB,
	})
}
