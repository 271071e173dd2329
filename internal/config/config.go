package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Gateway  GatewayConfig
	Auth     AuthConfig
	Order    OrderConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type LogConfig struct {
	Level string
}

// RedisConfig is optional. An empty Addr disables the product cache.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ProductTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig is optional. Without brokers events are dropped by a no-op publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type GatewayConfig struct {
	BaseURL               string
	APIKey                string
	CallbackKey           string
	SourceCurrency        string
	DefaultTargetCurrency string
	// TargetCurrencies maps a payment method tag to the currency the gateway converts into.
	TargetCurrencies map[string]string
}

// MinJWTSecretLength is the shortest HS256 signing secret Load accepts.
const MinJWTSecretLength = 32

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type OrderConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type CatalogConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load reads configuration from the environment. When CONFIG_FILE is set, the file
// (any format viper understands) is read first and environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "storefront")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PRODUCT_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront.events")
	v.SetDefault("GATEWAY_BASE_URL", "https://pay.example.com/checkout")
	v.SetDefault("GATEWAY_API_KEY", "")
	v.SetDefault("GATEWAY_CALLBACK_KEY", "")
	v.SetDefault("GATEWAY_SOURCE_CURRENCY", "USD")
	v.SetDefault("GATEWAY_DEFAULT_TARGET_CURRENCY", "BTC")
	v.SetDefault("GATEWAY_TARGET_CURRENCIES", "bitcoin:BTC,btc:BTC,ethereum:ETH,eth:ETH,usdt:USDT")
	v.SetDefault("AUTH_TOKEN_TTL", "12h")
	v.SetDefault("ORDER_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("CATALOG_DEFAULT_LIMIT", 20)
	v.SetDefault("CATALOG_MAX_LIMIT", 100)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
		"DB_CONN_MAX_LIFETIME", "REDIS_PRODUCT_TTL", "AUTH_TOKEN_TTL", "ORDER_TX_TIMEOUT",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	secret := v.GetString("AUTH_JWT_SECRET")
	if len(secret) < MinJWTSecretLength {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set to at least %d bytes", MinJWTSecretLength)
	}

	targets, err := parseCurrencyMap(v.GetString("GATEWAY_TARGET_CURRENCIES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:    durations["SERVER_WRITE_TIMEOUT"],
			ShutdownTimeout: durations["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			ProductTTL: durations["REDIS_PRODUCT_TTL"],
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Gateway: GatewayConfig{
			BaseURL:               v.GetString("GATEWAY_BASE_URL"),
			APIKey:                v.GetString("GATEWAY_API_KEY"),
			CallbackKey:           v.GetString("GATEWAY_CALLBACK_KEY"),
			SourceCurrency:        v.GetString("GATEWAY_SOURCE_CURRENCY"),
			DefaultTargetCurrency: v.GetString("GATEWAY_DEFAULT_TARGET_CURRENCY"),
			TargetCurrencies:      targets,
		},
		Auth: AuthConfig{
			JWTSecret: secret,
			TokenTTL:  durations["AUTH_TOKEN_TTL"],
		},
		Order: OrderConfig{
			TxTimeout:        durations["ORDER_TX_TIMEOUT"],
			MaxRetryAttempts: v.GetInt("ORDER_MAX_RETRY_ATTEMPTS"),
		},
		Catalog: CatalogConfig{
			DefaultLimit: v.GetInt("CATALOG_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("CATALOG_MAX_LIMIT"),
		},
	}

	if cfg.Order.MaxRetryAttempts < 1 {
		cfg.Order.MaxRetryAttempts = 1
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseCurrencyMap parses "method:CUR,method2:CUR2". Method keys are lower-cased.
func parseCurrencyMap(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(s) {
		method, currency, ok := strings.Cut(pair, ":")
		method = strings.ToLower(strings.TrimSpace(method))
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if !ok || method == "" || currency == "" {
			return nil, fmt.Errorf("invalid GATEWAY_TARGET_CURRENCIES entry %q", pair)
		}
		out[method] = currency
	}
	return out, nil
}
