package cmd

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime parameter of the dispatch service. Values come
// from the environment, optionally seeded from a .env file.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"dispatch"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// RedisAddr selects the location store: empty keeps positions in
	// process memory, anything else connects to Redis.
	RedisAddr string `env:"REDIS_ADDR"`

	KafkaBrokers          []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaOrderEventsTopic string   `env:"KAFKA_ORDER_EVENTS_TOPIC" envDefault:"order-events"`

	OfferResponseWindow time.Duration `env:"OFFER_RESPONSE_WINDOW" envDefault:"30s"`
	MaxOfferRounds      int           `env:"MAX_OFFER_ROUNDS" envDefault:"5"`
	DispatchTimeBudget  time.Duration `env:"DISPATCH_TIME_BUDGET" envDefault:"5m"`
	LocationMinInterval time.Duration `env:"LOCATION_MIN_INTERVAL" envDefault:"5s"`

	PayoutPercent      int   `env:"PAYOUT_PERCENT" envDefault:"80"`
	PayoutMinimumCents int64 `env:"PAYOUT_MINIMUM_CENTS" envDefault:"200"`
}

// ParseConfig reads the configuration from the environment. A missing .env
// file is not an error; explicit environment variables always win.
func ParseConfig() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// DBConnectionString builds the postgres DSN from the DB fields.
func (c Config) DBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
