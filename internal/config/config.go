package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Registry RegistryConfig
	Fanout   FanoutConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Booking  BookingConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RegistryConfig struct {
	// CatalogFile is the JSON tenant catalog; its entry order is the
	// stable registry order used by every fan-out.
	CatalogFile string
}

type FanoutConfig struct {
	// Concurrency bounds how many tenants are queried at once.
	Concurrency int
	// TenantTimeout caps how long a single tenant may stall a fan-out.
	TenantTimeout time.Duration
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	TicketCreated   string
	TicketConfirmed string
	TicketCanceled  string
}

type BookingConfig struct {
	SeatLockTTL time.Duration
}

type DatabaseConfig struct {
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	AutoMigrate  bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Registry: RegistryConfig{
			CatalogFile: getEnv("REGISTRY_FILE", "tenants.json"),
		},
		Fanout: FanoutConfig{
			Concurrency:   getEnvInt("FANOUT_CONCURRENCY", 4),
			TenantTimeout: time.Duration(getEnvInt("TENANT_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_ADDR", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				TicketCreated:   getEnv("KAFKA_TOPIC_TICKET_CREATED", "reservation.ticket.created"),
				TicketConfirmed: getEnv("KAFKA_TOPIC_TICKET_CONFIRMED", "reservation.ticket.confirmed"),
				TicketCanceled:  getEnv("KAFKA_TOPIC_TICKET_CANCELED", "reservation.ticket.canceled"),
			},
		},
		Booking: BookingConfig{
			SeatLockTTL: time.Duration(getEnvInt("SEAT_LOCK_TTL_MINUTES", 5)) * time.Minute,
		},
		Database: DatabaseConfig{
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  time.Duration(getEnvInt("DB_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
			AutoMigrate:  getEnvBool("AUTO_MIGRATE", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
