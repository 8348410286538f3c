package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	OwnerAccount  string
	JWTSigningKey string
	PostgresDSN   string
	Redis         Redis
	Kafka         Kafka
}

// Redis configures the optional Redis Streams event sink.
type Redis struct {
	URL          string
	Stream       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the optional Kafka event sink.
type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("AUTHCHAIN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	owner := os.Getenv("AUTHCHAIN_OWNER_ACCOUNT")

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	stream := os.Getenv("REDIS_EVENT_STREAM")
	if stream == "" {
		stream = "authchain.events"
	}

	topic := os.Getenv("KAFKA_EVENT_TOPIC")
	if topic == "" {
		topic = "authchain.events"
	}
	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Server{
		Addr:          addr,
		OwnerAccount:  owner,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			Stream:       stream,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
