// Package config builds explicit configuration structs from environment
// variables. Configs are passed by value into constructors; there are no
// process-wide mutable singletons.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	Log  Log

	// DBEnabled false runs the service against seeded in-memory stores.
	// Useful for local development when no database is available.
	DBEnabled bool
	Database  Database

	Redis Redis
	Kafka Kafka

	// HierarchyCacheTTL bounds staleness of the cached location snapshot.
	HierarchyCacheTTL time.Duration
}

// Log selects level and output format for the structured logger.
type Log struct {
	Level  string
	Format string
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Redis holds cache settings. An empty URL disables the cache layer.
type Redis struct {
	URL string
}

// Kafka holds the schedule sync consumer settings. Disabled by default;
// the consumer only starts when brokers are configured and Enabled is
// set.
type Kafka struct {
	Enabled bool
	Brokers []string
	Topic   string
	Group   string
}

// FromEnv builds a Server config from environment variables so main
// stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:      getEnv("MUSTER_ADDR", ":8080"),
		DBEnabled: getEnv("DB_ENABLED", "true") == "true",
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Name = getEnv("DB_NAME", "muster")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.URL = getEnv("REDIS_URL", "")

	cfg.Kafka.Enabled = getEnv("KAFKA_ENABLED", "false") == "true"
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.Topic = getEnv("KAFKA_SCHEDULE_TOPIC", "muster.schedule.sync")
	cfg.Kafka.Group = getEnv("KAFKA_CONSUMER_GROUP", "muster-schedule-sync")

	cfg.HierarchyCacheTTL = parseDuration(getEnv("HIERARCHY_CACHE_TTL", "5m"), 5*time.Minute)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
