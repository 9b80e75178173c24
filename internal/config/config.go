package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"

	"github.com/joho/godotenv" // loads a local .env file into the process environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings are optional: when DB_HOST is
// empty completed bookings are not recorded.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	JWTSecret      string        // secret used to sign session tokens
	SessionTTL     time.Duration // idle lifetime of a booking session
	TokenTTL       time.Duration // lifetime of the session JWT, never below SessionTTL
	SweepInterval  time.Duration // how often idle sessions are dropped
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address (optional)
	DBPort         string        // database port number
	DBName         string        // database name
	AMQPURL        string        // RabbitMQ URL; empty disables booking events
	ConsumerEnable bool          // run the booking.confirmed log consumer in-process
}

// LoadDotEnv loads a .env file when present.  A missing file is not an
// error; real deployments pass variables through the environment.  The
// returned bool reports whether a file was loaded.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads configuration values from environment variables and returns a
// Config.  JWT_SECRET is required; a missing value causes the program to
// exit with a fatal log message.
func Load() Config {
	sessionTTL := envDur("SESSION_TTL", 30*time.Minute)
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		JWTSecret:      must("JWT_SECRET"),
		SessionTTL:     sessionTTL,
		TokenTTL:       tokenTTL(sessionTTL),
		SweepInterval:  envDur("SESSION_SWEEP_INTERVAL", time.Minute),
		DBUser:         envStr("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         envStr("DB_PORT", "3306"),
		DBName:         envStr("DB_NAME", "bus_booking"),
		AMQPURL:        amqpURL(),
		ConsumerEnable: envBool("BOOKING_CONSUMER_ENABLED", false),
	}
}

// DatabaseEnabled reports whether completed bookings should be recorded.
func (c Config) DatabaseEnabled() bool { return c.DBHost != "" }

// tokenTTL reads SESSION_TOKEN_TTL.  Sessions slide on every request while
// the token's exp is fixed, so the token must outlive the idle window; the
// session store decides when an idle visitor is gone.
func tokenTTL(sessionTTL time.Duration) time.Duration {
	ttl := envDur("SESSION_TOKEN_TTL", 24*time.Hour)
	if ttl < sessionTTL {
		ttl = sessionTTL
	}
	return ttl
}

// amqpURL prefers RABBITMQ_URL and falls back to AMQP_URL.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
