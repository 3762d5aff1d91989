package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Lifecycle settings tune the event engine:
// the sweep interval bounds the worst-case staleness of a stored status,
// SeatRetryMax bounds how often a conditional seat update is retried before
// surfacing a conflict, and AllowLateUnregister is the policy flag that
// permits unregistration after the registration window has closed.
type Config struct {
	Env                 string        // application environment (e.g. "dev", "prod")
	Port                string        // HTTP port to listen on
	DBUser              string        // database username
	DBPass              string        // database password (optional)
	DBHost              string        // database host address
	DBPort              string        // database port number
	DBName              string        // database name
	JWTSecret           string        // secret used to verify access tokens
	SweepInterval       time.Duration // period of the lifecycle sweep
	SeatRetryMax        int           // bounded retries for conditional seat updates
	AllowLateUnregister bool          // permit release during registration_closed
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Lifecycle settings
// have defaults: a daily sweep, three retries, late unregistration off.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),
		Port:                must("APP_PORT"),
		DBUser:              must("DB_USER"),
		DBPass:              os.Getenv("DB_PASS"),
		DBHost:              must("DB_HOST"),
		DBPort:              must("DB_PORT"),
		DBName:              must("DB_NAME"),
		JWTSecret:           must("JWT_SECRET"),
		SweepInterval:       time.Duration(envInt("SWEEP_INTERVAL_MIN", 1440)) * time.Minute,
		SeatRetryMax:        envInt("SEAT_RETRY_MAX", 3),
		AllowLateUnregister: envBool("ALLOW_LATE_UNREGISTER", false),
	}
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
