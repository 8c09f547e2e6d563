package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	MigrationsPath  string // directory holding SQL migrations
	IdentityBaseURL string // base URL of the external identity provider
	SessionTTLHours int    // session time-to-live in hours (fixed, not sliding)
	CookieName      string // name of the session cookie
	CookieSecure    bool   // whether the session cookie carries the Secure flag
}

// Load reads configuration from the environment and returns a Config.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		MigrationsPath:  getenv("MIGRATIONS_PATH", "migrations"),
		IdentityBaseURL: must("IDENTITY_BASE_URL"),
		SessionTTLHours: mustInt("SESSION_TTL_HOURS"),
		CookieName:      getenv("SESSION_COOKIE_NAME", "session_token"),
		CookieSecure:    getenv("SESSION_COOKIE_SECURE", "true") == "true",
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
