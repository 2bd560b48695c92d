// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store driver names accepted in STORE_DRIVER.
const (
	StoreDriverMySQL  = "mysql"
	StoreDriverMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	StoreDriver    string // "mysql" (durable) or "memory" (single-node)
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	MigrationsDir  string // filesystem path to migration files
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment and returns a Config.
// A .env file is honored when present.  Required variables are enforced
// by must() and missing values cause the program to exit with a fatal
// log message.  The database variables are only required when the mysql
// store driver is selected.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using process environment")
	}

	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		StoreDriver:    strings.ToLower(getenv("STORE_DRIVER", StoreDriverMySQL)),
		MigrationsDir:  getenv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
	if cfg.StoreDriver != StoreDriverMemory && cfg.StoreDriver != StoreDriverMySQL {
		log.Fatalf("unknown STORE_DRIVER: %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == StoreDriverMySQL {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.  If conversion fails, the application logs a fatal error and
// exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
