package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values are enforced by must() at load
// time; optional values fall back to documented defaults.
type Config struct {
	Env              string // application environment (e.g. "dev", "prod")
	Port             string // HTTP port to listen on
	DBUser           string // database username
	DBPass           string // database password (optional)
	DBHost           string // database host address
	DBPort           string // database port number
	DBName           string // database name
	SessionSecret    string // secret keying session token hashes; rotating it signs everyone out
	SessionTTLDays   int    // session time-to-live in days
	CookieName       string // name of the session cookie
	BootstrapSecret  string // secret gating the first-admin bootstrap endpoint; empty disables it
	BcryptCost       int    // bcrypt cost for password hashing
	DownloadSecret   string // secret signing document download links, separate from SessionSecret so each rotates alone
	DownloadTokenTTL int    // signed document download link TTL in minutes
}

// Load reads configuration from environment variables. Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"), // empty allowed
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		SessionSecret:    must("SESSION_SECRET"),
		SessionTTLDays:   envInt("SESSION_TTL_DAYS", 14),
		CookieName:       envStr("SESSION_COOKIE_NAME", "keshet_session"),
		BootstrapSecret:  os.Getenv("ADMIN_BOOTSTRAP_SECRET"), // unset -> bootstrap disabled
		BcryptCost:       envInt("BCRYPT_COST", 10),
		DownloadSecret:   must("DOWNLOAD_TOKEN_SECRET"),
		DownloadTokenTTL: envInt("DOWNLOAD_TOKEN_TTL_MIN", 15),
	}
}

// IsProd reports whether the app runs in a production environment. Session
// cookies carry the Secure flag only in prod so local HTTP testing works.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves the value of a required environment variable. If the
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

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", k, v)
	}
	return n
}
