package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration-valued settings

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and
// costs, time.Duration for intervals.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token time-to-live in minutes
	RefreshTTLDays int           // refresh token time-to-live in days
	BcryptCost     int           // bcrypt cost for password hashing
	BaseURL        string        // public base URL used to build password reset links
	ResetTTL       time.Duration // password reset token lifetime
	SweepInterval  time.Duration // how often expired ledger entries are purged

	// Cookie settings for web clients.  Mobile clients receive tokens in the
	// response body instead and these values do not apply to them.
	AccessCookieName  string // cookie name for the access token
	RefreshCookieName string // cookie name for the refresh token
	CookieDomain      string // cookie domain ("" for host-only)
	CookieSecure      bool   // send cookies only over HTTPS
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when present
// so local development does not require exporting every variable; already
// exported variables take precedence.  Required variables are enforced by
// must() and missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absence of a .env file is not an error

	return Config{
		Env:            must("APP_ENV"),                   // environment (dev/test/prod)
		Port:           must("APP_PORT"),                  // port to bind the HTTP server
		DBUser:         must("DB_USER"),                   // database user
		DBPass:         os.Getenv("DB_PASS"),              // database password (empty allowed)
		DBHost:         must("DB_HOST"),                   // database host
		DBPort:         must("DB_PORT"),                   // database port
		DBName:         must("DB_NAME"),                   // database name
		JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor
		BaseURL:        getenv("BASE_URL", "http://localhost:8080"),
		ResetTTL:       parseDur(getenv("RESET_TOKEN_TTL", "1h")),
		SweepInterval:  parseDur(getenv("TOKEN_SWEEP_INTERVAL", "10m")),

		AccessCookieName:  getenv("ACCESS_TOKEN_COOKIE_NAME", "access_token"),
		RefreshCookieName: getenv("REFRESH_TOKEN_COOKIE_NAME", "refresh_token"),
		CookieDomain:      os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:      getenv("COOKIE_SECURE", "false") == "true",
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// getenv returns the value of an optional environment variable, falling back
// to the provided default when unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseDur parses a duration string such as "30s" or "10m".  Invalid values
// fall back to one second rather than aborting startup; every subsystem that
// consumes an interval tolerates any positive value.
func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
