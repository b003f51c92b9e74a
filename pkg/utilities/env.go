package utilities

import (
	"log"
	"os"
)

// MustEnv returns the value of an environment variable or logs a fatal error
// if it is not defined. Used for required config values (e.g., the SSO secret).
func MustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

// GetenvDefault returns the environment variable value if set,
// or a provided default if not. Used for optional configuration values.
func GetenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
