// Package env reads process environment variables with a fallback default.
package env

import "os"

// Get returns the value of key from the process environment. Unset or empty
// variables yield def.
func Get(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
