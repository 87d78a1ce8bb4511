// Package env reads process environment values that live outside the
// envconfig-managed terminal configuration.
package env

import "os"

// Get looks up key and falls back when it is unset. Blank values are
// treated as unset.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
