// Package env holds tiny helpers for the few places that read the process
// environment outside the main config load, such as platform-injected PORT.
package env

import "os"

// Get returns the named environment variable, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
