package config

import (
	"os"
	"strconv"
	"strings"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetBool is Get for strconv.ParseBool values.
func GetBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(Get(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
