package store

import (
	"errors"
	"strings"
)

// ErrCountryNotFound is returned when no storefront is configured for a country code
var ErrCountryNotFound = errors.New("country code not found")

// Store maps a country code to a storefront domain.
// Implementations: built-in marketplace table, CSV, MySQL, Postgres and Redis.
type Store interface {
	// FindByCountry returns the storefront for an ISO-3166 alpha-2 country code
	FindByCountry(countryCode string) (string, error)

	// Close cleans up resources (database connections, file handles, etc.)
	Close() error
}

// normalizeCode upper-cases and trims a country code so every backend keys the same way
func normalizeCode(countryCode string) string {
	return strings.ToUpper(strings.TrimSpace(countryCode))
}
