package store

import (
	"fmt"
	"strings"
)

// StoreConfig selects and configures a storefront mapping backend
type StoreConfig struct {
	Type string // "builtin", "csv", "mysql", "postgres" or "redis"

	CSVPath     string
	MySQLDSN    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewStore creates the mapping backend named by cfg.Type.
// An empty type selects the built-in marketplace table.
func NewStore(cfg StoreConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "builtin", "":
		return NewMarketplaceStore(), nil

	case "csv":
		s, err := NewCSVStore(cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "mysql":
		if cfg.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN is required for the mysql store")
		}
		s, err := NewMySQLStore(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres store")
		}
		s, err := NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "redis":
		s, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store type: %s (supported: 'builtin', 'csv', 'mysql', 'postgres', 'redis')", cfg.Type)
	}
}
