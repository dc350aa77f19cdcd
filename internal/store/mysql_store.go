package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StorefrontModel is the GORM model for the storefronts table
type StorefrontModel struct {
	CountryCode string `gorm:"column:country_code;primaryKey;size:2"`
	Storefront  string `gorm:"column:storefront;not null"`
}

// TableName overrides GORM's pluralized default
func (StorefrontModel) TableName() string {
	return "storefronts"
}

// MySQLStore implements Store using MySQL through GORM
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore creates a new MySQL store.
//
// DSN format: user:password@tcp(host:port)/dbname?parseTime=true
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL with GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

// FindByCountry implements the Store interface
// GORM query: SELECT * FROM storefronts WHERE country_code = ? ORDER BY ... LIMIT 1
func (s *MySQLStore) FindByCountry(countryCode string) (string, error) {
	code := normalizeCode(countryCode)

	var record StorefrontModel
	result := s.db.Where("country_code = ?", code).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrCountryNotFound, code)
		}
		return "", fmt.Errorf("database query failed: %w", result.Error)
	}

	return record.Storefront, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
