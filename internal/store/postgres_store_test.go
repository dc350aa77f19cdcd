package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const selectPostgresStorefront = `SELECT storefront FROM storefronts WHERE country_code = \$1`

// TestPostgresStore_FindByCountry_Success tests successful lookups
func TestPostgresStore_FindByCountry_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectQuery(selectPostgresStorefront).
		WithArgs("FR").
		WillReturnRows(sqlmock.NewRows([]string{"storefront"}).AddRow("www.amazon.fr"))

	got, err := store.FindByCountry("fr")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "www.amazon.fr" {
		t.Errorf("expected www.amazon.fr, got %s", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// TestPostgresStore_FindByCountry_NotFound tests empty result sets
func TestPostgresStore_FindByCountry_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectQuery(selectPostgresStorefront).
		WithArgs("ZZ").
		WillReturnRows(sqlmock.NewRows([]string{"storefront"}))

	_, err := store.FindByCountry("ZZ")

	if !errors.Is(err, ErrCountryNotFound) {
		t.Errorf("expected ErrCountryNotFound, got %v", err)
	}
}

// TestPostgresStore_FindByCountry_DatabaseError tests driver errors
func TestPostgresStore_FindByCountry_DatabaseError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	store := &PostgresStore{db: db}

	mock.ExpectQuery(selectPostgresStorefront).
		WithArgs("US").
		WillReturnError(sql.ErrConnDone)

	_, err := store.FindByCountry("US")

	if err == nil || errors.Is(err, ErrCountryNotFound) {
		t.Fatalf("expected database error, got %v", err)
	}
}

// TestPostgresStore_Close tests cleanup
func TestPostgresStore_Close(t *testing.T) {
	db, mock, _ := sqlmock.New()
	store := &PostgresStore{db: db}
	mock.ExpectClose()

	if err := store.Close(); err != nil {
		t.Errorf("unexpected error on close: %v", err)
	}
	if err := (&PostgresStore{}).Close(); err != nil {
		t.Errorf("expected no error for nil db, got: %v", err)
	}
}
