package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	csvPath := filepath.Join(t.TempDir(), "storefronts.csv")
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return csvPath
}

// TestCSVStore_LoadValidFile tests loading a valid CSV file
func TestCSVStore_LoadValidFile(t *testing.T) {
	csvPath := writeCSV(t, `country_code,storefront
US,www.amazon.com
gb, www.amazon.co.uk`)

	store, err := NewCSVStore(csvPath)
	if err != nil {
		t.Fatalf("failed to create CSV store: %v", err)
	}
	defer store.Close()

	if len(store.data) != 2 {
		t.Errorf("expected 2 records, got %d", len(store.data))
	}

	got, err := store.FindByCountry("GB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "www.amazon.co.uk" {
		t.Errorf("expected www.amazon.co.uk, got %s", got)
	}
}

// TestCSVStore_FindByCountry_NotFound tests unknown codes
func TestCSVStore_FindByCountry_NotFound(t *testing.T) {
	store, err := newCSVStoreFromReader(strings.NewReader("country_code,storefront\nUS,www.amazon.com\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.FindByCountry("ZZ")
	if !errors.Is(err, ErrCountryNotFound) {
		t.Errorf("expected ErrCountryNotFound, got %v", err)
	}
}

// TestCSVStore_FileNotFound tests handling of nonexistent file
func TestCSVStore_FileNotFound(t *testing.T) {
	_, err := NewCSVStore("/nonexistent/path/file.csv")

	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

// TestCSVStore_EmptyFile tests handling of empty CSV file
func TestCSVStore_EmptyFile(t *testing.T) {
	_, err := NewCSVStore(writeCSV(t, ""))

	if err == nil {
		t.Fatal("expected error for empty file, got nil")
	}
	if err.Error() != "CSV file is empty" {
		t.Errorf("expected 'CSV file is empty', got %s", err.Error())
	}
}

// TestCSVStore_SkipsInvalidRows tests that malformed rows are ignored
func TestCSVStore_SkipsInvalidRows(t *testing.T) {
	store, err := NewCSVStore(writeCSV(t, `country_code,storefront
US,www.amazon.com
DE
FR,www.amazon.fr,extra
,www.amazon.it
ES,`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := store.Entries()
	if len(entries) != 1 {
		t.Errorf("expected only the valid row to load, got %v", entries)
	}
}

// TestCSVStore_HeaderOnly tests a file with no data rows
func TestCSVStore_HeaderOnly(t *testing.T) {
	store, err := NewCSVStore(writeCSV(t, "country_code,storefront\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.Entries()) != 0 {
		t.Errorf("expected no entries, got %d", len(store.Entries()))
	}
}
