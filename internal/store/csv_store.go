package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVStore implements Store using a CSV file loaded into memory.
//
// CSV Format: country_code,storefront
// Example: GB,www.amazon.co.uk
type CSVStore struct {
	data map[string]string
}

// NewCSVStore creates a new CSV store by reading a CSV file
func NewCSVStore(filePath string) (*CSVStore, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return newCSVStoreFromReader(file)
}

func newCSVStoreFromReader(r io.Reader) (*CSVStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	store := &CSVStore{
		data: make(map[string]string),
	}

	// Skip the header row
	for _, record := range records[1:] {
		// Invalid rows are skipped rather than failing the whole file
		if len(record) != 2 {
			continue
		}

		code := normalizeCode(record[0])
		storefront := record[1]
		if code == "" || storefront == "" {
			continue
		}

		store.data[code] = storefront
	}

	return store, nil
}

// FindByCountry implements the Store interface
func (s *CSVStore) FindByCountry(countryCode string) (string, error) {
	code := normalizeCode(countryCode)
	storefront, exists := s.data[code]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrCountryNotFound, code)
	}
	return storefront, nil
}

// Entries returns a copy of the loaded mapping
func (s *CSVStore) Entries() map[string]string {
	out := make(map[string]string, len(s.data))
	for code, storefront := range s.data {
		out[code] = storefront
	}
	return out
}

// Close implements the Store interface; nothing to release
func (s *CSVStore) Close() error {
	return nil
}
