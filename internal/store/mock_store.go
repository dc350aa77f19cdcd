package store

import (
	"fmt"
	"sync"
)

// MockStore is a test double for the Store interface.
// It is safe for concurrent use so it can back concurrent resolver tests.
type MockStore struct {
	mu sync.Mutex

	// Data holds the mock mapping (country code -> storefront)
	Data map[string]string

	// Track method calls for verification in tests
	FindByCountryCalls []string
	CloseCalled        bool

	// Control behavior for error scenarios
	FindByCountryError error
	CloseError         error
}

// NewMockStore creates a mock store with a few storefronts
func NewMockStore() *MockStore {
	return &MockStore{
		Data: map[string]string{
			"US": "www.amazon.com",
			"GB": "www.amazon.co.uk",
			"DE": "www.amazon.de",
		},
		FindByCountryCalls: []string{},
	}
}

// NewEmptyMockStore creates a mock store with no data
func NewEmptyMockStore() *MockStore {
	return &MockStore{
		Data:               map[string]string{},
		FindByCountryCalls: []string{},
	}
}

// FindByCountry implements the Store interface
func (m *MockStore) FindByCountry(countryCode string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindByCountryCalls = append(m.FindByCountryCalls, countryCode)

	if m.FindByCountryError != nil {
		return "", m.FindByCountryError
	}

	storefront, exists := m.Data[countryCode]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrCountryNotFound, countryCode)
	}
	return storefront, nil
}

// Calls returns a snapshot of the recorded FindByCountry calls
func (m *MockStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.FindByCountryCalls...)
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return m.CloseError
}
