package store

import (
	"errors"
	"strings"
	"testing"
)

// TestMarketplaceStore_FindByCountry tests known storefronts
func TestMarketplaceStore_FindByCountry(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"US", "www.amazon.com"},
		{"GB", "www.amazon.co.uk"},
		{"gb", "www.amazon.co.uk"},
		{" uk ", "www.amazon.co.uk"},
		{"DE", "www.amazon.de"},
		{"AT", "www.amazon.de"},
		{"JP", "www.amazon.co.jp"},
		{"NZ", "www.amazon.com.au"},
	}

	s := NewMarketplaceStore()
	defer s.Close()

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := s.FindByCountry(tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestMarketplaceStore_FindByCountry_NotFound tests unknown and invalid codes
func TestMarketplaceStore_FindByCountry_NotFound(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unknown region", "ZZ"},
		{"country without storefront", "AR"},
		{"empty", ""},
		{"too long", "USA"},
		{"digits", "12"},
	}

	s := NewMarketplaceStore()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindByCountry(tt.code)
			if !errors.Is(err, ErrCountryNotFound) {
				t.Fatalf("expected ErrCountryNotFound, got %v", err)
			}
			if got != "" {
				t.Errorf("expected empty storefront, got %s", got)
			}
		})
	}
}

// TestMarketplaceStore_AllHostsAreAmazon tests the table contents
func TestMarketplaceStore_AllHostsAreAmazon(t *testing.T) {
	s := NewMarketplaceStore()

	for _, code := range s.Countries() {
		m, ok := s.Marketplace(code)
		if !ok {
			t.Fatalf("expected marketplace for %s", code)
		}
		if !strings.Contains(m.Host, "amazon") {
			t.Errorf("%s: host %s is not an amazon storefront", code, m.Host)
		}
		if m.Currency == "" {
			t.Errorf("%s: missing currency", code)
		}
	}
}

// TestMarketplaceStore_Countries tests sorting
func TestMarketplaceStore_Countries(t *testing.T) {
	codes := NewMarketplaceStore().Countries()

	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("countries not sorted: %v", codes)
		}
	}
}
