package store

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// Marketplace describes one regional Amazon storefront
type Marketplace struct {
	Host     string
	Currency string
}

// marketplaces maps ISO-3166 alpha-2 codes to the storefront that serves them.
// Countries without their own storefront are routed to the closest regional one.
var marketplaces = map[string]Marketplace{
	// Americas
	"US": {Host: "www.amazon.com", Currency: "USD"},
	"CA": {Host: "www.amazon.ca", Currency: "CAD"},
	"MX": {Host: "www.amazon.com.mx", Currency: "MXN"},
	"BR": {Host: "www.amazon.com.br", Currency: "BRL"},

	// Europe
	"GB": {Host: "www.amazon.co.uk", Currency: "GBP"},
	"IE": {Host: "www.amazon.co.uk", Currency: "GBP"},
	"DE": {Host: "www.amazon.de", Currency: "EUR"},
	"AT": {Host: "www.amazon.de", Currency: "EUR"},
	"CH": {Host: "www.amazon.de", Currency: "EUR"},
	"FR": {Host: "www.amazon.fr", Currency: "EUR"},
	"BE": {Host: "www.amazon.com.be", Currency: "EUR"},
	"NL": {Host: "www.amazon.nl", Currency: "EUR"},
	"ES": {Host: "www.amazon.es", Currency: "EUR"},
	"PT": {Host: "www.amazon.es", Currency: "EUR"},
	"IT": {Host: "www.amazon.it", Currency: "EUR"},
	"SE": {Host: "www.amazon.se", Currency: "SEK"},
	"PL": {Host: "www.amazon.pl", Currency: "PLN"},
	"TR": {Host: "www.amazon.com.tr", Currency: "TRY"},

	// Middle East & Africa
	"AE": {Host: "www.amazon.ae", Currency: "AED"},
	"SA": {Host: "www.amazon.sa", Currency: "SAR"},
	"EG": {Host: "www.amazon.eg", Currency: "EGP"},

	// Asia Pacific
	"IN": {Host: "www.amazon.in", Currency: "INR"},
	"JP": {Host: "www.amazon.co.jp", Currency: "JPY"},
	"CN": {Host: "www.amazon.cn", Currency: "CNY"},
	"SG": {Host: "www.amazon.sg", Currency: "SGD"},
	"AU": {Host: "www.amazon.com.au", Currency: "AUD"},
	"NZ": {Host: "www.amazon.com.au", Currency: "AUD"},
}

// codeAliases maps common non-ISO spellings back to the ISO code
var codeAliases = map[string]string{
	"UK": "GB",
}

// MarketplaceStore is the built-in, read-only storefront table
type MarketplaceStore struct {
	data map[string]Marketplace
}

// NewMarketplaceStore creates the built-in storefront table
func NewMarketplaceStore() *MarketplaceStore {
	return &MarketplaceStore{data: marketplaces}
}

// FindByCountry returns the storefront host for countryCode.
// Codes that are not ISO-3166 countries (e.g. "ZZ") or have no storefront
// return ErrCountryNotFound.
func (s *MarketplaceStore) FindByCountry(countryCode string) (string, error) {
	code, err := canonicalCountry(countryCode)
	if err != nil {
		return "", err
	}

	marketplace, exists := s.data[code]
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrCountryNotFound, code)
	}
	return marketplace.Host, nil
}

// Marketplace returns the full entry for countryCode
func (s *MarketplaceStore) Marketplace(countryCode string) (Marketplace, bool) {
	code, err := canonicalCountry(countryCode)
	if err != nil {
		return Marketplace{}, false
	}
	marketplace, exists := s.data[code]
	return marketplace, exists
}

// Countries lists the supported country codes in sorted order
func (s *MarketplaceStore) Countries() []string {
	codes := make([]string, 0, len(s.data))
	for code := range s.data {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Close implements the Store interface; the table lives in memory
func (s *MarketplaceStore) Close() error {
	return nil
}

// canonicalCountry validates countryCode as an ISO-3166 country region
func canonicalCountry(countryCode string) (string, error) {
	code := normalizeCode(countryCode)
	if alias, ok := codeAliases[code]; ok {
		code = alias
	}
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, countryCode)
	}

	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", fmt.Errorf("%w: %s", ErrCountryNotFound, code)
	}
	return region.String(), nil
}
