package models

// NoDataSentinel is what the primary provider answers when it has no data for an address
const NoDataSentinel = "Undefined"

// LocationRecord is the structured answer of the secondary provider.
// Only CountryCode is used for storefront resolution, the rest is informational.
type LocationRecord struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	CountryName string  `json:"country_name"`
	RegionCode  string  `json:"region_code"`
	RegionName  string  `json:"region_name"`
	City        string  `json:"city"`
	ZipCode     string  `json:"zip_code"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MetroCode   int     `json:"metro_code"`
}

// LocationResult is either a bare country code (primary provider)
// or a structured record (secondary provider). Exactly one of the two is set.
type LocationResult struct {
	Code   string          `json:"code,omitempty"`
	Record *LocationRecord `json:"record,omitempty"`
}

// IsRecord reports whether the result carries the structured shape
func (r LocationResult) IsRecord() bool {
	return r.Record != nil
}

// StorefrontResponse is returned by GET /v1/storefront
type StorefrontResponse struct {
	IP         string `json:"ip,omitempty"`
	Storefront string `json:"storefront"`
}

// CountryResponse is returned by GET /v1/country
type CountryResponse struct {
	IP          string `json:"ip,omitempty"`
	CountryCode string `json:"country_code"`
}

// AffiliateResponse is returned by GET /v1/affiliate-url
type AffiliateResponse struct {
	CountryCode string `json:"country_code"`
	Storefront  string `json:"storefront"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error string `json:"error"`
}
