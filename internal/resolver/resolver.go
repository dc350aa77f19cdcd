package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evyataryagoni/geotarget/internal/geolocate"
	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/metrics"
	"github.com/evyataryagoni/geotarget/internal/models"
)

const (
	// DefaultStorefront is used when no default is configured
	DefaultStorefront = "www.amazon.com"
	// DefaultBrand must appear in every storefront the mapping returns
	DefaultBrand = "amazon"
	// DefaultCountryCode is what AffiliateURL maps when called without a code
	DefaultCountryCode = "US"
)

// Resolution outcomes, used as metric labels
const (
	outcomeMapped       = "mapped"
	outcomeNoCode       = "default_no_code"
	outcomeUnavailable  = "default_unavailable"
	outcomeMappingError = "default_mapping_error"
	outcomeUntrusted    = "default_untrusted"
)

var errMappingUnavailable = errors.New("storefront mapping unavailable")

// Locator queries a single geolocation provider
type Locator interface {
	Lookup(ctx context.Context, provider geolocate.ProviderIndex, address string) (models.LocationResult, error)
}

// Mapping translates a country code into a storefront.
// store.Store implementations satisfy it.
type Mapping interface {
	FindByCountry(countryCode string) (string, error)
}

// MappingFunc adapts a plain function to Mapping
type MappingFunc func(countryCode string) (string, error)

// FindByCountry calls f
func (f MappingFunc) FindByCountry(countryCode string) (string, error) {
	return f(countryCode)
}

// Config holds the resolver's storefront policy
type Config struct {
	DefaultStorefront string // returned on every failure path
	Brand             string // substring a mapped storefront must contain
}

// Resolver drives the Locator with provider fallback and maps the resulting
// country code to a storefront.
//
// The default storefront and brand are fixed at construction. A Resolver keeps
// no state between calls, so one instance can serve concurrent requests.
type Resolver struct {
	locator      Locator
	mapping      Mapping
	defaultStore string
	brand        string
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

// New creates a Resolver. mapping, m and log may be nil; a nil mapping
// makes every affiliate lookup fall back to the default storefront.
func New(locator Locator, mapping Mapping, cfg Config, m *metrics.Metrics, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewDefault()
	}

	defaultStore := strings.TrimSpace(cfg.DefaultStorefront)
	if defaultStore == "" {
		defaultStore = DefaultStorefront
	}
	brand := strings.ToLower(strings.TrimSpace(cfg.Brand))
	if brand == "" {
		brand = DefaultBrand
	}

	return &Resolver{
		locator:      locator,
		mapping:      mapping,
		defaultStore: defaultStore,
		brand:        brand,
		metrics:      m,
		logger:       log.WithComponent("Resolver"),
	}
}

// WithDefault returns a copy of r using another default storefront.
// r itself is not modified. An empty storefront returns r unchanged.
func (r *Resolver) WithDefault(storefront string) *Resolver {
	storefront = strings.TrimSpace(storefront)
	if storefront == "" || storefront == r.defaultStore {
		return r
	}
	clone := *r
	clone.defaultStore = storefront
	return &clone
}

// DefaultStorefront returns the storefront used on every failure path
func (r *Resolver) DefaultStorefront() string {
	return r.defaultStore
}

// Locate runs the provider fallback chain for address.
//
// Provider 0 is tried first; on UpstreamUnavailable or NoLocationData provider 1
// is tried exactly once. When both fail the error is of kind ServiceUnavailable.
// Any other error (InvalidProvider included) is returned without falling back.
func (r *Resolver) Locate(ctx context.Context, address string) (models.LocationResult, error) {
	log := r.logger.WithAddress(address)

	var lastErr error
	for provider := geolocate.PrimaryProvider; provider < geolocate.ProviderCount; provider++ {
		if provider > geolocate.PrimaryProvider {
			log.Warn().Err(lastErr).Int("next_provider", int(provider)).Msg("Geolocation provider failed, falling back")
			if r.metrics != nil {
				r.metrics.ProviderFallbacksTotal.Inc()
			}
		}

		result, err := r.locator.Lookup(ctx, provider, address)
		if err == nil {
			return result, nil
		}

		switch geolocate.KindOf(err) {
		case geolocate.UpstreamUnavailable, geolocate.NoLocationData:
			lastErr = err
		default:
			return models.LocationResult{}, err
		}
	}

	log.Warn().Err(lastErr).Msg("All geolocation providers failed")
	return models.LocationResult{}, geolocate.NewError(geolocate.ServiceUnavailable, -1, lastErr)
}

// ResolveCountryCode locates address and extracts its country code.
// It returns "" with a nil error when a provider answered without a usable code.
func (r *Resolver) ResolveCountryCode(ctx context.Context, address string) (string, error) {
	result, err := r.Locate(ctx, address)
	if err != nil {
		return "", err
	}

	code, _ := CountryCodeFromResult(result)
	return code, nil
}

// CountryCodeFromResult extracts the country code from either result shape.
// The no-data sentinel and empty values yield false.
func CountryCodeFromResult(result models.LocationResult) (string, bool) {
	var code string
	if result.IsRecord() {
		code = result.Record.CountryCode
	} else {
		code = result.Code
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || strings.EqualFold(code, models.NoDataSentinel) {
		return "", false
	}
	return code, true
}

// AffiliateURL maps countryCode (US when empty) to a storefront.
//
// The default storefront is returned when the mapping fails or when the mapped
// value does not belong to the configured brand.
func (r *Resolver) AffiliateURL(countryCode string) string {
	storefront, _ := r.affiliateURL(countryCode)
	return storefront
}

// ResolveStorefront is the top-level entry point: locate address, map its
// country to a storefront, and fall back to the default storefront on any failure.
// It never fails.
func (r *Resolver) ResolveStorefront(ctx context.Context, address string) (storefront string) {
	log := r.logger.WithAddress(address)

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("Storefront resolution panicked")
			r.recordOutcome(outcomeUnavailable)
			storefront = r.defaultStore
		}
	}()

	code, err := r.ResolveCountryCode(ctx, address)
	if err != nil {
		log.Warn().Err(err).Str("storefront", r.defaultStore).Msg("Country code unavailable, using default storefront")
		r.recordOutcome(outcomeUnavailable)
		return r.defaultStore
	}

	if code == "" {
		log.Info().Str("storefront", r.defaultStore).Msg("No country code in provider answer, using default storefront")
		r.recordOutcome(outcomeNoCode)
		return r.defaultStore
	}

	storefront, outcome := r.affiliateURL(code)
	r.recordOutcome(outcome)

	log.Info().
		Str("country_code", code).
		Str("storefront", storefront).
		Str("outcome", outcome).
		Msg("Storefront resolved")
	return storefront
}

func (r *Resolver) affiliateURL(countryCode string) (string, string) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		code = DefaultCountryCode
	}

	storefront, err := r.lookupStorefront(code)
	if err != nil {
		r.logger.Debug().Err(err).Str("country_code", code).Msg("Storefront mapping failed")
		r.recordMapping("error")
		return r.defaultStore, outcomeMappingError
	}

	if !strings.Contains(strings.ToLower(storefront), r.brand) {
		r.logger.Warn().
			Str("country_code", code).
			Str("mapped", storefront).
			Str("brand", r.brand).
			Msg("Mapped storefront does not match brand, using default storefront")
		r.recordMapping("untrusted")
		return r.defaultStore, outcomeUntrusted
	}

	r.recordMapping("found")
	return storefront, outcomeMapped
}

// lookupStorefront calls the mapping, turning a panic into an error
func (r *Resolver) lookupStorefront(code string) (storefront string, err error) {
	if r.mapping == nil {
		return "", errMappingUnavailable
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("storefront mapping panicked: %v", p)
		}
	}()

	return r.mapping.FindByCountry(code)
}

func (r *Resolver) recordOutcome(outcome string) {
	if r.metrics != nil {
		r.metrics.StorefrontResolutionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (r *Resolver) recordMapping(result string) {
	if r.metrics != nil {
		r.metrics.MappingQueriesTotal.WithLabelValues(result).Inc()
	}
}
