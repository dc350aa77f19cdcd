package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/metrics"
	"github.com/evyataryagoni/geotarget/internal/models"
	"github.com/go-playground/validator/v10"
)

// ProviderIndex selects one of the two geolocation services
type ProviderIndex int

const (
	// PrimaryProvider answers with a plain-text country code (ipapi.co)
	PrimaryProvider ProviderIndex = 0
	// SecondaryProvider answers with a JSON record (freegeoip)
	SecondaryProvider ProviderIndex = 1
)

// ProviderCount is the fixed length of the fallback chain
const ProviderCount = 2

const (
	DefaultPrimaryURL   = "https://ipapi.co"
	DefaultSecondaryURL = "https://freegeoip.app"
	DefaultTimeout      = 3 * time.Second

	userAgent = "geotarget/1.0"

	maxPrimaryBody   = 1 << 10
	maxSecondaryBody = 64 << 10
)

// Valid reports whether p is 0 or 1
func (p ProviderIndex) Valid() bool {
	return p >= PrimaryProvider && p <= SecondaryProvider
}

func (p ProviderIndex) String() string {
	return strconv.Itoa(int(p))
}

// Config holds the Locator's endpoints and HTTP settings
type Config struct {
	PrimaryURL   string
	SecondaryURL string
	Timeout      time.Duration // applied to every provider call
	HTTPClient   *http.Client  // optional; Timeout is ignored when set
}

// Locator fetches raw geolocation data from exactly one provider per call
// and normalizes it into a models.LocationResult.
//
// A Locator holds no per-call state and is safe for concurrent use.
type Locator struct {
	client       *http.Client
	timeout      time.Duration
	primaryURL   string
	secondaryURL string
	validator    *validator.Validate
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

// NewLocator creates a Locator. m and log may be nil.
func NewLocator(cfg Config, m *metrics.Metrics, log *logger.Logger) *Locator {
	if log == nil {
		log = logger.NewDefault()
	}
	if cfg.PrimaryURL == "" {
		cfg.PrimaryURL = DefaultPrimaryURL
	}
	if cfg.SecondaryURL == "" {
		cfg.SecondaryURL = DefaultSecondaryURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Locator{
		client:       client,
		timeout:      cfg.Timeout,
		primaryURL:   strings.TrimRight(cfg.PrimaryURL, "/"),
		secondaryURL: strings.TrimRight(cfg.SecondaryURL, "/"),
		validator:    validator.New(),
		metrics:      m,
		logger:       log.WithComponent("Locator"),
	}
}

// Lookup queries one provider for address (empty means the caller's own address).
//
// Provider 0 returns a bare upper-case country code, provider 1 a structured record.
// Errors are *Error values of kind InvalidProvider, UpstreamUnavailable or NoLocationData.
// An invalid provider fails before any network call.
func (l *Locator) Lookup(ctx context.Context, provider ProviderIndex, address string) (models.LocationResult, error) {
	if !provider.Valid() {
		l.record(provider, InvalidProvider, 0)
		return models.LocationResult{}, NewError(InvalidProvider, int(provider), nil)
	}

	log := l.logger.WithProvider(int(provider)).WithAddress(address)
	log.Debug().Msg("Geolocation lookup started")

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	var (
		result models.LocationResult
		err    error
	)
	switch provider {
	case PrimaryProvider:
		result, err = l.lookupPrimary(ctx, address)
	case SecondaryProvider:
		result, err = l.lookupSecondary(ctx, address)
	}
	elapsed := time.Since(start)

	if err != nil {
		l.record(provider, KindOf(err), elapsed)
		log.Warn().Err(err).Dur("duration_ms", elapsed).Msg("Geolocation lookup failed")
		return models.LocationResult{}, err
	}

	l.record(provider, 0, elapsed)
	log.Debug().Dur("duration_ms", elapsed).Msg("Geolocation lookup succeeded")
	return result, nil
}

// lookupPrimary: GET {base}/country/ or {base}/{address}/country/, text/plain body
func (l *Locator) lookupPrimary(ctx context.Context, address string) (models.LocationResult, error) {
	endpoint := l.primaryURL + "/country/"
	if address != "" {
		endpoint = l.primaryURL + "/" + url.PathEscape(address) + "/country/"
	}

	body, err := l.get(ctx, PrimaryProvider, endpoint, maxPrimaryBody)
	if err != nil {
		return models.LocationResult{}, err
	}

	code := strings.TrimSpace(string(body))
	if strings.EqualFold(code, models.NoDataSentinel) {
		return models.LocationResult{}, NewError(NoLocationData, int(PrimaryProvider), nil)
	}

	code = strings.ToUpper(code)
	if err := l.validator.Var(code, "required,iso3166_1_alpha2"); err != nil {
		return models.LocationResult{}, NewError(NoLocationData, int(PrimaryProvider),
			fmt.Errorf("unexpected country code %q", truncate(code, 32)))
	}

	return models.LocationResult{Code: code}, nil
}

// lookupSecondary: GET {base}/json/{address}, JSON body
func (l *Locator) lookupSecondary(ctx context.Context, address string) (models.LocationResult, error) {
	endpoint := l.secondaryURL + "/json/" + url.PathEscape(address)

	body, err := l.get(ctx, SecondaryProvider, endpoint, maxSecondaryBody)
	if err != nil {
		return models.LocationResult{}, err
	}

	var record models.LocationRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return models.LocationResult{}, NewError(NoLocationData, int(SecondaryProvider),
			fmt.Errorf("failed to decode response: %w", err))
	}
	record.CountryCode = strings.ToUpper(strings.TrimSpace(record.CountryCode))

	return models.LocationResult{Record: &record}, nil
}

// get performs the single outbound request of a lookup
func (l *Locator) get(ctx context.Context, provider ProviderIndex, endpoint string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewError(UpstreamUnavailable, int(provider), err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, NewError(UpstreamUnavailable, int(provider), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, limit))
		return nil, NewError(UpstreamUnavailable, int(provider), fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, NewError(UpstreamUnavailable, int(provider), fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

func (l *Locator) record(provider ProviderIndex, kind ErrorKind, elapsed time.Duration) {
	if l.metrics == nil {
		return
	}
	result := "success"
	switch kind {
	case 0:
	case InvalidProvider:
		result = "invalid_provider"
	case NoLocationData:
		result = "no_data"
	default:
		result = "upstream_unavailable"
	}
	l.metrics.ProviderLookupsTotal.WithLabelValues(provider.String(), result).Inc()
	if kind != InvalidProvider {
		l.metrics.ProviderLookupDuration.WithLabelValues(provider.String()).Observe(elapsed.Seconds())
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
