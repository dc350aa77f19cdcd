package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"strings"

	"github.com/evyataryagoni/geotarget/internal/geolocate"
	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/middleware"
	"github.com/evyataryagoni/geotarget/internal/models"
	"github.com/evyataryagoni/geotarget/internal/resolver"
	"github.com/go-playground/validator/v10"
)

// StorefrontHandler handles HTTP requests for storefront resolution.
// It deals with HTTP concerns only; fallback and mapping live in the resolver.
type StorefrontHandler struct {
	resolver  *resolver.Resolver
	validator *validator.Validate
	logger    *logger.Logger
}

// NewStorefrontHandler creates a handler backed by res. log may be nil.
func NewStorefrontHandler(res *resolver.Resolver, log *logger.Logger) *StorefrontHandler {
	if log == nil {
		log = logger.NewDefault()
	}
	return &StorefrontHandler{
		resolver:  res,
		validator: validator.New(),
		logger:    log.WithComponent("StorefrontHandler"),
	}
}

// Storefront handles GET /v1/storefront?ip=<addr>&default=<storefront>
//
// Always answers 200 for valid input; resolution failures fall back to the default storefront.
func (h *StorefrontHandler) Storefront(w http.ResponseWriter, r *http.Request) {
	ip, ok := h.addressParam(w, r)
	if !ok {
		return
	}

	defaultStorefront := strings.TrimSpace(r.URL.Query().Get("default"))
	if err := h.validator.Var(defaultStorefront, "omitempty,fqdn"); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid 'default' storefront")
		return
	}

	res := h.resolver.WithDefault(defaultStorefront)
	storefront := res.ResolveStorefront(r.Context(), ip)

	h.respondJSON(w, http.StatusOK, models.StorefrontResponse{IP: ip, Storefront: storefront})
}

// Country handles GET /v1/country?ip=<addr>
func (h *StorefrontHandler) Country(w http.ResponseWriter, r *http.Request) {
	ip, ok := h.addressParam(w, r)
	if !ok {
		return
	}

	code, err := h.resolver.ResolveCountryCode(r.Context(), ip)
	if err != nil {
		if errors.Is(err, geolocate.ErrServiceUnavailable) {
			h.respondError(w, http.StatusServiceUnavailable, geolocate.ServiceUnavailable.String())
			return
		}
		h.logger.Error().Err(err).Str("ip", ip).Msg("Country lookup failed")
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if code == "" {
		h.respondError(w, http.StatusNotFound, "No location data for address")
		return
	}

	h.respondJSON(w, http.StatusOK, models.CountryResponse{IP: ip, CountryCode: code})
}

// AffiliateURL handles GET /v1/affiliate-url?country=<CC>
func (h *StorefrontHandler) AffiliateURL(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("country")))
	if err := h.validator.Var(code, "omitempty,iso3166_1_alpha2"); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid 'country' code")
		return
	}
	if code == "" {
		code = resolver.DefaultCountryCode
	}

	h.respondJSON(w, http.StatusOK, models.AffiliateResponse{
		CountryCode: code,
		Storefront:  h.resolver.AffiliateURL(code),
	})
}

// addressParam returns the address to geolocate.
// Without an explicit ip the client address is used when it is public, otherwise
// "" so the provider resolves the server's own address.
func (h *StorefrontHandler) addressParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ip := strings.TrimSpace(r.URL.Query().Get("ip"))
	if ip != "" {
		if err := h.validator.Var(ip, "ip"); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid 'ip' address")
			return "", false
		}
		return ip, true
	}

	client := middleware.ClientIP(r)
	if isPublic(client) {
		return client, true
	}
	return "", true
}

func isPublic(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}

// respondJSON writes a JSON response with the given status code
func (h *StorefrontHandler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes an error response with consistent formatting
func (h *StorefrontHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
