package v1

import (
	"github.com/evyataryagoni/geotarget/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures the /v1 API
func SetupRoutes(storefrontHandler *handler.StorefrontHandler) chi.Router {
	r := chi.NewRouter()

	// GET /v1/storefront?ip=<addr>&default=<storefront>
	r.Get("/storefront", storefrontHandler.Storefront)

	// GET /v1/country?ip=<addr>
	r.Get("/country", storefrontHandler.Country)

	// GET /v1/affiliate-url?country=<CC>
	r.Get("/affiliate-url", storefrontHandler.AffiliateURL)

	return r
}
