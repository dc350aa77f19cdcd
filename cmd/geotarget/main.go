package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/evyataryagoni/geotarget/internal/config"
	"github.com/evyataryagoni/geotarget/internal/geolocate"
	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/resolver"
	"github.com/evyataryagoni/geotarget/internal/store"
)

// geotarget resolves one storefront from the command line.
//
//	geotarget                       storefront for this machine's public address
//	geotarget -ip 81.2.69.160       storefront for an address
//	geotarget -country GB           affiliate storefront for a country
//	geotarget -ip 8.8.8.8 -provider 1   raw answer of one provider
//	geotarget -list                 built-in marketplace table
func main() {
	appConfig := config.Load()

	var (
		ip           = flag.String("ip", "", "address to geolocate (empty: this machine)")
		defaultStore = flag.String("default", appConfig.DefaultStorefront, "storefront returned when resolution fails")
		country      = flag.String("country", "", "print the affiliate storefront for this country code instead")
		provider     = flag.Int("provider", -1, "query a single provider (0 or 1) and print its raw answer")
		timeout      = flag.Duration("timeout", appConfig.GeolocateTimeout, "per-provider request timeout")
		verbose      = flag.Bool("v", false, "log resolution steps to stderr")
		list         = flag.Bool("list", false, "print the built-in marketplace table and exit")
	)
	flag.Parse()

	if *list {
		printMarketplaces(store.NewMarketplaceStore())
		return
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

	mappingStore, err := store.NewStore(store.StoreConfig{
		Type:          appConfig.StoreType,
		CSVPath:       appConfig.CSVPath,
		MySQLDSN:      appConfig.MySQLDSN,
		PostgresDSN:   appConfig.PostgresDSN,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open storefront store: %v\n", err)
		os.Exit(1)
	}
	defer mappingStore.Close()

	locator := geolocate.NewLocator(geolocate.Config{
		PrimaryURL:   appConfig.PrimaryProviderURL,
		SecondaryURL: appConfig.SecondaryProviderURL,
		Timeout:      *timeout,
	}, nil, log)

	res := resolver.New(locator, mappingStore, resolver.Config{
		DefaultStorefront: *defaultStore,
		Brand:             appConfig.StorefrontBrand,
	}, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*(*timeout)+time.Second)
	defer cancel()

	switch {
	case *country != "":
		fmt.Println(res.AffiliateURL(*country))

	case *provider >= 0:
		result, err := locator.Lookup(ctx, geolocate.ProviderIndex(*provider), *ip)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
			os.Exit(1)
		}
		if result.IsRecord() {
			fmt.Printf("%+v\n", *result.Record)
			return
		}
		fmt.Println(result.Code)

	default:
		fmt.Println(res.ResolveStorefront(ctx, *ip))
	}
}

func printMarketplaces(s *store.MarketplaceStore) {
	for _, code := range s.Countries() {
		m, _ := s.Marketplace(code)
		fmt.Printf("%s\t%s\t%s\n", code, m.Host, m.Currency)
	}
}
