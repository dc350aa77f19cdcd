package main

import (
	"flag"
	"log"

	"github.com/evyataryagoni/geotarget/internal/config"
	"github.com/evyataryagoni/geotarget/internal/store"
)

// load-storefronts copies a country_code,storefront CSV into Redis
// Usage: go run ./cmd/load-storefronts [-csv path]
func main() {
	appConfig := config.Load()

	csvPath := flag.String("csv", appConfig.CSVPath, "storefront CSV to load")
	flag.Parse()

	log.Printf("Connecting to Redis at %s...", appConfig.RedisAddr)
	redisStore, err := store.NewRedisStore(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisStore.Close()

	log.Printf("Loading storefronts from %s...", *csvPath)
	n, err := redisStore.LoadFromCSV(*csvPath)
	if err != nil {
		log.Fatalf("Failed to load CSV data: %v", err)
	}

	log.Printf("Loaded %d storefronts. Start the server with STOREFRONT_STORE_TYPE=redis", n)
}
