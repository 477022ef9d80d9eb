package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopcart/lib/mystore"
	"github.com/MarcGrol/shopcart/lib/mytime"
	"github.com/MarcGrol/shopcart/lib/myuuid"
	"github.com/MarcGrol/shopcart/services/cart"
	"github.com/MarcGrol/shopcart/services/catalog"
	"github.com/MarcGrol/shopcart/services/session"
	"github.com/MarcGrol/shopcart/services/warmup"
)

func main() {
	c := context.Background()

	router := mux.NewRouter()

	productStore, productStoreCleanup, err := mystore.New[catalog.ProductRecord](c)
	if err != nil {
		log.Fatalf("Error creating product store: %s", err)
	}
	defer productStoreCleanup()

	catalogService := catalog.NewService(productStore)
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog: %s", err)
	}

	warmupService := warmup.NewService(productStore)
	warmupService.RegisterEndpoints(c, router)

	sessionStore, sessionStoreCleanup, err := mystore.New[session.Record](c)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer sessionStoreCleanup()

	sessionConfig, err := sessionConfigFromEnvironment()
	if err != nil {
		log.Fatalf("Error reading session config: %s", err)
	}
	sessionManager := session.NewManager(sessionStore, mytime.RealNower{}, myuuid.RealUUIDer{}, sessionConfig)
	router.Use(sessionManager.Middleware)

	cartService := cart.NewService(catalogService.Resolver())
	cartService.RegisterEndpoints(c, router)

	startWebServerBlocking(router)
}

func sessionConfigFromEnvironment() (session.Config, error) {
	config := session.Config{
		CookieName: session.DefaultCookieName,
		MaxAge:     session.DefaultMaxAge,
	}

	if value := os.Getenv("SESSION_MAX_AGE"); value != "" {
		maxAge, err := time.ParseDuration(value)
		if err != nil {
			return config, fmt.Errorf("invalid SESSION_MAX_AGE %q: %w", value, err)
		}
		config.MaxAge = maxAge
	}

	if value := os.Getenv("SESSION_COOKIE_SECURE"); value != "" {
		secure, err := strconv.ParseBool(value)
		if err != nil {
			return config, fmt.Errorf("invalid SESSION_COOKIE_SECURE %q: %w", value, err)
		}
		config.Secure = secure
	}

	return config, nil
}

func startWebServerBlocking(router *mux.Router) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
