package main

import (
	"log"
	"net/http"

	"godiag/internal"
	"godiag/internal/config"

	"github.com/joho/godotenv"
)

// The API binary is the headless counterpart of the web UI: pure compute
// endpoints, no persistence, suitable for pipeline use.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	server, err := newServer(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create API server: %v", err)
	}

	addr := ":" + cfg.Port
	logger.Info("API listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatal("Server failed:", err)
	}
}
