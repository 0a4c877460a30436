package main

import (
	"fmt"
	"net/http"
	"os"

	"tarjetajoven/internal/mockserver"
	"tarjetajoven/internal/shared/config"
	"tarjetajoven/internal/shared/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Int("port", cfg.MockPort).
		Msg("Configuration loaded")

	// 3. Build the mock server
	server := mockserver.New(cfg.JWTSecret, &baseLogger)

	addr := fmt.Sprintf(":%d", cfg.MockPort)
	baseLogger.Info().
		Str("addr", addr).
		Msg("Mock server listening. Endpoints: POST /mock-ine, /api/v1/auth/*, /api/v1/cardholders, GET /api/v1/catalog, POST /collect")

	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		baseLogger.Fatal().Err(err).Msg("Mock server stopped")
	}
}
