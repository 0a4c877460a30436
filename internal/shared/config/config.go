package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the client core and the local
// mock server.
type Config struct {
	AppEnv        string // "dev" | "preview" | "prod"
	APIBaseURL    string
	AnalyticsURL  string // empty disables collector delivery
	IDValidateURL string // identity-validation endpoint
	DataDir       string // local persistent-storage directory
	MockPort      int
	JWTSecret     string // mock server token signing secret
	EncryptionKey string // optional hex key sealing the token slot at rest
}

// IsDev reports whether the app runs in the development environment.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// Load loads configuration from environment variables, optionally fed
// by a .env file.
func Load() (*Config, error) {

	// 1. Load .env into the process environment. A missing file is
	// fine in prod; any other error should surface.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// 2. Explicitly bind viper keys to env var names.
	bindings := map[string]string{
		"app.env":         "APP_ENV",
		"api.base_url":    "API_BASE_URL",
		"analytics.url":   "ANALYTICS_URL",
		"id_validate.url": "ID_VALIDATION_URL",
		"data.dir":        "DATA_DIR",
		"mock.port":       "MOCK_PORT",
		"jwt.secret":      "JWT_SECRET",
		"encryption.key":  "ENCRYPTION_KEY",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults. The API default mirrors the deployed reverse
	// proxy prefix; the mock port matches the web client dev tooling.
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("api.base_url", "http://localhost:4100/api/v1")
	viper.SetDefault("id_validate.url", "http://localhost:4100/mock-ine")
	viper.SetDefault("data.dir", ".tarjetajoven")
	viper.SetDefault("mock.port", 4100)
	viper.SetDefault("jwt.secret", "tj-dev-secret")

	// 4. Get values directly from viper.
	cfg := Config{
		AppEnv:        viper.GetString("app.env"),
		APIBaseURL:    viper.GetString("api.base_url"),
		AnalyticsURL:  viper.GetString("analytics.url"),
		IDValidateURL: viper.GetString("id_validate.url"),
		DataDir:       viper.GetString("data.dir"),
		MockPort:      viper.GetInt("mock.port"),
		JWTSecret:     viper.GetString("jwt.secret"),
		EncryptionKey: viper.GetString("encryption.key"),
	}

	// 5. Validation.
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}
	if cfg.MockPort <= 0 || cfg.MockPort > 65535 {
		return nil, fmt.Errorf("MOCK_PORT must be a valid TCP port, got %d", cfg.MockPort)
	}
	if cfg.AppEnv != "dev" && cfg.JWTSecret == "tj-dev-secret" {
		return nil, fmt.Errorf("JWT_SECRET must be set outside the dev environment")
	}
	if key := cfg.EncryptionKey; key != "" && len(key) != 32 && len(key) != 64 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be a 32- or 64-character hex string, got %d chars", len(key))
	}

	return &cfg, nil
}
