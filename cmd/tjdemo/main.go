package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"tarjetajoven/internal/adapters/beacon"
	"tarjetajoven/internal/adapters/connectivity"
	"tarjetajoven/internal/adapters/filestore"
	"tarjetajoven/internal/adapters/httpapi"
	"tarjetajoven/internal/analytics"
	"tarjetajoven/internal/auth"
	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/preferences"
	"tarjetajoven/internal/registration"
	"tarjetajoven/internal/shared/config"
	"tarjetajoven/internal/shared/logger"
)

// tjdemo runs the whole client stack once against a running mock
// server (cmd/mockserver): tracks analytics events, logs in, lists the
// catalog and walks the registration workflow end to end.
func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev())
	baseLogger.Info().Str("api", cfg.APIBaseURL).Msg("Configuration loaded")

	// 3. Local storage, sealed when a key is configured
	store, err := filestore.New(cfg.DataDir, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to open local storage")
	}
	tokenBacking := store
	if cfg.EncryptionKey != "" {
		keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to decode ENCRYPTION_KEY. It must be hex-encoded.")
		}
		tokenBacking, err = filestore.NewSealed(store, keyBytes, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize sealed storage")
		}
	}

	// 4. Token store, API client and surfaces
	tokens := auth.NewTokenStore(tokenBacking, &baseLogger)
	client := httpapi.NewClient(cfg.APIBaseURL, tokens, &baseLogger)
	authAPI := httpapi.NewAuthAPI(client)
	cardholders := httpapi.NewCardholderAPI(client)
	verifier := httpapi.NewIdentityVerifier(client, cfg.IDValidateURL)
	catalog := httpapi.NewCatalogAPI(client)

	// 5. Analytics queue over the beacon sender
	conn := connectivity.NewManual(true)
	sender := beacon.New(cfg.AnalyticsURL, &baseLogger)
	queue := analytics.New(store, sender, conn, cfg.AppEnv, &baseLogger)
	queue.Track(domain.EventOpenApp, nil)
	queue.Track(domain.EventSearch, map[string]any{"q": "cine"})

	// 6. Preferences
	prefs := preferences.New(store, &baseLogger)
	baseLogger.Info().
		Str("language", string(prefs.Get().Language)).
		Str("theme", string(prefs.Get().Theme)).
		Msg("Preferences loaded")

	ctx := context.Background()

	// 7. Session: demo login against the mock credentials
	session := auth.NewSession(tokens, authAPI, &baseLogger)
	if err := session.Login(ctx, domain.LoginCredentials{
		Username: "maria@example.com",
		Password: "Tarjeta123",
	}); err != nil {
		baseLogger.Warn().Err(err).Msg("Demo login failed (is the mock server running?)")
	} else if user := session.User(); user != nil {
		baseLogger.Info().Str("curp", user.CURP).Msg("Logged in")
	}

	// 8. Catalog listing
	if page, err := catalog.List(ctx, domain.CatalogQuery{Search: "cine"}); err == nil {
		baseLogger.Info().Int("results", len(page.Items)).Msg("Catalog query done")
	}

	// 9. Registration workflow end to end against the mock verifier
	workflow := registration.NewWorkflow(verifier, cardholders, &baseLogger)
	workflow.AttachDocument(domain.DocumentFront, demoDocument("ine-front.png"))
	workflow.AttachDocument(domain.DocumentBack, demoDocument("ine-back.png"))
	workflow.SetConsent(true)
	if err := workflow.SubmitDocuments(ctx); err != nil {
		baseLogger.Warn().Err(err).Msg("Document verification failed")
	} else {
		if err := workflow.Confirm(); err != nil {
			baseLogger.Warn().Err(err).Msg("Review confirmation failed")
		}
		workflow.SetCredentials("maria@example.com", "Abcdefg1", true)
		if err := workflow.CreateAccount(ctx); err != nil {
			baseLogger.Warn().Err(err).Msg("Account creation failed")
		} else {
			baseLogger.Info().Str("notice", workflow.Notice()).Msg("Registration complete")
		}
	}

	// 10. Drain whatever is still queued before exiting
	queue.Flush(ctx)
	baseLogger.Info().Int("pending_events", len(queue.Pending())).Msg("Demo finished")
}

func demoDocument(name string) *domain.Document {
	content := []byte("demo-image-bytes")
	return &domain.Document{
		FileName: name,
		MIMEType: "image/png",
		Size:     int64(len(content)),
		Content:  content,
	}
}
