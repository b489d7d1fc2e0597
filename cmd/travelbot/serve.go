package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PabloGalante/travelbot/internal/adapters/flights"
	httpadapter "github.com/PabloGalante/travelbot/internal/adapters/http"
	"github.com/PabloGalante/travelbot/internal/adapters/llm"
	"github.com/PabloGalante/travelbot/internal/adapters/messaging"
	"github.com/PabloGalante/travelbot/internal/adapters/photos"
	firestorestore "github.com/PabloGalante/travelbot/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/travelbot/internal/adapters/storage/memory"
	"github.com/PabloGalante/travelbot/internal/app/composer"
	"github.com/PabloGalante/travelbot/internal/app/conversation"
	"github.com/PabloGalante/travelbot/internal/app/packages"
	"github.com/PabloGalante/travelbot/internal/app/search"
	"github.com/PabloGalante/travelbot/internal/app/tools"
	"github.com/PabloGalante/travelbot/internal/config"
	"github.com/PabloGalante/travelbot/internal/domain"
	"github.com/PabloGalante/travelbot/internal/observability"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server and the search workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, v)
		},
	}

	cmd.Flags().String("port", "5000", "HTTP port")
	cmd.Flags().String("mode", "local", "run mode (local or production)")
	cmd.Flags().String("llm-provider", "mock", "LLM provider (mock, gemini or vertex)")
	cmd.Flags().String("messenger", "log", "outbound messenger (log or twilio)")
	cmd.Flags().String("storage-backend", "memory", "accepted package storage (memory or firestore)")
	cmd.Flags().Int("search-workers", 4, "concurrent background searches")

	mustBind(v, "port", cmd.Flags().Lookup("port"))
	mustBind(v, "mode", cmd.Flags().Lookup("mode"))
	mustBind(v, "llm_provider", cmd.Flags().Lookup("llm-provider"))
	mustBind(v, "messenger", cmd.Flags().Lookup("messenger"))
	mustBind(v, "storage_backend", cmd.Flags().Lookup("storage-backend"))
	mustBind(v, "search_workers", cmd.Flags().Lookup("search-workers"))
	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	observability.Init(cfg.LogLevel, cfg.LogFormat)
	log := observability.Logger()
	log.Info("starting travelbot", "version", version, "mode", cfg.Mode)

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return err
	}

	flightSearcher := buildFlights(ctx, cfg)
	photoSearcher := buildPhotos(cfg)
	messenger := buildMessenger(cfg)

	pkgStore, closeStore, err := buildPackageStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Set before the pool starts; searches only run after that.
	var convSvc *conversation.Service
	searchActive := func(ctx context.Context, job domain.SearchJob) bool {
		return convSvc.SearchActive(ctx, job.UserID, job.ID)
	}

	orchestrator := search.NewOrchestrator(
		flightSearcher,
		photoSearcher,
		composer.NewCrew(llmClient, tools.NewHotelPhotosTool(photoSearcher)),
		messenger,
		nil,
		search.Options{
			PhotoDelay:      cfg.PhotoDelay,
			MaxResultLength: cfg.MaxResultLength,
			Active:          searchActive,
		},
	)

	var searchPanics atomic.Int64
	panicHandler := search.NewMetricsPanicHandler(search.LogPanicHandler{}, func(workerID int, _ any) {
		log.Warn("search panic recovered", "worker_id", workerID, "search_panics_total", searchPanics.Add(1))
	})

	pool, err := search.NewPool(search.PoolConfig{
		Workers:      cfg.SearchWorkers,
		QueueSize:    cfg.SearchQueueSize,
		Timeout:      cfg.SearchTimeout,
		Runner:       orchestrator,
		PanicHandler: panicHandler,
	})
	if err != nil {
		return fmt.Errorf("creating search pool: %w", err)
	}

	convSvc = conversation.NewService(memstore.NewSessionStore(), pkgStore, pool)

	// Searches outlive the signal so Stop can drain them.
	pool.Start(context.WithoutCancel(ctx), convSvc.ApplySearchOutcome)

	serverCfg := httpadapter.Config{
		Conversation:     convSvc,
		Packages:         packages.NewService(pkgStore),
		InboundPerMinute: cfg.InboundPerMinute,
	}
	if cfg.TwilioValidateSigning {
		serverCfg.TwilioAuthToken = cfg.TwilioAuthToken
		serverCfg.PublicWebhookURL = cfg.PublicWebhookURL
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(serverCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("travelbot listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case serveErr = <-errCh:
		log.Error("http server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		log.Warn("search pool did not drain", "error", err)
	}

	log.Info("travelbot stopped", "search_panics_total", searchPanics.Load())
	return serveErr
}

func buildLLM(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	log := observability.Logger()

	switch cfg.LLMProvider {
	case "gemini", "vertex":
		gcfg := llm.GeminiConfig{Model: cfg.ModelName}
		if cfg.LLMProvider == "gemini" {
			gcfg.APIKey = cfg.GeminiAPIKey
		} else {
			gcfg.Project = cfg.GCPProjectID
			gcfg.Location = cfg.GCPLocation
		}
		client, err := llm.NewGeminiClient(ctx, gcfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s LLM client: %w", cfg.LLMProvider, err)
		}
		log.Info("using LLM client", "provider", cfg.LLMProvider, "model", cfg.ModelName)
		return client, nil
	default:
		log.Info("using LLM client", "provider", "mock")
		return llm.NewMockLLM(), nil
	}
}

func buildFlights(ctx context.Context, cfg *config.Config) domain.FlightSearcher {
	log := observability.Logger()

	if cfg.AmadeusClientID == "" || cfg.AmadeusClientSecret == "" {
		log.Warn("amadeus credentials missing, using offline flight offers")
		return flights.NewOfflineSearcher()
	}

	client := flights.NewAmadeusClient(flights.AmadeusConfig{
		ClientID:     cfg.AmadeusClientID,
		ClientSecret: cfg.AmadeusClientSecret,
		BaseURL:      cfg.AmadeusBaseURL,
	})
	// A failed warm-up is retried on the first search.
	if err := client.Authenticate(ctx); err != nil {
		log.Warn("amadeus authentication failed", "error", err)
	} else {
		log.Info("amadeus authenticated", "base_url", cfg.AmadeusBaseURL)
	}
	return client
}

func buildPhotos(cfg *config.Config) domain.PhotoSearcher {
	if cfg.UnsplashAccessKey == "" {
		observability.Logger().Warn("unsplash access key missing, photos disabled")
		return photos.Static{}
	}
	return photos.NewUnsplash(cfg.UnsplashAccessKey, cfg.UnsplashBaseURL)
}

func buildMessenger(cfg *config.Config) domain.Messenger {
	if cfg.Messenger == "twilio" {
		observability.Logger().Info("using twilio messenger", "from", cfg.TwilioWhatsAppNumber)
		return messaging.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	}
	observability.Logger().Info("using log messenger")
	return messaging.NewLogMessenger()
}

func buildPackageStore(ctx context.Context, cfg *config.Config) (domain.PackageStore, func(), error) {
	log := observability.Logger()

	if cfg.StorageBackend == "firestore" {
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing firestore store: %w", err)
		}
		log.Info("using firestore package store", "project", cfg.GCPProjectID)
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("closing firestore store", "error", err)
			}
		}, nil
	}

	log.Info("using in-memory package store")
	return memstore.NewPackageStore(), func() {}, nil
}
