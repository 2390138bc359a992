package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"videowizard/internal/assist"
	"videowizard/internal/http/handlers"
	httpapi "videowizard/internal/http/httpapi"
	"videowizard/internal/infra"
	"videowizard/internal/keygate"
	"videowizard/internal/media"
	"videowizard/internal/providers/genai"
	"videowizard/internal/storage"
	"videowizard/internal/videogen"
	"videowizard/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	uploads, err := storage.NewFileStore(cfg.UploadsBasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload store")
	}

	keys := keygate.NewStore(cfg.GeminiAPIKey)
	encoder := media.NewEncoder(uploads)
	client := genai.NewClient(genai.Options{
		BaseURL:    cfg.GeminiBaseURL,
		TextModel:  cfg.GeminiTextModel,
		VideoModel: cfg.VeoModel,
		Logger:     &logger,
	})
	assistSvc := assist.NewService(keys, client, logger)

	// Each session gets its own orchestrator so per-session job state
	// never bleeds between wizards.
	newWizard := func() *wizard.Wizard {
		orch := videogen.NewOrchestrator(videogen.Options{
			Gate:         keys,
			Backend:      client,
			Encoder:      encoder,
			PollInterval: cfg.PollInterval,
			Logger:       &logger,
		})
		return wizard.New(assistSvc, orch, encoder)
	}

	app := handlers.NewApp(logger, keys, uploads, newWizard)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
