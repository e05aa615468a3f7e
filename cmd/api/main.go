package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"creativesuite/internal/auth"
	"creativesuite/internal/gateway"
	"creativesuite/internal/http/handlers"
	"creativesuite/internal/http/httpapi"
	"creativesuite/internal/infra"
	"creativesuite/internal/proxy"
	"creativesuite/internal/store"
	"creativesuite/internal/workflow"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Volatile state container, seeded with the default admin, demo content
	// and global settings.
	st := store.New()
	st.Seed(cfg.AccessPassword)
	prefs := store.NewPrefs()

	authSvc := auth.NewService(st, prefs, logger)

	// Provider boundary. The upstream holds the only copy of the credential;
	// the gateway client reaches it back through our own proxy endpoint, the
	// same path external clients use.
	upstream := proxy.NewGemini(proxy.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  &logger,
	})
	geminiProxy := proxy.NewHandler(upstream, cfg.GeminiAPIKey != "", logger)

	gw, err := gateway.NewClient(gateway.Options{
		BaseURL: "http://127.0.0.1:" + cfg.Port + "/api/gemini",
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gateway client")
	}

	deps := workflow.Deps{
		Store:   st,
		Gateway: gw,
		Logger:  logger,
		Models: workflow.Models{
			Text:  cfg.TextModel,
			Image: cfg.ImageModel,
			Video: cfg.VideoModel,
		},
	}

	app := &handlers.App{
		Store:     st,
		Prefs:     prefs,
		Auth:      authSvc,
		Generator: workflow.NewGenerator(deps, cfg.VideoPollEvery),
		Chat:      workflow.NewChat(deps),
		Novel:     workflow.NewNovelWriter(deps),
		Studio:    workflow.NewStudio(deps),
		Sandbox:   workflow.NewSandbox(deps),
		Quiz:      workflow.NewQuizMaker(deps),
		Toolkit:   workflow.NewToolkit(deps),
		Assistant: workflow.NewAssistant(deps),
		Logger:    logger,
	}

	router := httpapi.NewRouter(app, geminiProxy, httpapi.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
