package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"videoforge/internal/history"
	"videoforge/internal/http/handlers"
	"videoforge/internal/http/httpapi"
	"videoforge/internal/infra"
	"videoforge/internal/storage"
	"videoforge/internal/videogen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	kv, err := storage.NewFileStore(cfg.HistoryDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open history storage")
	}
	store := history.NewStore(kv, history.StoreOptions{
		Limit:  cfg.HistoryLimit,
		Logger: &logger,
	})

	generator, err := videogen.NewClient(videogen.Options{
		APIKey:     cfg.VideoAPIKey,
		CustomerID: cfg.VideoCustomerID,
		BaseURL:    cfg.VideoAPIBaseURL,
		Model:      cfg.VideoModel,
		Timeout:    cfg.GenerateTimeout,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation client")
	}

	app := handlers.NewApp(&logger, generator, store)
	router := httpapi.NewRouter(cfg, logger, app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", generator.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
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
