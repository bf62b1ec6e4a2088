// trackerd runs the relay HTTP server and, when a bot token is
// configured, the Telegram front-end.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/xiello/tracy/internal/api"
	"github.com/xiello/tracy/internal/bot"
	"github.com/xiello/tracy/internal/config"
	"github.com/xiello/tracy/internal/infra/sqlite"
	"github.com/xiello/tracy/internal/llm"
	"github.com/xiello/tracy/internal/logger"
	"github.com/xiello/tracy/internal/pipeline"
	"github.com/xiello/tracy/internal/query"
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath(), "path to the TOML config file")
		addr       = flag.String("addr", "", "listen address (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New("info")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load categories")
	}

	model, err := llm.New(llm.Options{
		Provider: cfg.Model.Provider,
		Model:    cfg.Model.Name,
		BaseURL:  cfg.Model.OllamaURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("model unavailable, running rule-based only")
		model = nil
	}

	parser := pipeline.New(catalog, model, log, pipeline.WithThreshold(cfg.Model.Threshold))
	querier := query.NewPipeline(store, model, cfg.Currency, log,
		query.WithCache(query.NewResponseCache(cfg.CacheTTL())))

	srv := api.NewServer(parser, querier, store, store, log)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}
	httpServer := &http.Server{
		Addr:              listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().Str("addr", listenAddr).Msg("relay listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Bot.Token != "" {
		tgBot, err := bot.New(cfg.Bot.Token, parser, querier, store, store, cfg.Bot.AllowedChatIDs, log)
		if err != nil {
			log.Fatal().Err(err).Msg("connect bot")
		}
		go func() {
			if err := tgBot.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	} else {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("fatal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}

func openStore(cfg config.Config) (*sqlite.Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(cfg.DBPath)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tracy.toml"
	}
	return filepath.Join(home, ".tracy", "tracy.toml")
}
