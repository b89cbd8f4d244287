package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JohnBaeGH/smio-app/config"
	"github.com/JohnBaeGH/smio-app/handlers"
	"github.com/JohnBaeGH/smio-app/scrape"
	"github.com/JohnBaeGH/smio-app/server"
	"github.com/JohnBaeGH/smio-app/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("app", "smio")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	rooms, logs, cleanup, err := buildStores(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize store")
	}
	defer cleanup()

	scraper := scrape.NewScraper(scrape.BrowserConfig{
		Headless:        cfg.Headless,
		PageLoadTimeout: cfg.PageLoadTimeout,
		ElementWait:     cfg.ElementWait,
	}, cfg.MaxLoadMore, cfg.LoadMoreRetries, cfg.ScrapeCacheTTL, log.WithField("component", "scraper"))

	h := &handlers.Handler{
		Rooms:             rooms,
		Logs:              logs,
		Scraper:           scraper,
		Normalizer:        scrape.NewNormalizer(cfg.RedirectTimeout, log.WithField("component", "normalizer")),
		BaseURL:           cfg.BaseURL,
		AdminPasswordHash: cfg.AdminPasswordHash,
		JWTSecret:         cfg.JWTSecret,
		Log:               log.WithField("component", "handlers"),
	}

	svr := server.SetupRoutes(h)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("addr", cfg.Addr).Info("server starting")
		if err := svr.Run(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	<-done
	log.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeout); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

func buildStores(cfg config.Config) (store.RoomStore, store.LogStore, func(), error) {
	if cfg.StoreBackend == "mysql" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := store.NewMySQLStore(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, nil, err
		}
		return db.Rooms(), db.Logs(), func() { _ = db.Close() }, nil
	}

	rooms, err := store.NewFileRoomStore(cfg.RoomsDir)
	if err != nil {
		return nil, nil, nil, err
	}
	logs, err := store.NewFileLogStore(cfg.LogsDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return rooms, logs, func() {}, nil
}
