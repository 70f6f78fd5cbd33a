package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sobooked/storefront/internal/cart"
	"github.com/sobooked/storefront/internal/catalog"
	"github.com/sobooked/storefront/internal/checkout"
	"github.com/sobooked/storefront/internal/config"
	"github.com/sobooked/storefront/internal/events"
	"github.com/sobooked/storefront/internal/handlers"
	"github.com/sobooked/storefront/internal/httpserver"
	"github.com/sobooked/storefront/internal/logging"
	mw "github.com/sobooked/storefront/internal/middleware"
	"github.com/sobooked/storefront/internal/payment"
	"github.com/sobooked/storefront/internal/session"
	"github.com/sobooked/storefront/internal/upstream"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	api := upstream.New(cfg.UpstreamURL)
	processor := payment.New(cfg.ProcessorURL, cfg.ProcessorKey)

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.ActivityTopic)
		defer producer.Close()
	}

	store := catalog.New(api, logger)
	panel := cart.NewPanel(api, sessions, logger)
	flow := checkout.NewFlow(api, processor, logger)

	// the mount-time fetches: catalog once, saved set when a token exists
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store.Load(startCtx)
	if sess, err := sessions.Load(); err == nil {
		store.RefreshSaved(startCtx, sess.JWT)
	}
	cancel()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 30 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(mw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Sessions: sessions,
		Catalog: &handlers.CatalogHandler{
			Store:    store,
			API:      api,
			Sessions: sessions,
			Producer: producer,
			Log:      logger,
		},
		Cart: &handlers.CartHandler{
			Panel:    panel,
			Flow:     flow,
			API:      api,
			Sessions: sessions,
			Log:      logger,
		},
		Auth: &handlers.AuthHandler{
			API:      api,
			Sessions: sessions,
			Store:    store,
			Log:      logger,
		},
		Books: &handlers.BooksHandler{
			API:      api,
			Store:    store,
			Sessions: sessions,
			Log:      logger,
		},
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
