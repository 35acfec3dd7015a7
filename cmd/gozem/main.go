package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/AdamGeniusDev/Gozem-app-sub000/config"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/auth"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/geocode"
	handler "github.com/AdamGeniusDev/Gozem-app-sub000/internal/handler/http"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/identity"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/ledger"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/middleware"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/notify"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/realtime"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/repository"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/repository/postgres"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/service"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/session"
	"github.com/AdamGeniusDev/Gozem-app-sub000/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const authTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// credential session manager wraps every outbound call
	identityClient := identity.NewClient(cfg.IdentityAddr)
	sessionManager := session.NewManager(identityClient, logger)

	// external collaborators
	ledgerClient := ledger.NewClient(cfg.LedgerAddr, sessionManager)
	notifyClient := notify.NewClient(cfg.NotifyAddr, sessionManager)
	geocodeClient := geocode.NewClient(cfg.GeocodeAddr, sessionManager)

	// change feed
	feed := realtime.NewRedisFeed(cfg.RedisAddr, logger)
	defer feed.Close()

	// dependency injection
	// cart
	cartRepo := repository.NewCartRepository(db)
	cartService := service.NewCartService(cartRepo)
	cartHandler := handler.NewCartHandler(cartService)

	// order
	orderRepo := repository.NewOrderRepository(db)
	settlementService := service.NewSettlementService(ledgerClient, orderRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartService, settlementService,
		geocodeClient, feed, notifyClient, cfg.CancelWindow, logger)
	orderHandler := handler.NewOrderHandler(orderService)

	// dispatch worker announces ready orders to agents
	dispatcher := worker.NewDispatcher(orderRepo, notifyClient, logger)
	go dispatcher.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Post("/api/cart/items", cartHandler.AddItem())
		group.Patch("/api/cart/items", cartHandler.UpdateItem())
		group.Delete("/api/cart", cartHandler.Clear())
		group.Get("/api/cart/{merchantID}/total", cartHandler.GetTotal())
		group.Post("/api/orders", orderHandler.Checkout())
		group.Get("/api/orders/{orderID}", orderHandler.GetOrder())
		group.Get("/api/orders/{orderID}/view", orderHandler.GetOrderView())
		group.Post("/api/orders/{orderID}/status", orderHandler.UpdateStatus())
		group.Post("/api/orders/{orderID}/cancel", orderHandler.Cancel())
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
