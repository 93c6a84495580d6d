package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rudrakh/tiffin/config"
	"github.com/rudrakh/tiffin/internal/auth"
	handler "github.com/rudrakh/tiffin/internal/handler/http"
	"github.com/rudrakh/tiffin/internal/logger"
	"github.com/rudrakh/tiffin/internal/middleware"
	"github.com/rudrakh/tiffin/internal/notify"
	"github.com/rudrakh/tiffin/internal/repository"
	"github.com/rudrakh/tiffin/internal/repository/postgres"
	"github.com/rudrakh/tiffin/internal/service"
	"github.com/rudrakh/tiffin/internal/worker"
	"go.uber.org/zap"
)

// devTokenKey is used when TOKEN_KEY is not set. Local runs only.
const devTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	zlog, err := logger.Init(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer zlog.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		zlog.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		zlog.Fatal("Error migrating database", zap.Error(err))
	}

	// business timezone governs ordering windows, invoice days and
	// report buckets
	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		zlog.Fatal("Error loading business timezone", zap.Error(err))
	}

	tokenKeyHex := cfg.TokenKey
	if tokenKeyHex == "" {
		zlog.Warn("TOKEN_KEY is not set, using development key")
		tokenKeyHex = devTokenKey
	}
	tokenKey, err := hex.DecodeString(tokenKeyHex)
	if err != nil {
		zlog.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	var notifier service.Notifier = notify.Nop{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	} else {
		zlog.Warn("Telegram credentials are not set, notifications are disabled")
	}

	// dependency injection
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	itemRepo := repository.NewItemRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// user
	authService := service.NewAuthService(userRepo, token)
	userHandler := handler.NewUserHandler(authService)

	// catalog
	catalogService := service.NewCatalogService(itemRepo, timeslotRepo, locationRepo, settingsRepo)
	if err := catalogService.EnsureDefaults(ctx); err != nil {
		zlog.Fatal("Error seeding settings", zap.Error(err))
	}
	catalogHandler := handler.NewCatalogHandler(catalogService)

	// order
	orderService := service.NewOrderService(orderRepo, timeslotRepo, itemRepo,
		locationRepo, userRepo, settingsRepo, notifier, loc)
	orderHandler := handler.NewOrderHandler(orderService)

	// reports
	reportService := service.NewReportService(orderRepo, itemRepo, loc)
	reportHandler := handler.NewReportHandler(reportService)

	// daily profit digest
	digest := worker.NewDigest(reportService, notifier, loc, cfg.DigestInterval)
	go digest.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(zlog))

	router.Post("/api/user/register", userHandler.Register())
	router.Post("/api/user/login", userHandler.Login())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Get("/api/user/me", userHandler.Me())
		group.Patch("/api/user/me", userHandler.UpdateName())
		group.Get("/api/items", catalogHandler.ListItems())
		group.Get("/api/timeslots", catalogHandler.ListTimeslots())
		group.Get("/api/timeslots/{id}/items", catalogHandler.ItemsByTimeslot())
		group.Get("/api/locations", catalogHandler.ListLocations())
		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/user/orders", orderHandler.ListMyOrders())
		group.Get("/api/orders/{id}", orderHandler.GetOrder())
		group.Post("/api/orders/{id}/pay", orderHandler.MarkPaid())
	})

	// routes that require the admin role
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token), middleware.AdminOnly())
		group.Get("/api/admin/orders", orderHandler.ListOrders())
		group.Post("/api/orders/{id}/status", orderHandler.SetStatus())
		group.Get("/api/admin/reports/settlements", reportHandler.Settlements())
		group.Get("/api/admin/reports/profit", reportHandler.ProfitStats())
		group.Post("/api/admin/items", catalogHandler.CreateItem())
		group.Patch("/api/admin/items/{id}", catalogHandler.UpdateItem())
		group.Delete("/api/admin/items/{id}", catalogHandler.DeleteItem())
		group.Post("/api/admin/timeslots", catalogHandler.CreateTimeslot())
		group.Patch("/api/admin/timeslots/{id}", catalogHandler.UpdateTimeslot())
		group.Post("/api/admin/locations", catalogHandler.CreateLocation())
		group.Get("/api/admin/settings", catalogHandler.Settings())
		group.Put("/api/admin/settings", catalogHandler.PutSetting())
	})

	zlog.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		zlog.Fatal("Error starting server", zap.Error(err))
	}
}
