package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"faucetdrop-bot/internal/bot"
	"faucetdrop-bot/internal/config"
	"faucetdrop-bot/internal/handler"
	"faucetdrop-bot/internal/payout"
	"faucetdrop-bot/internal/repository"
	"faucetdrop-bot/internal/router"
	"faucetdrop-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting faucetdrop-bot...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize claim store based on config
	var claimStore repository.ClaimStore
	switch cfg.ClaimStore.Type {
	case "redis":
		redisStore, err := repository.NewRedisClaimStore(repository.RedisClaimStoreConfig{
			Addr:     cfg.ClaimStore.RedisAddress(),
			Password: cfg.ClaimStore.RedisPassword,
			DB:       cfg.ClaimStore.RedisDB,
			Cooldown: cfg.Claims.Cooldown,
			Throttle: cfg.Claims.Throttle,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Redis claim store: %v", err)
		}
		defer redisStore.Close()
		claimStore = redisStore
		log.Println("Redis claim store initialized")
	default: // memory
		memStore := repository.NewMemoryClaimStore(cfg.Claims.Cooldown * 2)
		defer memStore.Close()
		claimStore = memStore
		log.Println("Memory claim store initialized (cooldown state is lost on restart)")
	}

	// Initialize history repository based on config
	var historyRepo repository.HistoryRepository
	switch cfg.HistoryDB.Type {
	case "sqlite":
		sqliteRepo, err := repository.NewSQLiteHistoryRepository(cfg.HistoryDB.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		defer sqliteRepo.Close()
		historyRepo = sqliteRepo
		log.Println("SQLite history repository initialized")
	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresHistoryRepository(cfg.HistoryDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer pgRepo.Close()
		historyRepo = pgRepo
		log.Println("PostgreSQL history repository initialized")
	case "mysql":
		mysqlRepo, err := repository.NewMySQLHistoryRepository(cfg.HistoryDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		defer mysqlRepo.Close()
		historyRepo = mysqlRepo
		log.Println("MySQL history repository initialized")
	case "mongodb", "mongo":
		mongoRepo, err := repository.NewMongoDBHistoryRepository(
			cfg.HistoryDB.MongoURI,
			cfg.HistoryDB.MongoDatabase,
			cfg.HistoryDB.MongoCollection,
		)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer mongoRepo.Close()
		historyRepo = mongoRepo
		log.Println("MongoDB history repository initialized")
	default: // file
		fileRepo, err := repository.NewFileHistoryRepository(cfg.HistoryDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize file history: %v", err)
		}
		defer fileRepo.Close()
		historyRepo = fileRepo
		log.Println("File history repository initialized")
	}

	// Initialize payout client
	payoutClient := payout.NewFaucetPayClient(payout.FaucetPayConfig{
		APIKey:   cfg.FaucetPay.APIKey,
		Endpoint: cfg.FaucetPay.URL,
		Currency: cfg.FaucetPay.Currency,
		Amount:   cfg.FaucetPay.Amount,
		Timeout:  cfg.FaucetPay.Timeout,
	})

	// Initialize services
	eligibilityService := service.NewEligibilityService(claimStore, cfg.Claims.Cooldown, cfg.Claims.Throttle)
	claimService := service.NewClaimService(eligibilityService, historyRepo, payoutClient, cfg.Claims.SessionTTL)
	if claimService == nil {
		log.Fatal("Failed to initialize claim service")
	}
	defer claimService.Close()
	statsService := service.NewStatsService(historyRepo)

	// Initialize Telegram bot API
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}
	api.Debug = cfg.App.Debug
	log.Printf("Authorized on Telegram account @%s", api.Self.UserName)

	// Register the webhook if a public URL is configured
	if cfg.Telegram.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.Telegram.WebhookURL)
		if err != nil {
			log.Fatalf("Failed to build webhook config: %v", err)
		}
		if _, err := api.Request(wh); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}
		log.Printf("Webhook registered: %s", cfg.Telegram.WebhookURL)
	}

	// Initialize bot
	faucetBot := bot.New(bot.Config{
		Sender:   bot.NewTelegramSender(api),
		Claims:   claimService,
		Stats:    statsService,
		AdminIDs: cfg.Admin.AdminIDs(),
		Amount:   cfg.FaucetPay.Amount,
		Currency: cfg.FaucetPay.Currency,
	})
	if faucetBot == nil {
		log.Fatal("Failed to initialize bot")
	}

	// Initialize handlers
	baseHandler := handler.New(claimService, cfg.App.Version)
	webhookHandler := handler.NewWebhookHandler(faucetBot)
	statsHandler := handler.NewStatsHandler(statsService, claimService)
	exportHandler := handler.NewExportHandler(historyRepo, cfg.Admin.ExportPassword)

	// Create router
	r := router.New(router.Config{
		Handler:        baseHandler,
		WebhookHandler: webhookHandler,
		StatsHandler:   statsHandler,
		ExportHandler:  exportHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
