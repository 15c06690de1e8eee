package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"launchpad_backend/internal/api"
	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/service"
	"launchpad_backend/internal/solclient"
	"launchpad_backend/internal/worker"
	"launchpad_backend/pkg/auth"
	"launchpad_backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const balanceCacheTTL = 30 * time.Minute

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	solClient := solclient.NewClient(cfg.Solana.RpcURL, zapLogger)
	poller := solclient.NewPoller(solClient, zapLogger)
	cluster := model.Cluster(cfg.Solana.Cluster)

	marketData := service.NewCoinGeckoClient(cfg.Exchange.BaseURL, cfg.Exchange.ApiKey, zapLogger)
	exchangeService := service.NewExchangeService(repo, marketData, nil, zapLogger)

	eligibilityService := service.NewEligibilityService(repo, repo, solClient, zapLogger)
	snapshotService := service.NewSnapshotService(repo, eligibilityService)

	indexer := service.NewIndexerClient(cfg.Indexer.MainnetURL, cfg.Indexer.DevnetURL, cfg.Indexer.ApiKey, zapLogger)
	tokensService := service.NewTokensService()

	events := make(chan service.DepositEvent, 64)
	depositService := service.NewDepositService(
		repo, repo, snapshotService, exchangeService, tokensService,
		solClient, poller, indexer, events, zapLogger,
	)

	saleResultsService := service.NewSaleResultsService(repo, repo, exchangeService, zapLogger)
	rewardsService := service.NewRewardsService(repo, repo)
	balanceService := service.NewBalanceService(solClient, solclient.NewMemoryBalanceCache(balanceCacheTTL), cluster)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Notifier.Enabled {
		notifier, err := worker.NewNotifier(worker.NotifierConfig{
			BotToken: cfg.Notifier.BotToken,
			ChatID:   cfg.Notifier.ChatID,
			Debug:    cfg.Notifier.Debug,
		}, events, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to initialize notifier", zap.Error(err))
		}
		go notifier.Start(ctx)
	}

	adminAuth := auth.NewAPIKeyAuth(cfg.Admin.ApiKey, cfg.Admin.DebugMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewEligibilityRoutes(a, eligibilityService, snapshotService)
	api.NewExchangeRoutes(a, exchangeService, adminAuth)
	api.NewDepositRoutes(a, depositService)
	api.NewSaleResultsRoutes(a, saleResultsService)
	api.NewBalanceRoutes(a, balanceService)
	api.NewRewardsRoutes(a, rewardsService)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
