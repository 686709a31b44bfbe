package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"TON_rewards_miniapp/internal/api"
	"TON_rewards_miniapp/internal/middleware"
	"TON_rewards_miniapp/internal/repository"
	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"TON_rewards_miniapp/pkg/tonapi"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

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

	userService := service.NewUserService(repo)
	fixedTaskService := service.NewFixedTaskService(repo)
	dailyBonusService := service.NewDailyBonusService(repo)
	referralService := service.NewReferralService(repo)
	miningService := service.NewMiningService(repo)

	tonClient := tonapi.NewClient(cfg.Ton.APIBaseURL, cfg.Ton.APIToken)
	paymentService := service.NewPaymentService(repo, tonClient, cfg.Ton.AdminWallet)

	telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.TelegramBotToken, cfg.TelegramAuth.DebugMode)
	authorization := middleware.NewAuthorization(userService)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, telegramAuth)
	api.NewFixedTaskRoutes(a, fixedTaskService, telegramAuth, authorization)
	api.NewDailyBonusRoutes(a, dailyBonusService, telegramAuth)
	api.NewReferralRoutes(a, referralService, telegramAuth)
	api.NewMiningRoutes(a, miningService, telegramAuth)
	api.NewMiningSocketRoutes(a, miningService, telegramAuth)
	api.NewPaymentRoutes(a, paymentService, telegramAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
