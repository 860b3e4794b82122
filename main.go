package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/admin"
	apirest "github.com/mizunashi/gamevault/server/api/rest"
	"github.com/mizunashi/gamevault/server/auth"
	"github.com/mizunashi/gamevault/server/cache"
	"github.com/mizunashi/gamevault/server/config"
	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	applog "github.com/mizunashi/gamevault/server/logger"
	"github.com/mizunashi/gamevault/server/loginlog"
	"github.com/mizunashi/gamevault/server/mail"
	mw "github.com/mizunashi/gamevault/server/middleware"
	"github.com/mizunashi/gamevault/server/reward"
	"github.com/mizunashi/gamevault/server/scheduler"
	"github.com/mizunashi/gamevault/server/session"
	"github.com/mizunashi/gamevault/server/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	logger, err := applog.New(cfg.Log, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret must be set")
	}

	// ---- Storage ----
	driver, err := storage.OpenDriver(cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	store := storage.New(driver, logger)
	if err := store.Load(); err != nil {
		log.Fatalf("storage load: %v", err)
	}
	defer store.Close()
	logger.Info("storage initialized", zap.String("mode", cfg.Storage.Mode))

	// ---- Cache / PubSub ----
	cacheConfig := cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("cache initialized")

	// ---- Services ----
	logs := loginlog.New(store, logger)
	defer logs.Stop()

	accounts := account.NewService(store, logger)
	ledger := currency.NewLedger(store, logger)
	inv := inventory.NewService(store, logger)
	rewards := reward.NewEngine(store, ledger, inv, logger)
	mails := mail.NewEngine(store, ledger, inv,
		time.Duration(cfg.Game.PlayerMailExpiryDays)*24*time.Hour, logger)
	sessions := session.NewManager(c, cfg.Auth.SessionTTL, logger)
	gate := auth.NewGate(accounts, sessions, logs, cfg.Auth.SingleSession, logger)
	facade := admin.NewFacade(accounts, ledger, inv, rewards, mails, sessions, logs, pubsub, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.Storage.CheckpointInterval > 0 {
		sched.AddTicker("checkpoint", cfg.Storage.CheckpointInterval, func() {
			store.SaveAll()
			logger.Debug("checkpoint saved")
		})
	}

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Auth.RateLimitRPS), cfg.Auth.RateLimitBurst, cfg.Auth.RateLimitIdleTTL))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	rewardExpiry := time.Duration(cfg.Game.RewardExpiryDays) * 24 * time.Hour
	mailExpiry := time.Duration(cfg.Game.MailExpiryDays) * 24 * time.Hour

	authH := apirest.NewAuthHandler(gate, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	accountH := apirest.NewAccountHandler(accounts)
	invH := apirest.NewInventoryHandler(inv)
	rewardH := apirest.NewRewardHandler(rewards)
	mailH := apirest.NewMailHandler(mails)
	adminH := apirest.NewAdminHandler(facade, rewardExpiry, mailExpiry)

	requireAuth := mw.Auth(cfg.Auth.JWTSecret, sessions)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/register", authH.Register)
		authG.POST("/login", authH.Login)
		authG.POST("/logout", requireAuth, authH.Logout)

		accountG := api.Group("/account")
		accountG.Use(requireAuth)
		accountG.GET("/me", accountH.Me)
		accountG.PUT("/me", accountH.UpdateProfile)
		accountG.POST("/password", accountH.ChangePassword)

		invG := api.Group("/inventory")
		invG.Use(requireAuth)
		invG.GET("", invH.List)
		invG.POST("/:id/use", invH.Use)
		invG.POST("/:id/equip", invH.Equip)
		invG.POST("/:id/unequip", invH.Unequip)

		rewardG := api.Group("/rewards")
		rewardG.Use(requireAuth)
		rewardG.GET("", rewardH.List)
		rewardG.POST("/:id/claim", rewardH.Claim)

		mailG := api.Group("/mail")
		mailG.Use(requireAuth)
		mailG.GET("", mailH.List)
		mailG.POST("", mailH.Send)
		mailG.POST("/:id/read", mailH.Read)
		mailG.POST("/:id/claim", mailH.Claim)
		mailG.DELETE("/:id", mailH.Delete)

		adminG := api.Group("/admin")
		adminG.Use(mw.AdminAuth(cfg.Server.AdminKey))
		adminG.POST("/accounts/:id/ban", adminH.Ban)
		adminG.POST("/accounts/:id/unban", adminH.Unban)
		adminG.POST("/accounts/:id/currency", adminH.AdjustCurrency)
		adminG.POST("/accounts/:id/items", adminH.GiveItem)
		adminG.POST("/accounts/:id/daily-login", adminH.DailyLogin)
		adminG.GET("/accounts/:id/login-logs", adminH.LoginLogs)
		adminG.POST("/rewards", adminH.GrantReward)
		adminG.POST("/mail", adminH.SystemMail)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
