package main

import (
	"context"
	"flag"
	"time"

	"traveltodo/internal/api"
	"traveltodo/internal/auth"
	"traveltodo/internal/catalog"
	"traveltodo/internal/chatbot"
	"traveltodo/internal/config"
	"traveltodo/internal/llm"
	"traveltodo/internal/logger"
	"traveltodo/internal/metrics"
	"traveltodo/internal/redis"
	"traveltodo/internal/service/chat"
	"traveltodo/internal/service/users"
	"traveltodo/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfgPath := flag.String("config", "", "path to the JSON config file")
	seed := flag.Bool("seed", false, "populate an empty catalog with demo data")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("load config")
	}
	log := logger.InitGlobal(logger.Config{
		Level:  cfg.BasicConfig.LogLevel,
		Pretty: cfg.BasicConfig.LogPretty,
	})
	ctx := context.Background()

	dbType := cfg.BasicConfig.Database
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("database", dbType).Msg("open database")
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}
	if *seed {
		seeded, err := storage.Seed(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("seed catalog")
		}
		log.DbLogger("seed").Info().Bool("seeded", seeded).Msg("catalog seed finished")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	gen, avail := llm.New(ctx, cfg, log)
	store := catalog.NewStore(db)
	chatService := chat.NewService(db, store,
		chatbot.NewRecommender(store, cfg.Chatbot.WebFallbackEnabled()),
		chatbot.NewResponder(gen, avail, log, m),
		chat.Options{
			RecommendationLimit: cfg.Chatbot.RecommendationLimit,
			HistoryWindow:       cfg.Chatbot.HistoryWindow,
			Cache:               rdb,
			Metrics:             m,
			Logger:              log,
		},
	)
	authService := auth.NewService(db, rdb, cfg.BasicConfig.TokenTTL())
	handlers := api.NewHandler(chatService, users.NewService(db), authService, api.Options{
		Metrics:   m,
		Gatherer:  reg,
		Logger:    log,
		RateLimit: cfg.BasicConfig.RateLimit,
		RateBurst: cfg.BasicConfig.RateBurst,
	})

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BasicConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", authService.CSRFHeaderName()},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	log.LogServerStart(addr, db.Driver(), gen.Name())
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
