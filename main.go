package main

import (
	"time"

	"go.uber.org/zap"

	"supapass/database"
	"supapass/github"
	"supapass/handlers"
	"supapass/middlewares"
	"supapass/pkpass"
	"supapass/realtime"
	"supapass/store"
	"supapass/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	config, err := database.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// PostgreSQL and Redis come up independently.
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("failed to initialize PostgreSQL", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(config, logger)
		if err != nil {
			logger.Fatal("failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	<-done
	<-done

	dataStore := store.NewGormStore(db)
	githubClient := github.New(config.GitHubToken, rdb, logger)
	hub := realtime.NewHub(logger)

	generator, err := pkpass.NewGenerator(config, logger)
	if err != nil {
		logger.Fatal("failed to load signing material", zap.Error(err))
	}

	// Hourly refresh keeps active passes in sync with GitHub.
	go utils.CronRefresher(dataStore, githubClient, hub, logger)

	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", handlers.Home)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// PassKit web service, paths fixed by Apple's specification.
	router.POST("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		handlers.RegisterDevice(c, dataStore, logger)
	})
	router.DELETE("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		handlers.UnregisterDevice(c, dataStore, logger)
	})
	router.GET("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier", func(c *gin.Context) {
		handlers.ListUpdatedSerials(c, dataStore, logger)
	})
	router.GET("/v1/passes/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		handlers.GetPass(c, dataStore, generator, logger)
	})

	// Authenticated application API.
	authenticated := router.Group("/", middlewares.SessionAuth([]byte(config.SessionSecret), logger))
	authenticated.POST("/pass/generate", func(c *gin.Context) {
		handlers.GeneratePass(c, dataStore, githubClient, generator, hub, config, logger)
	})

	// Public surface for the shareable web view.
	router.GET("/passes/public/:passId", func(c *gin.Context) {
		handlers.PublicPass(c, dataStore, logger)
	})
	router.POST("/passes/public", func(c *gin.Context) {
		handlers.PublicPass(c, dataStore, logger)
	})
	router.POST("/stats", func(c *gin.Context) {
		handlers.Stats(c, githubClient, logger)
	})
	router.GET("/stats/:username", func(c *gin.Context) {
		handlers.Stats(c, githubClient, logger)
	})
	router.GET("/ws/passes/:passId", func(c *gin.Context) {
		handlers.PassPreviewFeed(c, dataStore, hub, logger)
	})

	if err := router.Run(config.ListenAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
