package protocal

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"ai-chat-backend/configs"
	httpAdapter "ai-chat-backend/internal/adapters/input/http"
	llmAdapter "ai-chat-backend/internal/adapters/output/llm"
	"ai-chat-backend/internal/adapters/output/memory"
	"ai-chat-backend/internal/adapters/output/postgres"
	"ai-chat-backend/internal/adapters/output/storage"
	"ai-chat-backend/internal/application"
	"ai-chat-backend/pkg/auth"
	"ai-chat-backend/pkg/database_driver/gorm"

	swagger "github.com/arsmn/fiber-swagger/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

// Context cache fallbacks applied when the config leaves a limit unset
const (
	defaultCacheMaxSize          = 1000
	defaultCacheTTLSeconds       = 86400
	defaultCacheMaxContextLength = 10000
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeHTTP func
func ServeHTTP() error {
	app := fiber.New()
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	logrus.Info(configs.GetViper().Env)
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept,Authorization",
	}))
	dbConGorm, err := gorm.ConnectToPostgreSQL(
		configs.GetViper().Postgres.Host,
		configs.GetViper().Postgres.Port,
		configs.GetViper().Postgres.Username,
		configs.GetViper().Postgres.Password,
		configs.GetViper().Postgres.DbName,
		configs.GetViper().Postgres.SSLMode,
	)
	if err != nil {
		return err
	}

	// Wire up the hexagonal architecture layers
	// Output adapters
	userRepo := postgres.NewUserRepository(dbConGorm.Postgres)
	conversationRepo := postgres.NewConversationRepository(dbConGorm.Postgres)

	cacheCfg := configs.GetViper().Cache
	if cacheCfg.MaxSize <= 0 {
		cacheCfg.MaxSize = defaultCacheMaxSize
	}
	if cacheCfg.TTL <= 0 {
		cacheCfg.TTL = defaultCacheTTLSeconds
	}
	if cacheCfg.MaxContextLength <= 0 {
		cacheCfg.MaxContextLength = defaultCacheMaxContextLength
	}
	contextCache := memory.NewConversationContextCache(
		cacheCfg.MaxSize,
		time.Duration(cacheCfg.TTL)*time.Second,
		cacheCfg.MaxContextLength,
	)

	llmClient, err := llmAdapter.NewOpenAIClientAdapter(configs.GetViper().LLM)
	if err != nil {
		logrus.Fatalf("Failed to create LLM client: %v", err)
	}

	fileStorage, err := storage.NewLocalStorage(configs.GetViper().Upload.Dir)
	if err != nil {
		logrus.Fatalf("Failed to create file storage: %v", err)
	}

	tokens := auth.NewTokenManager(configs.GetViper().Auth.JWTSecret, configs.GetViper().Auth.TokenTTL)

	// Application services (use cases)
	userSrv := application.NewUserService(userRepo, tokens)
	conversationSrv := application.NewConversationService(conversationRepo, contextCache)
	chatSrv := application.NewChatService(conversationRepo, llmClient, contextCache, fileStorage, configs.GetViper().LLM.SystemPrompt)

	// Input adapter (HTTP handler)
	hdl := httpAdapter.New(userSrv, conversationSrv, chatSrv, contextCache, fileStorage, dbConGorm.Postgres)

	// Optional background sweep of expired context records
	sweeperDone := make(chan struct{})
	if interval := configs.GetViper().Cache.SweepInterval; interval > 0 {
		ticker := time.NewTicker(time.Duration(interval) * time.Second)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					contextCache.ClearExpired()
				case <-sweeperDone:
					return
				}
			}
		}()
		logrus.Infof("Context cache sweeper running every %ds", interval)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			log.Println("Gracefull shut down ...")
			close(sweeperDone)
			gorm.DisconnectPostgres(dbConGorm.Postgres)
			err := app.Shutdown()
			if err != nil {
				log.Println("Error when shutdown server: ", err)
			}
		}
	}()

	app.Get("/swagger/*", swagger.HandlerDefault) // default
	app.Get("/health", hdl.HealthCheck)
	app.Get("/", hdl.Index)
	app.Static("/uploads", fileStorage.Dir())

	magnolia := app.Group("/v1/api")
	{
		magnolia.Post("/users/register", hdl.Register)
		magnolia.Post("/users/login", hdl.Login)
		magnolia.Get("/users/me", httpAdapter.RequireAuth(tokens), hdl.GetProfile)

		magnolia.Get("/conversations", httpAdapter.RequireAuth(tokens), hdl.ListConversations)
		magnolia.Post("/conversations", httpAdapter.RequireAuth(tokens), hdl.CreateConversation)
		magnolia.Put("/conversations/:id", httpAdapter.RequireAuth(tokens), hdl.RenameConversation)
		magnolia.Delete("/conversations/:id", httpAdapter.RequireAuth(tokens), hdl.DeleteConversation)
		magnolia.Get("/conversations/:id/messages", httpAdapter.RequireAuth(tokens), hdl.GetConversationMessages)

		magnolia.Post("/chat", httpAdapter.RequireAuth(tokens), hdl.Chat)
		magnolia.Get("/models", httpAdapter.RequireAuth(tokens), hdl.ListModels)
		magnolia.Post("/upload", httpAdapter.RequireAuth(tokens), hdl.Upload)
		magnolia.Get("/upload/files/:filename", hdl.GetUploadedFile)

		magnolia.Get("/cache/stats", hdl.CacheStats)
		magnolia.Delete("/cache/expired", hdl.CacheClearExpired)
	}

	err = app.Listen(":" + configs.GetViper().App.Port)
	if err != nil {
		return err
	}

	logrus.Println("Listerning on port: ", configs.GetViper().App.Port)
	return nil
}
