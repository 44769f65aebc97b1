package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neon-social/backend/internal/client"
	"github.com/neon-social/backend/internal/config"
	"github.com/neon-social/backend/internal/db"
	"github.com/neon-social/backend/internal/handler"
	"github.com/neon-social/backend/internal/service"
)

// @title Neon Social API
// @version 1.0
// @description Community backend with JWT auth, posts, follows, notifications and an AI assistant.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := &db.Postgres{Pool: pool}
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}
	// Embedding storage needs the pgvector extension; related-post search is
	// simply off when it is missing.
	embeddingSchemaOK := true
	if err := repo.EnsureEmbeddingSchema(ctx); err != nil {
		log.Printf("embedding schema unavailable, related-post search disabled: %v", err)
		embeddingSchemaOK = false
	}

	authService, err := service.NewAuthService(repo, repo, cfg.Auth)
	if err != nil {
		log.Fatalf("failed to init auth service: %v", err)
	}
	if err := authService.EnsureAdmin(ctx, cfg.Auth); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	configService := service.NewSiteConfigService(repo)
	emailService := service.NewEmailService(repo, cfg.SMTP)
	verificationService := service.NewVerificationService(repo)
	userService := service.NewUserService(repo)
	notificationService := service.NewNotificationService(repo)
	adminService := service.NewAdminService(repo)

	var chatService *service.ChatService
	var embeddingService *service.EmbeddingService
	if cfg.AI.APIKey != "" {
		aiClient, err := client.NewAIClient(cfg.AI)
		if err != nil {
			log.Printf("AI client unavailable, chat and related-post search disabled: %v", err)
		} else {
			chatService = service.NewChatService(repo, aiClient, repo)
			if embeddingSchemaOK {
				embeddingService = service.NewEmbeddingService(repo, aiClient)
			}
		}
	} else {
		log.Println("AI_API_KEY not set, chat and related-post search disabled")
	}

	var mediaService *service.MediaService
	if cfg.Storage.Bucket != "" {
		storageClient, err := client.NewStorageClient(cfg.Storage)
		if err != nil {
			log.Printf("storage client unavailable, media uploads disabled: %v", err)
			mediaService = service.NewMediaService(repo, nil)
		} else {
			mediaService = service.NewMediaService(repo, storageClient)
		}
	} else {
		log.Println("S3_BUCKET not set, media uploads disabled")
		mediaService = service.NewMediaService(repo, nil)
	}

	// PostService takes a nil embedder when indexing is off.
	var postEmbedder service.PostEmbedder
	if embeddingService != nil {
		postEmbedder = embeddingService
	}
	postService := service.NewPostService(repo, postEmbedder)

	authHandler := handler.NewAuthHandler(authService, userService, verificationService, emailService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	if chatService == nil {
		chatService = service.NewChatService(repo, nil, repo)
	}
	chatHandler := handler.NewChatHandler(chatService)
	searchHandler := handler.NewSearchHandler(postService, userService, embeddingService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	adminHandler := handler.NewAdminHandler(adminService, configService, mediaService)
	systemHandler := handler.NewSystemHandler(configService)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.CORSOrigins, true))

	limiter := handler.NewRateLimiter(300, time.Minute)
	router.Use(limiter.Middleware())

	// Tighter windows on the abuse-prone endpoints, on top of the global cap.
	loginLimit := handler.NewRateLimiter(5, time.Minute).Middleware()
	registerLimit := handler.NewRateLimiter(3, time.Minute).Middleware()
	recoveryLimit := handler.NewRateLimiter(3, time.Minute).Middleware()
	chatLimit := handler.NewRateLimiter(10, time.Minute).Middleware()
	postLimit := handler.NewRateLimiter(20, time.Minute).Middleware()

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", registerLimit, authHandler.Register)
		auth.POST("/login", loginLimit, authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verification", recoveryLimit, authHandler.ResendVerification)
		auth.POST("/forgot-password", recoveryLimit, authHandler.ForgotPassword)
		auth.POST("/reset-password", recoveryLimit, authHandler.ResetPassword)

		me := auth.Group("")
		me.Use(handler.RequireAuth(authService))
		{
			me.GET("/me", authHandler.Me)
			me.PUT("/me", authHandler.UpdateMe)
			me.POST("/me/avatar", authHandler.UpdateAvatar)
			me.GET("/me/stats", authHandler.MyStats)
		}
	}

	public := api.Group("")
	public.Use(handler.OptionalAuth(authService))
	{
		public.GET("/posts", postHandler.List)
		public.GET("/posts/:id", postHandler.Get)
		public.GET("/posts/:id/comments", postHandler.ListComments)
		public.GET("/posts/:id/related", searchHandler.RelatedPosts)
		public.GET("/users/:id", userHandler.Profile)
		public.GET("/users/:id/posts", postHandler.ListByUser)
		public.GET("/users/:id/followers", userHandler.Followers)
		public.GET("/users/:id/following", userHandler.Following)
		public.GET("/search/posts", searchHandler.Posts)
		public.GET("/search/users", searchHandler.Users)
		public.GET("/system/config", systemHandler.Config)
	}

	private := api.Group("")
	private.Use(handler.RequireAuth(authService))
	{
		private.POST("/posts", postLimit, postHandler.Create)
		private.PUT("/posts/:id", postHandler.Update)
		private.DELETE("/posts/:id", postHandler.Delete)
		private.POST("/posts/:id/interact", postHandler.Interact)
		private.POST("/posts/:id/comments", postHandler.CreateComment)
		private.POST("/posts/:id/repost", postHandler.Repost)

		private.POST("/users/:id/follow", userHandler.Follow)
		private.DELETE("/users/:id/follow", userHandler.Unfollow)

		private.GET("/notifications", notificationHandler.List)
		private.POST("/notifications/:id/read", notificationHandler.MarkRead)
		private.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		private.POST("/chat", chatLimit, chatHandler.Send)
		private.GET("/chat/history", chatHandler.History)

		private.GET("/media", mediaHandler.List)
		private.POST("/media/presign", mediaHandler.Presign)
		private.POST("/media/confirm", mediaHandler.Confirm)
	}

	admin := api.Group("/admin")
	admin.Use(handler.RequireAuth(authService), handler.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users/:id/ban", adminHandler.BanUser)
		admin.DELETE("/users/:id/ban", adminHandler.UnbanUser)
		admin.GET("/configs", adminHandler.ListConfigs)
		admin.PUT("/configs", adminHandler.SetConfig)
		admin.GET("/media", adminHandler.ListMedia)
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
