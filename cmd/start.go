/*
Copyright © 2025 sinantan
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sinantan/document-chat-assistant/config"
	"github.com/sinantan/document-chat-assistant/database"
	"github.com/sinantan/document-chat-assistant/handler"
	"github.com/sinantan/document-chat-assistant/middleware"
	"github.com/sinantan/document-chat-assistant/repository"
	"github.com/sinantan/document-chat-assistant/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document chat server",
	Long:  `Starts the HTTP server handling document uploads and AI chat turns`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mongo, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongo.Close(context.Background())

		// init repos
		documentRepo := repository.NewDocumentRepo(mongo.Collection("documents"))
		conversationRepo := repository.NewConversationRepo(mongo.Collection("conversations"))
		messageRepo := repository.NewMessageRepo(mongo.Collection("messages"))
		userRepo := repository.NewUserRepo(mongo.Collection("users"))
		fileRepo := repository.NewFileRepo(mongo.Database())

		// init services
		var aiService service.AIService
		switch cfg.AI.Provider {
		case "openai":
			aiService = service.NewOpenAIService(cfg.AI)
		default:
			geminiService, err := service.NewGeminiService(ctx, cfg.AI)
			if err != nil {
				log.Fatalf("Failed to create Gemini client: %v", err)
			}
			defer geminiService.Close()
			aiService = geminiService
		}

		documentService := service.NewDocumentService(documentRepo, fileRepo, service.NewPDFService(), cfg.Upload)
		processor := service.NewDocumentProcessor(cfg.Processor.Workers, cfg.Processor.QueueSize, documentService.Process)
		documentService.SetSubmitter(processor.Submit)
		processor.Start(ctx)

		promptBuilder := service.NewPromptBuilder(cfg.Chat.PromptHistoryWindow)
		chatService := service.NewChatService(
			conversationRepo, messageRepo, documentService, aiService,
			promptBuilder, int64(cfg.Chat.HistoryLimit))
		userService := service.NewUserService(userRepo, cfg.AccessTTL, cfg.RefreshTTL)
		webSocketService := service.NewWebSocketService(documentService)

		// init handlers
		corsHandler := handler.NewCorsHandler()
		authHandler := handler.NewAuthHandler(userService)
		documentHandler := handler.NewDocumentHandler(documentService, webSocketService)
		chatHandler := handler.NewChatHandler(chatService)

		// Setup Gin router
		router := gin.Default()
		router.Use(middleware.RequestID())
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/auth/register", authHandler.HandleRegister)
		apiV1.POST("/auth/login", authHandler.HandleLogin)
		apiV1.POST("/auth/refresh", authHandler.HandleRefresh)

		protected := apiV1.Group("/")
		protected.Use(middleware.Auth())
		{
			protected.GET("/auth/me", authHandler.HandleMe)

			protected.POST("/documents/upload", documentHandler.HandleUpload)
			protected.GET("/documents", documentHandler.HandleList)
			protected.GET("/documents/:id", documentHandler.HandleGet)
			protected.GET("/documents/:id/chunks", documentHandler.HandleChunks)
			protected.GET("/documents/:id/content", documentHandler.HandleContent)
			protected.GET("/documents/:id/status/ws", documentHandler.HandleStatusWS)
			protected.DELETE("/documents/:id", documentHandler.HandleDelete)

			protected.POST("/chat", chatHandler.HandleChat)
			protected.GET("/conversations", chatHandler.HandleListConversations)
			protected.GET("/conversations/:id/messages", chatHandler.HandleConversationMessages)
			protected.DELETE("/conversations/:id", chatHandler.HandleDeleteConversation)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
