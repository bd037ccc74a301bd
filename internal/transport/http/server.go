package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/ai"
	appsvc "github.com/Kaustubhyadav09/bot-gpt-backend/internal/app"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/bootstrap"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/cache"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/rag"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/repository"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/health", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)

	chunkStore := repository.NewChunkStore(documentRepo)
	retriever := rag.NewRetriever(chunkStore, app.Logger)
	chunker := rag.NewChunker(app.Config.RAG.ChunkSizeTokens, app.Config.RAG.ChunkOverlapTokens)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	llmClient := ai.NewGroqClient(app.Logger)
	llmConfig := ai.ChatConfig{
		BaseURL:     app.Config.LLM.BaseURL,
		APIKey:      app.Config.LLM.APIKey,
		Model:       app.Config.LLM.Model,
		Temperature: app.Config.LLM.Temperature,
		MaxTokens:   app.Config.LLM.MaxTokens,
	}

	chatService := appsvc.NewChatService(
		conversationRepo,
		messageRepo,
		userRepo,
		documentRepo,
		app.MessagePublisher,
		historyCache,
		retriever,
		llmClient,
		llmConfig,
		app.Logger,
	)
	documentService := appsvc.NewDocumentService(documentRepo, chunker, app.Logger)

	conversationHandler := handler.NewConversationHandler(chatService)
	documentHandler := handler.NewDocumentHandler(documentService)

	v1 := router.Group("/api/v1")
	conversations := v1.Group("/conversations")
	conversations.POST("", conversationHandler.Create)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.Get)
	conversations.POST("/:id/messages", conversationHandler.AddMessage)
	conversations.DELETE("/:id", conversationHandler.Delete)

	documents := v1.Group("/documents")
	documents.POST("", documentHandler.Upload)
	documents.GET("", documentHandler.List)

	return router
}
