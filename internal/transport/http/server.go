package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"askio/internal/ai"
	appsvc "askio/internal/app"
	"askio/internal/bootstrap"
	"askio/internal/cache"
	"askio/internal/platform/rabbitmq"
	"askio/internal/repository"
	"askio/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	docRepo := repository.NewDocumentRepository(app.MySQL)
	chunkRepo := repository.NewChunkRepository(app.MySQL)
	queryRepo := repository.NewQueryRepository(app.MySQL)

	generator := ai.NewOpenAICompatibleClient(ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	})
	embedder := ai.NewEmbeddingClient(ai.EmbeddingConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.EmbeddingModel,
	}, nil)

	retriever := appsvc.NewRetriever(embedder, app.Qdrant)
	scorer, err := appsvc.NewRelevanceScorer(generator, app.Config.RAG.ScoreWorkers, app.Logger)
	if err != nil {
		return nil, err
	}
	synthesizer := appsvc.NewAnswerSynthesizer(generator, app.Config.RAG.AnswerMaxTokens, app.Logger)
	answerCache := cache.NewAnswerCache(app.Redis)
	publisher := rabbitmq.NewAuditPublisher(app.MQConn, app.Config.RabbitMQ.AuditQueue)

	askService := appsvc.NewAskService(
		answerCache,
		retriever,
		chunkRepo,
		scorer,
		synthesizer,
		publisher,
		appsvc.AskServiceConfig{
			TopK:               app.Config.RAG.TopK,
			RelevanceThreshold: app.Config.RAG.RelevanceThreshold,
			CacheTTL:           time.Duration(app.Config.RAG.CacheTTLSeconds) * time.Second,
		},
		app.Logger,
	)
	ingestService := appsvc.NewIngestService(
		docRepo,
		retriever,
		app.Config.RAG.ChunkSize,
		app.Config.RAG.ChunkOverlap,
		app.Logger,
	)

	askHandler := handler.NewAskHandler(askService)
	documentsHandler := handler.NewDocumentsHandler(ingestService, docRepo, app.Qdrant, app.Logger)
	historyHandler := handler.NewHistoryHandler(queryRepo)

	v1 := router.Group("/api/v1")
	v1.POST("/ask", askHandler.Ask)
	v1.POST("/documents", documentsHandler.Upload)
	v1.GET("/documents", documentsHandler.List)
	v1.DELETE("/documents/:id", documentsHandler.Delete)
	v1.GET("/history", historyHandler.List)

	return router, nil
}
