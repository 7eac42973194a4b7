package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/firedesk/asrsAI/config"
	"github.com/firedesk/asrsAI/models"
	"github.com/firedesk/asrsAI/services"
	"github.com/firedesk/asrsAI/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ASRSController wires the core services behind the HTTP front door. Handlers
// only bind, delegate and render; every domain decision lives in services.
type ASRSController struct {
	config   *config.Config
	store    *storage.MongoStore
	chunker  *services.Chunker
	embedder *services.Embedder
	composer *services.Composer
	designer *services.Designer
	log      *logrus.Entry
}

func NewASRSController(cfg *config.Config, store *storage.MongoStore) *ASRSController {
	embedder := services.NewEmbedder(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)
	generator := services.NewGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ChatModel)
	analyzer := services.NewAnalyzer(generator)

	retriever := services.NewRetriever(store, embedder, services.RetrieverOptions{
		SimilarityThreshold: cfg.SimilarityThreshold,
		FigureLimit:         cfg.FigureLimit,
		TextLimit:           cfg.TextLimit,
		TableVectorLimit:    cfg.TableVectorLimit,
		PresentationLimit:   cfg.PresentationLimit,
	})

	calculator := services.NewCalculator(cfg.WarehouseFootprintSqFt, cfg.RackFootprintRunFt)
	estimator := services.NewEstimator(store)
	validator := services.NewValidator()
	optimizer := services.NewOptimizer()

	return &ASRSController{
		config:   cfg,
		store:    store,
		chunker:  services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder: embedder,
		composer: services.NewComposer(analyzer, retriever, generator),
		designer: services.NewDesigner(retriever, calculator, estimator, validator, optimizer),
		log:      logrus.WithField("component", "controller"),
	}
}

func (ac *ASRSController) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	requestID := uuid.NewString()
	log := ac.log.WithField("request_id", requestID)
	log.WithField("message_len", len(req.Message)).Info("processing chat message")

	result, err := ac.composer.AnalyzeAndRetrieve(c.Request.Context(), req.Message, req.History)
	if err != nil {
		log.WithError(err).Error("chat processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing chat"})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{
		Role:       "assistant",
		Content:    result.Answer,
		Sources:    result.Sources,
		FigureRefs: result.FigureRefs,
		TableRefs:  result.TableRefs,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (ac *ASRSController) GenerateDesign(c *gin.Context) {
	var cfg models.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration payload"})
		return
	}

	requestID := uuid.NewString()
	log := ac.log.WithField("request_id", requestID)

	result, err := ac.designer.GenerateDesign(c.Request.Context(), &cfg)
	if err != nil {
		log.WithError(err).Warn("design generation failed")
		switch {
		case strings.HasPrefix(err.Error(), "invalid configuration"):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrNoApplicableTable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *ASRSController) ValidateConfiguration(c *gin.Context) {
	var cfg models.Configuration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration payload"})
		return
	}

	valid, errs := services.ValidateConfiguration(&cfg)
	if errs == nil {
		errs = []string{}
	}
	c.JSON(http.StatusOK, models.ValidateResponse{
		Valid:  valid,
		Errors: errs,
	})
}

func (ac *ASRSController) IngestDocument(c *gin.Context) {
	startTime := time.Now()

	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and text are required"})
		return
	}

	chunks := ac.chunker.ChunkText(req.Text)
	if len(chunks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is empty after cleaning"})
		return
	}

	embeddings, err := ac.embedder.EmbedBatch(c.Request.Context(), chunks)
	if err != nil {
		ac.log.WithError(err).Error("failed to embed chunks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate embeddings"})
		return
	}

	docs := make([]models.TextChunk, len(chunks))
	now := time.Now().UTC()
	for i, chunk := range chunks {
		docs[i] = models.TextChunk{
			ID:        uuid.NewString(),
			Section:   req.Section,
			Title:     req.Title,
			Content:   chunk,
			Embedding: embeddings[i],
			CreatedAt: now,
		}
	}

	if err := ac.store.InsertTextChunks(c.Request.Context(), docs); err != nil {
		ac.log.WithError(err).Error("failed to store chunks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store chunks"})
		return
	}

	c.JSON(http.StatusOK, models.IngestResponse{
		ChunksStored:     len(docs),
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		Status:           "success",
	})
}

func (ac *ASRSController) Status(c *gin.Context) {
	chunkCount, err := ac.store.CountTextChunks(c.Request.Context())
	status := "operational"
	if err != nil {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"version":     "1.0.0",
		"text_chunks": chunkCount,
	})
}
