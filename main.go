package main

import (
	"fmt"
	"os"

	"github.com/firedesk/asrsAI/config"
	"github.com/firedesk/asrsAI/controllers"
	"github.com/firedesk/asrsAI/evaluation"
	"github.com/firedesk/asrsAI/services"
	"github.com/firedesk/asrsAI/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) > 1 && os.Args[1] == "evaluate" {
		// usage: go run main.go evaluate [dataset.json]
		runEvaluation()
		return
	}

	runServer()
}

func runServer() {
	cfg := config.Load()

	store, err := storage.NewMongoStore(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.Default())

	controller := controllers.NewASRSController(cfg, store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "asrsAI",
		})
	})
	router.GET("/status", controller.Status)

	api := router.Group("/api")
	{
		api.POST("/chat", controller.Chat)
		api.POST("/design", controller.GenerateDesign)
		api.POST("/validate", controller.ValidateConfiguration)
		api.POST("/ingest", controller.IngestDocument)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	logrus.WithFields(logrus.Fields{
		"addr":        addr,
		"database":    cfg.MongoDatabase,
		"environment": cfg.Environment,
	}).Info("ASRS design server starting")

	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

func runEvaluation() {
	logrus.Info("Starting retrieval evaluation mode...")

	cfg := config.Load()

	store, err := storage.NewMongoStore(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()

	datasetPath := "evaluation/dataset.json"
	if len(os.Args) > 2 {
		datasetPath = os.Args[2]
	}

	questions, err := evaluation.LoadDataset(datasetPath)
	if err != nil {
		logrus.Fatalf("Failed to load dataset: %v", err)
	}
	logrus.Infof("Loaded %d questions from %s", len(questions), datasetPath)

	embedder := services.NewEmbedder(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)
	retriever := services.NewRetriever(store, embedder, services.RetrieverOptions{
		SimilarityThreshold: cfg.SimilarityThreshold,
		FigureLimit:         cfg.FigureLimit,
		TextLimit:           cfg.TextLimit,
		TableVectorLimit:    cfg.TableVectorLimit,
		PresentationLimit:   cfg.PresentationLimit,
	})

	evaluator := evaluation.NewEvaluator(retriever)

	report, err := evaluator.Evaluate(questions)
	if err != nil {
		logrus.Fatalf("Evaluation failed: %v", err)
	}

	evaluation.PrintSummary(report)

	outputFile := "evaluation/results/baseline.json"
	if err := evaluation.SaveReport(report, outputFile); err != nil {
		logrus.Fatalf("Failed to save report: %v", err)
	}

	logrus.Infof("Evaluation complete! Results saved to %s", outputFile)
}
