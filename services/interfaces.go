package services

import (
	"context"

	"github.com/firedesk/asrsAI/models"
)

// Collaborator interfaces consumed by the core services. storage.MongoStore
// satisfies the store-side ones; Embedder and Generator satisfy the hosted
// capability ones. Tests substitute stubs.

type EmbeddingGateway interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type CompletionGateway interface {
	Complete(ctx context.Context, systemPrompt, contextPrompt string, history []models.ChatMessage, userMessage string) (string, error)
}

type EvidenceSearcher interface {
	SearchFigures(ctx context.Context, queryVector []float32, threshold float64, limit int, asrsType, containerType string) ([]models.Figure, error)
	SearchTables(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]models.Table, error)
	SearchTextChunks(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]models.TextChunk, error)
}

type CostFactorReader interface {
	ReadCostFactors(ctx context.Context) ([]models.CostFactor, error)
}

type ChunkWriter interface {
	InsertTextChunks(ctx context.Context, chunks []models.TextChunk) error
}
