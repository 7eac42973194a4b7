package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI               string
	MongoDatabase          string
	FiguresCollection      string
	TablesCollection       string
	TableVectorsCollection string
	TextChunksCollection   string
	CostFactorsCollection  string

	LLMBaseURL     string // OpenAI-compatible endpoint
	LLMAPIKey      string
	EmbeddingModel string
	ChatModel      string

	Port        string
	Environment string

	// retrieval tuning
	SimilarityThreshold float64
	FigureLimit         int
	TextLimit           int
	TableVectorLimit    int
	PresentationLimit   int

	// design assumptions: the rack count estimator divides an assumed
	// warehouse footprint by rack_depth x an assumed rack run. These are
	// acknowledged placeholders, kept settable so real rack topology can
	// replace them without touching call sites.
	WarehouseFootprintSqFt float64
	RackFootprintRunFt     float64

	ChunkSize    int
	ChunkOverlap int
}

func Load() *Config {
	// a missing .env is fine, real env vars still apply
	_ = godotenv.Load()

	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	getEnvInt := func(key string, defaultValue int) int {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return defaultValue
		}
		return value
	}

	getEnvFloat := func(key string, defaultValue float64) float64 {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return defaultValue
		}
		return value
	}

	return &Config{
		MongoURI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:          getEnv("MONGO_DATABASE", "fm_global"),
		FiguresCollection:      getEnv("FIGURES_COLLECTION", "fm_figures"),
		TablesCollection:       getEnv("TABLES_COLLECTION", "fm_tables"),
		TableVectorsCollection: getEnv("TABLE_VECTORS_COLLECTION", "fm_table_vectors"),
		TextChunksCollection:   getEnv("TEXT_CHUNKS_COLLECTION", "fm_text_chunks"),
		CostFactorsCollection:  getEnv("COST_FACTORS_COLLECTION", "cost_factors"),

		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:      getEnv("LLM_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),

		Port:        getEnv("PORT", "4000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.7),
		FigureLimit:         getEnvInt("FIGURE_LIMIT", 5),
		TextLimit:           getEnvInt("TEXT_LIMIT", 5),
		TableVectorLimit:    getEnvInt("TABLE_VECTOR_LIMIT", 10),
		PresentationLimit:   getEnvInt("PRESENTATION_LIMIT", 10),

		WarehouseFootprintSqFt: getEnvFloat("WAREHOUSE_FOOTPRINT_SQFT", 10000),
		RackFootprintRunFt:     getEnvFloat("RACK_FOOTPRINT_RUN_FT", 30),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 500),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),
	}
}
