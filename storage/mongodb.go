package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/firedesk/asrsAI/config"
	"github.com/firedesk/asrsAI/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logrus.WithField("component", "storage")

// MongoStore is the evidence store: figures, tables (with a separate
// vectorized-content layer), text chunks, and cost factors.
type MongoStore struct {
	client       *mongo.Client
	database     *mongo.Database
	figures      *mongo.Collection
	tables       *mongo.Collection
	tableVectors *mongo.Collection
	textChunks   *mongo.Collection
	costFactors  *mongo.Collection
	config       *config.Config
}

func NewMongoStore(cfg *config.Config) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)

	log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")

	return &MongoStore{
		client:       client,
		database:     database,
		figures:      database.Collection(cfg.FiguresCollection),
		tables:       database.Collection(cfg.TablesCollection),
		tableVectors: database.Collection(cfg.TableVectorsCollection),
		textChunks:   database.Collection(cfg.TextChunksCollection),
		costFactors:  database.Collection(cfg.CostFactorsCollection),
		config:       cfg,
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// vectorSearchStage builds the Atlas $vectorSearch stage shared by the three
// indexed collections. filter may be nil.
func vectorSearchStage(queryVector []float32, limit int, filter bson.D) bson.D {
	search := bson.D{
		{Key: "index", Value: "vector_index"},
		{Key: "path", Value: "embedding"},
		{Key: "queryVector", Value: queryVector},
		{Key: "numCandidates", Value: limit * 10},
		{Key: "limit", Value: limit},
	}
	if filter != nil {
		search = append(search, bson.E{Key: "filter", Value: filter})
	}
	return bson.D{{Key: "$vectorSearch", Value: search}}
}

func scoreStage() bson.D {
	return bson.D{
		{Key: "$addFields", Value: bson.D{
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}},
	}
}

// distance converts the Atlas similarity score (higher = better) into the
// distance convention used everywhere downstream (lower = better, [0,1]).
func distance(score float64) float64 {
	d := 1 - score
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// SearchFigures runs a similarity lookup over the figure collection with
// structural pre-filters. asrsType matches the figure's type or the "All"
// wildcard; containerType matches or is unset on the figure. Empty arguments
// skip the corresponding filter.
func (s *MongoStore) SearchFigures(ctx context.Context, queryVector []float32, threshold float64, limit int, asrsType, containerType string) ([]models.Figure, error) {
	var filter bson.D
	if asrsType != "" {
		filter = append(filter, bson.E{Key: "asrs_type", Value: bson.D{
			{Key: "$in", Value: bson.A{asrsType, "All"}},
		}})
	}
	if containerType != "" {
		filter = append(filter, bson.E{Key: "container_type", Value: bson.D{
			{Key: "$in", Value: bson.A{containerType, "", nil}},
		}})
	}

	pipeline := mongo.Pipeline{vectorSearchStage(queryVector, limit, filter), scoreStage()}

	cursor, err := s.figures.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("figure vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Figure
	for cursor.Next(ctx) {
		var doc struct {
			models.Figure `bson:",inline"`
			Score         float64 `bson:"score"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: figure: %v", models.ErrMalformedRecord, err)
		}
		doc.Figure.Similarity = distance(doc.Score)
		if doc.Figure.Similarity <= threshold {
			results = append(results, doc.Figure)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("figure cursor error: %w", err)
	}

	return results, nil
}

// SearchTables looks up the vectorized table-content layer and joins the hits
// back to table metadata by table id. A vector hit whose table id has no
// metadata row is dropped.
func (s *MongoStore) SearchTables(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]models.Table, error) {
	pipeline := mongo.Pipeline{vectorSearchStage(queryVector, limit, nil), scoreStage()}

	cursor, err := s.tableVectors.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("table vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	// best distance per table id, preserving first-seen order
	best := make(map[string]float64)
	var order []string
	for cursor.Next(ctx) {
		var doc struct {
			models.TableVector `bson:",inline"`
			Score              float64 `bson:"score"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: table vector: %v", models.ErrMalformedRecord, err)
		}
		d := distance(doc.Score)
		if d > threshold {
			continue
		}
		if prev, seen := best[doc.TableID]; !seen {
			best[doc.TableID] = d
			order = append(order, doc.TableID)
		} else if d < prev {
			best[doc.TableID] = d
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("table vector cursor error: %w", err)
	}

	if len(order) == 0 {
		return nil, nil
	}

	ids := make(bson.A, len(order))
	for i, id := range order {
		ids[i] = id
	}
	metaCursor, err := s.tables.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("table metadata fetch failed: %w", err)
	}
	defer metaCursor.Close(ctx)

	byID := make(map[string]models.Table)
	for metaCursor.Next(ctx) {
		var table models.Table
		if err := metaCursor.Decode(&table); err != nil {
			return nil, fmt.Errorf("%w: table: %v", models.ErrMalformedRecord, err)
		}
		byID[table.ID] = table
	}
	if err := metaCursor.Err(); err != nil {
		return nil, fmt.Errorf("table metadata cursor error: %w", err)
	}

	results := make([]models.Table, 0, len(order))
	for _, id := range order {
		table, ok := byID[id]
		if !ok {
			// vector layer ahead of metadata; drop silently
			log.WithField("table_id", id).Debug("table vector without metadata, dropped")
			continue
		}
		table.Similarity = best[id]
		results = append(results, table)
	}

	return results, nil
}

// SearchTextChunks runs a similarity lookup over the free-text chunks.
func (s *MongoStore) SearchTextChunks(ctx context.Context, queryVector []float32, threshold float64, limit int) ([]models.TextChunk, error) {
	pipeline := mongo.Pipeline{vectorSearchStage(queryVector, limit, nil), scoreStage()}

	cursor, err := s.textChunks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("text vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.TextChunk
	for cursor.Next(ctx) {
		var doc struct {
			models.TextChunk `bson:",inline"`
			Score            float64 `bson:"score"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: text chunk: %v", models.ErrMalformedRecord, err)
		}
		doc.TextChunk.Similarity = distance(doc.Score)
		doc.TextChunk.Embedding = nil
		if doc.TextChunk.Similarity <= threshold {
			results = append(results, doc.TextChunk)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("text cursor error: %w", err)
	}

	return results, nil
}

// InsertTextChunks stores newly ingested regulatory text chunks.
func (s *MongoStore) InsertTextChunks(ctx context.Context, chunks []models.TextChunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to insert")
	}

	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}

	if _, err := s.textChunks.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}

	log.WithField("count", len(chunks)).Info("Stored text chunks")
	return nil
}

// ReadCostFactors reads the whole cost-factor collection.
func (s *MongoStore) ReadCostFactors(ctx context.Context) ([]models.CostFactor, error) {
	cursor, err := s.costFactors.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCostFactorsUnavailable, err)
	}
	defer cursor.Close(ctx)

	var factors []models.CostFactor
	if err := cursor.All(ctx, &factors); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCostFactorsUnavailable, err)
	}

	return factors, nil
}

// CountTextChunks returns the size of the text-chunk collection, used by the
// status endpoint.
func (s *MongoStore) CountTextChunks(ctx context.Context) (int64, error) {
	count, err := s.textChunks.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}
