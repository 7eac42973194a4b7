package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/firedesk/asrsAI/models"

	"github.com/sirupsen/logrus"
)

// RetrieverOptions bound each similarity lookup and the presentation slice.
type RetrieverOptions struct {
	SimilarityThreshold float64
	FigureLimit         int
	TextLimit           int
	TableVectorLimit    int
	PresentationLimit   int
}

func DefaultRetrieverOptions() RetrieverOptions {
	return RetrieverOptions{
		SimilarityThreshold: 0.7,
		FigureLimit:         5,
		TextLimit:           5,
		TableVectorLimit:    10,
		PresentationLimit:   10,
	}
}

// Retriever fuses similarity search across figures, tables and free text with
// structural filters derived from the configuration.
type Retriever struct {
	store    EvidenceSearcher
	embedder EmbeddingGateway
	opts     RetrieverOptions
	log      *logrus.Entry
}

func NewRetriever(store EvidenceSearcher, embedder EmbeddingGateway, opts RetrieverOptions) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		opts:     opts,
		log:      logrus.WithField("component", "retriever"),
	}
}

// Retrieve embeds the query, issues the three lookups concurrently, filters,
// merges and ranks. Each lookup is independently fault-tolerant: a failing
// lookup contributes an empty list instead of aborting the retrieval, so the
// caller sees empty results rather than an error even when all three fail.
func (r *Retriever) Retrieve(ctx context.Context, query string, cfg *models.Configuration) (*models.RetrievalResult, error) {
	result := &models.RetrievalResult{
		Records:    []models.EvidenceRecord{},
		FigureRefs: []int{},
		TableRefs:  []int{},
	}

	queryVector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.log.WithError(err).Warn("query embedding failed, returning empty retrieval")
		return result, nil
	}

	type lookup struct {
		source  string
		figures []models.Figure
		tables  []models.Table
		chunks  []models.TextChunk
		err     error
	}

	resultChan := make(chan lookup, 3)

	asrsType, containerType := "", ""
	if cfg != nil {
		asrsType = cfg.ASRSType
		containerType = cfg.ContainerType
	}

	go func() {
		figures, err := r.store.SearchFigures(ctx, queryVector, r.opts.SimilarityThreshold, r.opts.FigureLimit, asrsType, containerType)
		resultChan <- lookup{source: models.SourceFigure, figures: figures, err: err}
	}()
	go func() {
		tables, err := r.store.SearchTables(ctx, queryVector, r.opts.SimilarityThreshold, r.opts.TableVectorLimit)
		resultChan <- lookup{source: models.SourceTable, tables: tables, err: err}
	}()
	go func() {
		chunks, err := r.store.SearchTextChunks(ctx, queryVector, r.opts.SimilarityThreshold, r.opts.TextLimit)
		resultChan <- lookup{source: models.SourceText, chunks: chunks, err: err}
	}()

	var figures []models.Figure
	var tables []models.Table
	var chunks []models.TextChunk
	for i := 0; i < 3; i++ {
		res := <-resultChan
		if res.err != nil {
			// fault isolation: a failed lookup degrades to an empty list
			r.log.WithError(res.err).WithField("source", res.source).Warn("lookup failed")
			continue
		}
		switch res.source {
		case models.SourceFigure:
			figures = res.figures
		case models.SourceTable:
			tables = res.tables
		case models.SourceText:
			chunks = res.chunks
		}
	}

	tables = filterTables(tables, cfg)

	for i := range figures {
		figures[i].ApplicableConditions = figureConditions(figures[i], cfg)
	}
	for i := range tables {
		tables[i].ApplicableConditions = tableConditions(tables[i], cfg)
	}

	records := mergeRecords(figures, tables, chunks)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Similarity < records[j].Similarity
	})
	if r.opts.PresentationLimit > 0 && len(records) > r.opts.PresentationLimit {
		records = records[:r.opts.PresentationLimit]
	}

	result.Records = records
	result.Figures = figures
	result.Tables = tables
	for _, fig := range figures {
		result.FigureRefs = append(result.FigureRefs, fig.FigureNumber)
	}
	for _, table := range tables {
		result.TableRefs = append(result.TableRefs, table.TableNumber)
	}

	r.log.WithFields(logrus.Fields{
		"figures": len(figures),
		"tables":  len(tables),
		"text":    len(chunks),
	}).Info("retrieval complete")

	return result, nil
}

// filterTables keeps tables whose ASRS type matches the configuration or the
// "both" wildcard, and whose protection scheme covers the requested system
// type (the "unknown" scheme is a wildcard). A nil configuration keeps all.
func filterTables(tables []models.Table, cfg *models.Configuration) []models.Table {
	if cfg == nil {
		return tables
	}

	filtered := make([]models.Table, 0, len(tables))
	for _, table := range tables {
		if cfg.ASRSType != "" && table.ASRSType != "" &&
			!strings.EqualFold(table.ASRSType, cfg.ASRSType) &&
			!strings.EqualFold(table.ASRSType, "both") {
			continue
		}
		scheme := strings.ToLower(table.ProtectionScheme)
		if cfg.SystemType != "" && cfg.SystemType != models.SystemBoth &&
			scheme != "" && scheme != "unknown" &&
			!strings.Contains(scheme, cfg.SystemType) {
			continue
		}
		filtered = append(filtered, table)
	}
	return filtered
}

func figureConditions(fig models.Figure, cfg *models.Configuration) []string {
	var conditions []string
	if strings.EqualFold(fig.ASRSType, "All") {
		conditions = append(conditions, "Applies to all ASRS types")
	} else if fig.ASRSType != "" {
		conditions = append(conditions, fmt.Sprintf("Applies to %s ASRS", fig.ASRSType))
	}
	if fig.ContainerType != "" {
		conditions = append(conditions, fmt.Sprintf("%s containers", fig.ContainerType))
	}
	if cfg != nil && fig.MaxDepthFt > 0 {
		if cfg.RackDepthFt <= fig.MaxDepthFt {
			conditions = append(conditions, fmt.Sprintf("Rack depth within %.0f ft limit", fig.MaxDepthFt))
		} else {
			conditions = append(conditions, fmt.Sprintf("Rack depth exceeds %.0f ft limit", fig.MaxDepthFt))
		}
	}
	if cfg != nil && fig.MaxSpacingFt > 0 {
		if cfg.RackSpacingFt <= fig.MaxSpacingFt {
			conditions = append(conditions, fmt.Sprintf("Rack spacing within %.0f ft limit", fig.MaxSpacingFt))
		} else {
			conditions = append(conditions, fmt.Sprintf("Rack spacing exceeds %.0f ft limit", fig.MaxSpacingFt))
		}
	}
	return conditions
}

func tableConditions(table models.Table, cfg *models.Configuration) []string {
	var conditions []string
	if strings.EqualFold(table.ASRSType, "both") {
		conditions = append(conditions, "Applies to all ASRS types")
	} else if table.ASRSType != "" {
		conditions = append(conditions, fmt.Sprintf("Applies to %s ASRS", table.ASRSType))
	}
	if table.ProtectionScheme != "" && !strings.EqualFold(table.ProtectionScheme, "unknown") {
		conditions = append(conditions, fmt.Sprintf("Protection scheme: %s", table.ProtectionScheme))
	}
	if cfg != nil && cfg.SystemType != "" &&
		strings.Contains(strings.ToLower(table.ProtectionScheme), cfg.SystemType) {
		conditions = append(conditions, fmt.Sprintf("Covers %s systems", cfg.SystemType))
	}
	return conditions
}

func mergeRecords(figures []models.Figure, tables []models.Table, chunks []models.TextChunk) []models.EvidenceRecord {
	records := make([]models.EvidenceRecord, 0, len(figures)+len(tables)+len(chunks))
	for _, fig := range figures {
		records = append(records, models.EvidenceRecord{
			Kind:                 models.SourceFigure,
			ID:                   fig.ID,
			Title:                fig.Title,
			Content:              fig.Description,
			FigureNumber:         fig.FigureNumber,
			Similarity:           fig.Similarity,
			ApplicableConditions: fig.ApplicableConditions,
		})
	}
	for _, table := range tables {
		records = append(records, models.EvidenceRecord{
			Kind:                 models.SourceTable,
			ID:                   table.ID,
			Title:                table.Title,
			Content:              table.ProtectionScheme,
			TableNumber:          table.TableNumber,
			Similarity:           table.Similarity,
			ApplicableConditions: table.ApplicableConditions,
		})
	}
	for _, chunk := range chunks {
		records = append(records, models.EvidenceRecord{
			Kind:       models.SourceText,
			ID:         chunk.ID,
			Title:      chunk.Title,
			Content:    chunk.Content,
			Similarity: chunk.Similarity,
		})
	}
	return records
}
