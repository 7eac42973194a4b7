package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firedesk/asrsAI/models"
	"github.com/firedesk/asrsAI/services"
)

// Question is one entry of the retrieval-quality dataset.
type Question struct {
	ID               int      `json:"id"`
	Question         string   `json:"question"`
	RelevantKeywords []string `json:"relevant_keywords"`
	ExpectedFigures  []int    `json:"expected_figures,omitempty"`
	ExpectedTables   []int    `json:"expected_tables,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

type EvaluationResult struct {
	QuestionID       int      `json:"question_id"`
	Question         string   `json:"question"`
	RetrievedRecords int      `json:"retrieved_records"`
	KeywordsFound    []string `json:"keywords_found"`
	FiguresHit       int      `json:"figures_hit"`
	TablesHit        int      `json:"tables_hit"`
	ResponseTimeMs   int64    `json:"response_time_ms"`
	Success          bool     `json:"success"`
}

type Metrics struct {
	TotalQuestions      int     `json:"total_questions"`
	SuccessfulQueries   int     `json:"successful_queries"`
	RetrievalAccuracy   float64 `json:"retrieval_accuracy"`
	AvgResponseTime     float64 `json:"avg_response_time_ms"`
	AvgRecordsRetrieved float64 `json:"avg_records_retrieved"`
	Timestamp           string  `json:"timestamp"`
}

type EvaluationReport struct {
	Metrics Metrics            `json:"metrics"`
	Results []EvaluationResult `json:"results"`
}

// Evaluator runs a question dataset through the multi-vector retriever and
// scores how well the evidence covers the expected keywords and references.
type Evaluator struct {
	retriever *services.Retriever
}

func NewEvaluator(retriever *services.Retriever) *Evaluator {
	return &Evaluator{retriever: retriever}
}

func LoadDataset(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	return questions, nil
}

func (e *Evaluator) Evaluate(questions []Question) (*EvaluationReport, error) {
	results := make([]EvaluationResult, 0, len(questions))

	totalResponseTime := int64(0)
	totalRetrieved := 0
	successfulQueries := 0

	ctx := context.Background()

	fmt.Println("Starting retrieval evaluation...")
	fmt.Printf("Total questions: %d\n", len(questions))
	fmt.Println("---")

	for i, q := range questions {
		fmt.Printf("[%d/%d] Evaluating: %s\n", i+1, len(questions), q.Question)

		startTime := time.Now()
		retrieval, err := e.retriever.Retrieve(ctx, q.Question, nil)
		if err != nil {
			fmt.Printf("Failed: %v\n", err)
			continue
		}
		responseTime := time.Since(startTime).Milliseconds()

		keywordsFound := checkKeywords(q.RelevantKeywords, retrieval.Records)
		figuresHit := countHits(q.ExpectedFigures, retrieval.FigureRefs)
		tablesHit := countHits(q.ExpectedTables, retrieval.TableRefs)

		// successful when at least one expected keyword or reference showed up
		success := len(keywordsFound) > 0 || figuresHit > 0 || tablesHit > 0

		results = append(results, EvaluationResult{
			QuestionID:       q.ID,
			Question:         q.Question,
			RetrievedRecords: len(retrieval.Records),
			KeywordsFound:    keywordsFound,
			FiguresHit:       figuresHit,
			TablesHit:        tablesHit,
			ResponseTimeMs:   responseTime,
			Success:          success,
		})

		totalResponseTime += responseTime
		totalRetrieved += len(retrieval.Records)
		if success {
			successfulQueries++
		}

		fmt.Printf("Completed in %dms (keywords: %d/%d, figures: %d, tables: %d)\n",
			responseTime, len(keywordsFound), len(q.RelevantKeywords), figuresHit, tablesHit)
	}

	totalQuestions := len(results)
	metrics := Metrics{
		TotalQuestions:    totalQuestions,
		SuccessfulQueries: successfulQueries,
		Timestamp:         time.Now().Format(time.RFC3339),
	}
	if totalQuestions > 0 {
		metrics.RetrievalAccuracy = float64(successfulQueries) / float64(totalQuestions)
		metrics.AvgResponseTime = float64(totalResponseTime) / float64(totalQuestions)
		metrics.AvgRecordsRetrieved = float64(totalRetrieved) / float64(totalQuestions)
	}

	return &EvaluationReport{
		Metrics: metrics,
		Results: results,
	}, nil
}

// check which relevant keywords appear in the retrieved evidence
func checkKeywords(keywords []string, records []models.EvidenceRecord) []string {
	found := []string{}

	for _, keyword := range keywords {
		for _, record := range records {
			text := strings.ToLower(record.Title + " " + record.Content)
			if strings.Contains(text, strings.ToLower(keyword)) {
				found = append(found, keyword)
				break
			}
		}
	}

	return found
}

func countHits(expected, got []int) int {
	hits := 0
	for _, e := range expected {
		for _, g := range got {
			if e == g {
				hits++
				break
			}
		}
	}
	return hits
}

// save the evaluation report to a JSON file
func SaveReport(report *EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// print a summary of the evaluation results
func PrintSummary(report *EvaluationReport) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("RETRIEVAL EVALUATION SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total Questions:       %d\n", report.Metrics.TotalQuestions)
	fmt.Printf("Successful Queries:    %d\n", report.Metrics.SuccessfulQueries)
	fmt.Printf("Retrieval Accuracy:    %.2f%%\n", report.Metrics.RetrievalAccuracy*100)
	fmt.Printf("Avg Response Time:     %.0f ms\n", report.Metrics.AvgResponseTime)
	fmt.Printf("Avg Records Retrieved: %.1f\n", report.Metrics.AvgRecordsRetrieved)
	fmt.Println(strings.Repeat("=", 60) + "\n")
}
