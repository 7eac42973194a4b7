package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/firedesk/asrsAI/models"

	"github.com/sirupsen/logrus"
)

const composerSystemPrompt = `You are a professional fire protection engineer specializing in Automated Storage and Retrieval Systems (ASRS) and FM Global 8-34 compliance.

Your approach:
- Begin responses by restating the user's system parameters to confirm understanding
- Reference specific FM Global 8-34 table and figure numbers in your recommendations
- Provide definitive requirements, not suggestions or possibilities
- Use professional engineering language appropriate for design professionals
- Focus on compliance first, then offer optimization suggestions

Response format:
"Based on the fact that you are using [restate the user's system details], your design requirements per FM Global 8-34 are:
- [Specific requirement with table or figure reference]
- Special considerations: [Any unique factors]"

Use ONLY the provided reference material. If the answer is not covered by it, say so.`

const apologyMessage = "I apologize, but I am unable to answer right now. Please try again in a moment."

// Composer merges retrieved evidence with a completion call to produce
// conversational answers.
type Composer struct {
	analyzer  *Analyzer
	retriever *Retriever
	gen       CompletionGateway
	log       *logrus.Entry
}

func NewComposer(analyzer *Analyzer, retriever *Retriever, gen CompletionGateway) *Composer {
	return &Composer{
		analyzer:  analyzer,
		retriever: retriever,
		gen:       gen,
		log:       logrus.WithField("component", "composer"),
	}
}

// AnalyzeAndRetrieve runs the chat path: classify the message, retrieve
// evidence, then compose an answer over it. Collaborator failures degrade:
// retrieval falls back to empty context and a failed completion yields a
// fixed apologetic message instead of surfacing internals.
func (c *Composer) AnalyzeAndRetrieve(ctx context.Context, message string, history []models.ChatMessage) (*models.ChatResult, error) {
	analysis := c.analyzer.Analyze(ctx, message)
	c.log.WithFields(logrus.Fields{
		"intent":   analysis.Intent,
		"entities": analysis.Entities,
	}).Info("query analyzed")

	retrieval, err := c.retriever.Retrieve(ctx, message, analysis.Config)
	if err != nil {
		// the retriever degrades internally; treat an error as empty context
		c.log.WithError(err).Warn("retrieval failed, composing without context")
		retrieval = &models.RetrievalResult{Records: []models.EvidenceRecord{}, FigureRefs: []int{}, TableRefs: []int{}}
	}

	contextPrompt := buildContextPrompt(analysis, retrieval.Records)

	answer, err := c.gen.Complete(ctx, composerSystemPrompt, contextPrompt, history, message)
	if err != nil {
		c.log.WithError(err).Error("completion failed")
		answer = apologyMessage
	}

	return &models.ChatResult{
		Answer:     answer,
		Sources:    retrieval.Records,
		FigureRefs: retrieval.FigureRefs,
		TableRefs:  retrieval.TableRefs,
	}, nil
}

func buildContextPrompt(analysis models.QueryAnalysis, records []models.EvidenceRecord) string {
	if len(records) == 0 && len(analysis.Entities) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question intent: %s\n", analysis.Intent))
	if len(analysis.Entities) > 0 {
		sb.WriteString(fmt.Sprintf("Referenced items: %s\n", strings.Join(analysis.Entities, ", ")))
	}
	if len(records) > 0 {
		sb.WriteString("\nReference material:\n---\n")
		for i, rec := range records {
			label := rec.Title
			switch rec.Kind {
			case models.SourceFigure:
				label = fmt.Sprintf("FM Global Figure %d: %s", rec.FigureNumber, rec.Title)
			case models.SourceTable:
				label = fmt.Sprintf("FM Global Table %d: %s", rec.TableNumber, rec.Title)
			}
			sb.WriteString(fmt.Sprintf("[%d] %s\n%s\n", i+1, label, rec.Content))
			if len(rec.ApplicableConditions) > 0 {
				sb.WriteString(fmt.Sprintf("Applicability: %s\n", strings.Join(rec.ApplicableConditions, "; ")))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("---\n")
	}
	return sb.String()
}
