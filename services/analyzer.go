package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/firedesk/asrsAI/models"

	"github.com/sirupsen/logrus"
)

const analyzerSystemPrompt = `You classify questions about ASRS sprinkler protection and extract configuration details.
Respond with a single JSON object and nothing else:
{
  "intent": "design_question" | "cost_question" | "compliance_question" | "optimization_question" | "general_question",
  "entities": ["Figure 14", "Table 27", ...],
  "config": {
    "asrs_type": "Shuttle" | "Mini-Load" | "Horizontal Carousel" | "",
    "container_type": "Closed-Top" | "Open-Top" | "Mixed" | "",
    "system_type": "wet" | "dry" | "both" | "",
    "rack_depth_ft": 0,
    "rack_spacing_ft": 0,
    "ceiling_height_ft": 0,
    "aisle_width_ft": 0,
    "storage_height_ft": 0,
    "commodity_types": []
  }
}
Leave fields empty or zero when the question does not mention them.`

var entityPattern = regexp.MustCompile(`(?i)\b(figure|table)\s+(\d+)`)

// Analyzer classifies free-text intent and extracts configuration fragments
// by delegating to the completion capability in structured-JSON mode.
type Analyzer struct {
	gen CompletionGateway
	log *logrus.Entry
}

func NewAnalyzer(gen CompletionGateway) *Analyzer {
	return &Analyzer{
		gen: gen,
		log: logrus.WithField("component", "analyzer"),
	}
}

// Analyze never fails: malformed or unavailable completion output falls back
// to a general_question classification with regex-scanned entities.
func (a *Analyzer) Analyze(ctx context.Context, message string) models.QueryAnalysis {
	fallback := models.QueryAnalysis{
		Intent:   models.IntentGeneral,
		Entities: scanEntities(message),
	}

	raw, err := a.gen.Complete(ctx, analyzerSystemPrompt, "", nil, message)
	if err != nil {
		a.log.WithError(err).Warn("query analysis completion failed, using fallback")
		return fallback
	}

	var parsed struct {
		Intent   string                `json:"intent"`
		Entities []string              `json:"entities"`
		Config   *models.Configuration `json:"config"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		a.log.WithError(err).Warn("query analysis output not parseable, using fallback")
		return fallback
	}

	if !validIntent(parsed.Intent) {
		parsed.Intent = models.IntentGeneral
	}

	analysis := models.QueryAnalysis{
		Intent:   parsed.Intent,
		Entities: parsed.Entities,
	}
	if analysis.Entities == nil {
		analysis.Entities = scanEntities(message)
	}
	if parsed.Config != nil && !emptyConfig(parsed.Config) {
		analysis.Config = parsed.Config
	}

	return analysis
}

func validIntent(intent string) bool {
	switch intent {
	case models.IntentDesign, models.IntentCost, models.IntentCompliance,
		models.IntentOptimization, models.IntentGeneral:
		return true
	}
	return false
}

// scanEntities picks up explicit "Figure N" / "Table N" mentions without the
// LLM, so entity extraction survives a completion outage.
func scanEntities(message string) []string {
	matches := entityPattern.FindAllStringSubmatch(message, -1)
	entities := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		kind := strings.ToLower(m[1])
		entity := fmt.Sprintf("%s %s", strings.ToUpper(kind[:1])+kind[1:], m[2])
		if !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
	}
	return entities
}

// extractJSON tolerates completions that wrap the object in prose or fences.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func emptyConfig(cfg *models.Configuration) bool {
	return cfg.ASRSType == "" && cfg.ContainerType == "" && cfg.SystemType == "" &&
		cfg.RackDepthFt == 0 && cfg.RackSpacingFt == 0 && cfg.CeilingHeightFt == 0 &&
		cfg.AisleWidthFt == 0 && cfg.StorageHeightFt == 0 && len(cfg.CommodityTypes) == 0
}
