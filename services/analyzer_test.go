package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/firedesk/asrsAI/models"
)

// stubGen replays scripted completions in order; once the script is
// exhausted it keeps returning the last entry.
type stubGen struct {
	replies []string
	errs    []error
	calls   int
}

func (s *stubGen) Complete(ctx context.Context, systemPrompt, contextPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	i := s.calls
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	s.calls++
	var err error
	if i >= 0 && i < len(s.errs) {
		err = s.errs[i]
	}
	if i < 0 {
		return "", err
	}
	return s.replies[i], err
}

func TestAnalyzeParsesCompletion(t *testing.T) {
	gen := &stubGen{replies: []string{
		`{"intent": "design_question", "entities": ["Table 27"], "config": {"asrs_type": "Shuttle", "rack_depth_ft": 20}}`,
	}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "design a system for my shuttle ASRS")
	if got.Intent != models.IntentDesign {
		t.Errorf("intent: got %q, want %q", got.Intent, models.IntentDesign)
	}
	if !reflect.DeepEqual(got.Entities, []string{"Table 27"}) {
		t.Errorf("entities: got %v", got.Entities)
	}
	if got.Config == nil || got.Config.ASRSType != models.ASRSShuttle || got.Config.RackDepthFt != 20 {
		t.Errorf("config not extracted: %+v", got.Config)
	}
}

func TestAnalyzeFencedJSON(t *testing.T) {
	gen := &stubGen{replies: []string{
		"```json\n{\"intent\": \"cost_question\", \"entities\": []}\n```",
	}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "how much does it cost?")
	if got.Intent != models.IntentCost {
		t.Errorf("intent: got %q, want %q", got.Intent, models.IntentCost)
	}
}

func TestAnalyzeCompletionFailure(t *testing.T) {
	gen := &stubGen{replies: []string{""}, errs: []error{models.ErrCompletionUnavailable}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "compare figure 14 with Table 27 and figure 14 again")
	if got.Intent != models.IntentGeneral {
		t.Errorf("intent: got %q, want general fallback", got.Intent)
	}
	// regex entities, de-duplicated, normalized casing
	want := []string{"Figure 14", "Table 27"}
	if !reflect.DeepEqual(got.Entities, want) {
		t.Errorf("entities: got %v, want %v", got.Entities, want)
	}
	if got.Config != nil {
		t.Errorf("fallback must not carry a config: %+v", got.Config)
	}
}

func TestAnalyzeMalformedCompletion(t *testing.T) {
	gen := &stubGen{replies: []string{"I think this is a design question about sprinklers."}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "what spacing do I need per Table 14?")
	if got.Intent != models.IntentGeneral {
		t.Errorf("intent: got %q, want general fallback", got.Intent)
	}
	if len(got.Entities) != 1 || got.Entities[0] != "Table 14" {
		t.Errorf("entities: got %v, want [Table 14]", got.Entities)
	}
}

func TestAnalyzeUnknownIntent(t *testing.T) {
	gen := &stubGen{replies: []string{`{"intent": "weather_question", "entities": []}`}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "is it raining?")
	if got.Intent != models.IntentGeneral {
		t.Errorf("intent: got %q, want general", got.Intent)
	}
}

func TestAnalyzeEmptyConfigDropped(t *testing.T) {
	gen := &stubGen{replies: []string{
		`{"intent": "general_question", "entities": [], "config": {"asrs_type": "", "rack_depth_ft": 0}}`,
	}}
	a := NewAnalyzer(gen)

	got := a.Analyze(context.Background(), "what is FM Global 8-34?")
	if got.Config != nil {
		t.Errorf("all-zero config should be dropped: %+v", got.Config)
	}
}

func TestScanEntities(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"none", "what spacing do I need?", []string{}},
		{"mixed-case", "see FIGURE 3 and table 12", []string{"Figure 3", "Table 12"}},
		{"duplicates", "Figure 5, figure 5, Figure 5", []string{"Figure 5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanEntities(tt.message); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
