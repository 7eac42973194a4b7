package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/firedesk/asrsAI/models"
)

func newTestDesigner(store *stubSearcher) *Designer {
	return NewDesigner(
		NewRetriever(store, &stubEmbedder{}, DefaultRetrieverOptions()),
		NewCalculator(10000, 30),
		NewEstimator(&stubFactorReader{}),
		NewValidator(),
		NewOptimizer(),
	)
}

func TestGenerateDesign(t *testing.T) {
	result, err := newTestDesigner(evidenceStore()).GenerateDesign(context.Background(), shuttleConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Calculation.TotalSprinklers != 51 {
		t.Errorf("sprinklers: got %d, want 51", result.Calculation.TotalSprinklers)
	}
	if result.Cost.Total <= 0 {
		t.Errorf("cost total: got %.2f", result.Cost.Total)
	}
	// 497 psi triggers the PRV modification but no violations
	if !result.Validation.Compliant {
		t.Errorf("expected compliant design: %v", result.Validation.Violations)
	}
	if len(result.Validation.RequiredModifications) != 1 {
		t.Errorf("modifications: got %v", result.Validation.RequiredModifications)
	}

	for _, want := range []string{"FM Global Figure 14", "FM Global Figure 9", "Table 27"} {
		found := false
		for _, ref := range result.References {
			if ref == want {
				found = true
			}
		}
		if !found {
			t.Errorf("references missing %q: %v", want, result.References)
		}
	}

	for _, want := range []string{
		"Based on the fact that you are using a Shuttle ASRS",
		"## Sprinkler Protection",
		"Table 27",
		"## Estimated Cost",
		"## Compliance",
	} {
		if !strings.Contains(result.Summary, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestGenerateDesignInvalidConfiguration(t *testing.T) {
	cfg := shuttleConfig()
	cfg.ASRSType = ""
	cfg.CommodityTypes = nil

	_, err := newTestDesigner(evidenceStore()).GenerateDesign(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for invalid configuration")
	}
	if !strings.HasPrefix(err.Error(), "invalid configuration:") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "asrs_type is required") {
		t.Errorf("error should list field problems: %v", err)
	}
}

func TestGenerateDesignNoApplicableTables(t *testing.T) {
	store := evidenceStore()
	store.tables = nil

	_, err := newTestDesigner(store).GenerateDesign(context.Background(), shuttleConfig())
	if !errors.Is(err, models.ErrNoApplicableTable) {
		t.Fatalf("expected ErrNoApplicableTable, got %v", err)
	}
}

func TestGenerateDesignSuggestionsIncluded(t *testing.T) {
	cfg := shuttleConfig()
	cfg.ASRSType = models.ASRSMiniLoad // 7 ft spacing fires the spacing rule

	store := evidenceStore()
	store.tables[0].ASRSType = "Mini-Load"

	result, err := newTestDesigner(store).GenerateDesign(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("expected a spacing suggestion")
	}
	if result.Suggestions[0].Category != models.OptSpacing {
		t.Errorf("category: got %q", result.Suggestions[0].Category)
	}
	if !strings.Contains(result.Summary, "## Cost Optimization Opportunities") {
		t.Error("summary should surface suggestions")
	}
}
