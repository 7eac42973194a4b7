package services

import (
	"errors"
	"testing"

	"github.com/firedesk/asrsAI/models"
)

func shuttleConfig() *models.Configuration {
	return &models.Configuration{
		ASRSType:        models.ASRSShuttle,
		ContainerType:   models.ContainerClosedTop,
		RackDepthFt:     20,
		RackSpacingFt:   4,
		CeilingHeightFt: 30,
		AisleWidthFt:    8,
		StorageHeightFt: 26,
		CommodityTypes:  []string{"Class II"},
		SystemType:      models.SystemWet,
	}
}

func testTables() []models.Table {
	return []models.Table{
		{ID: "t27", TableNumber: 27, Title: "Shuttle ASRS wet system design", ASRSType: "Shuttle", ProtectionScheme: "Ceiling-only wet system"},
	}
}

func TestComputeNoTables(t *testing.T) {
	calc := NewCalculator(10000, 30)
	_, err := calc.Compute(shuttleConfig(), nil)
	if !errors.Is(err, models.ErrNoApplicableTable) {
		t.Fatalf("expected ErrNoApplicableTable, got %v", err)
	}
}

func TestComputeShuttleClosedTop(t *testing.T) {
	calc := NewCalculator(10000, 30)

	got, err := calc.Compute(shuttleConfig(), testTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SprinklerSpacingFt != 8 {
		t.Errorf("spacing: got %.1f, want 8", got.SprinklerSpacingFt)
	}
	// ceil(20/8)*ceil(4/8) = 3 heads per rack, ceil(10000/(20*30)) = 17 racks
	if got.TotalSprinklers != 51 {
		t.Errorf("total sprinklers: got %d, want 51", got.TotalSprinklers)
	}
	// design area capped at 12 heads: 20 GPM each, no high-ceiling multiplier
	if got.FlowRateGPM != 240 {
		t.Errorf("flow: got %.0f, want 240", got.FlowRateGPM)
	}
	// ceil((240/11.2)^2 + 30*0.433 + 240*0.1)
	if got.PressurePSI != 497 {
		t.Errorf("pressure: got %.0f, want 497", got.PressurePSI)
	}
	if got.DesignAreaSqFt != 768 {
		t.Errorf("design area: got %.0f, want 768", got.DesignAreaSqFt)
	}
	if got.ProtectionScheme != "Ceiling plus in-rack protection, wet system" {
		t.Errorf("scheme: got %q", got.ProtectionScheme)
	}
}

func TestComputeOpenTopDeepRacks(t *testing.T) {
	calc := NewCalculator(10000, 30)

	cfg := shuttleConfig()
	cfg.ContainerType = models.ContainerOpenTop
	cfg.RackDepthFt = 8

	got, err := calc.Compute(cfg, testTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.SprinklerSpacingFt != 6 {
		t.Errorf("spacing: got %.1f, want 6", got.SprinklerSpacingFt)
	}
	// ceil(8/6)*ceil(4/6) = 2 heads per rack, ceil(10000/(8*30)) = 42 racks
	if got.TotalSprinklers != 84 {
		t.Errorf("total sprinklers: got %d, want 84", got.TotalSprinklers)
	}
}

func TestSprinklerSpacingChain(t *testing.T) {
	calc := NewCalculator(10000, 30)

	tests := []struct {
		name      string
		asrsType  string
		container string
		depth     float64
		want      float64
	}{
		{"base", models.ASRSShuttle, models.ContainerClosedTop, 20, 8},
		{"open-top-shallow", models.ASRSShuttle, models.ContainerOpenTop, 6, 8},
		{"open-top-deep", models.ASRSShuttle, models.ContainerOpenTop, 10, 6},
		{"mini-load", models.ASRSMiniLoad, models.ContainerClosedTop, 20, 7},
		// both rules fire: 6 ft from the open-top rule survives the 7 ft clamp
		{"open-top-deep-mini-load", models.ASRSMiniLoad, models.ContainerOpenTop, 10, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := shuttleConfig()
			cfg.ASRSType = tt.asrsType
			cfg.ContainerType = tt.container
			cfg.RackDepthFt = tt.depth
			if got := calc.sprinklerSpacing(cfg); got != tt.want {
				t.Errorf("got %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

func TestHighCeilingFlowMultiplier(t *testing.T) {
	calc := NewCalculator(10000, 30)

	cfg := shuttleConfig()
	cfg.CeilingHeightFt = 32
	cfg.StorageHeightFt = 28

	got, err := calc.Compute(cfg, testTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 20 GPM * 1.2 * 12 heads
	if got.FlowRateGPM != 288 {
		t.Errorf("flow: got %.0f, want 288", got.FlowRateGPM)
	}
}

func TestBaseFlowGPM(t *testing.T) {
	tests := []struct {
		name        string
		commodities []string
		want        float64
	}{
		{"class-i-ii", []string{"Class I", "Class II"}, 20},
		{"class-iii", []string{"Class III"}, 25},
		{"class-iv", []string{"Class IV"}, 30},
		{"plastics", []string{"Cartoned Unexpanded Plastics"}, 35},
		// most severe commodity present wins
		{"mixed", []string{"Class III", "Exposed Expanded Plastics"}, 35},
		{"empty", nil, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseFlowGPM(tt.commodities); got != tt.want {
				t.Errorf("got %.0f, want %.0f", got, tt.want)
			}
		})
	}
}

func TestProtectionScheme(t *testing.T) {
	tests := []struct {
		name        string
		storage     float64
		commodities []string
		systemType  string
		want        string
	}{
		{"low-wet", 20, []string{"Class II"}, models.SystemWet, "Ceiling-only wet system"},
		{"tall-wet", 28, []string{"Class II"}, models.SystemWet, "Ceiling plus in-rack protection, wet system"},
		{"plastics-wet", 20, []string{"Cartoned Plastics"}, models.SystemWet, "Ceiling plus in-rack protection, wet system"},
		{"low-dry", 20, []string{"Class II"}, models.SystemDry, "Ceiling-only dry system"},
		{"tall-dry", 28, []string{"Class II"}, models.SystemDry, "Ceiling plus in-rack protection, dry system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := shuttleConfig()
			cfg.StorageHeightFt = tt.storage
			cfg.CommodityTypes = tt.commodities
			cfg.SystemType = tt.systemType
			if got := protectionScheme(cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtendedCoveragePressure(t *testing.T) {
	calc := NewCalculator(10000, 30)

	std := shuttleConfig()
	ext := shuttleConfig()
	ext.SprinklerCoverage = models.CoverageExtended

	stdCalc, err := calc.Compute(std, testTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	extCalc, err := calc.Compute(ext, testTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the larger orifice needs less pressure for the same flow
	if extCalc.PressurePSI >= stdCalc.PressurePSI {
		t.Errorf("extended coverage pressure %.0f not below standard %.0f",
			extCalc.PressurePSI, stdCalc.PressurePSI)
	}
}

func TestPrimaryTable(t *testing.T) {
	cfg := shuttleConfig()

	exact := models.Table{ID: "exact", TableNumber: 27, ASRSType: "Shuttle", ProtectionScheme: "Ceiling-only wet system"}
	partial := models.Table{ID: "partial", TableNumber: 14, ASRSType: "both", ProtectionScheme: "Dry system"}
	other := models.Table{ID: "other", TableNumber: 3, ASRSType: "Mini-Load", ProtectionScheme: "Ceiling-only wet system"}

	tests := []struct {
		name   string
		tables []models.Table
		wantID string
	}{
		{"exact-beats-partial", []models.Table{partial, other, exact}, "exact"},
		{"partial-beats-first", []models.Table{other, partial}, "partial"},
		{"first-as-fallback", []models.Table{other}, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryTable(cfg, tt.tables); got.ID != tt.wantID {
				t.Errorf("got table %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}
