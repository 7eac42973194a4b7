package services

import (
	"strings"
	"testing"

	"github.com/firedesk/asrsAI/models"
)

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *models.Configuration)
		valid   bool
		wantErr string
	}{
		{"valid", func(cfg *models.Configuration) {}, true, ""},
		{"missing-asrs-type", func(cfg *models.Configuration) { cfg.ASRSType = "" }, false, "asrs_type is required"},
		{"unknown-asrs-type", func(cfg *models.Configuration) { cfg.ASRSType = "Conveyor" }, false, "not recognized"},
		{"missing-container-type", func(cfg *models.Configuration) { cfg.ContainerType = "" }, false, "container_type is required"},
		{"missing-system-type", func(cfg *models.Configuration) { cfg.SystemType = "" }, false, "system_type is required"},
		{"unknown-coverage", func(cfg *models.Configuration) { cfg.SprinklerCoverage = "wide" }, false, "sprinkler_coverage"},
		{"zero-rack-depth", func(cfg *models.Configuration) { cfg.RackDepthFt = 0 }, false, "rack_depth_ft must be a positive number"},
		{"negative-ceiling", func(cfg *models.Configuration) { cfg.CeilingHeightFt = -1 }, false, "ceiling_height_ft must be a positive number"},
		{"no-commodities", func(cfg *models.Configuration) { cfg.CommodityTypes = nil }, false, "commodity_type"},
		{"insufficient-clearance", func(cfg *models.Configuration) { cfg.StorageHeightFt = 28 }, false, "clearance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := shuttleConfig()
			tt.mutate(cfg)
			valid, errs := ValidateConfiguration(cfg)
			if valid != tt.valid {
				t.Fatalf("valid: got %v, want %v (errors: %v)", valid, tt.valid, errs)
			}
			if tt.wantErr == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error containing %q, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestValidateCompliant(t *testing.T) {
	v := NewValidator()
	calc := &models.DesignCalculation{SprinklerSpacingFt: 8, PressurePSI: 90}

	result := v.Validate(shuttleConfig(), calc)
	if !result.Compliant {
		t.Fatalf("expected compliant, got violations %v", result.Violations)
	}
	if len(result.Warnings) != 0 || len(result.RequiredModifications) != 0 {
		t.Errorf("expected no warnings or modifications, got %v / %v",
			result.Warnings, result.RequiredModifications)
	}
}

func TestValidateViolations(t *testing.T) {
	v := NewValidator()

	cfg := shuttleConfig()
	cfg.StorageHeightFt = 28 // 2 ft clearance under a 30 ft ceiling
	calc := &models.DesignCalculation{SprinklerSpacingFt: 12, PressurePSI: 90}

	result := v.Validate(cfg, calc)
	if result.Compliant {
		t.Fatal("expected non-compliant")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("violations: got %d, want 2: %v", len(result.Violations), result.Violations)
	}
	if !strings.Contains(result.Violations[0], "Clearance") {
		t.Errorf("first violation should name clearance: %q", result.Violations[0])
	}
	if !strings.Contains(result.Violations[1], "spacing") {
		t.Errorf("second violation should name spacing: %q", result.Violations[1])
	}
}

func TestValidateExpandedPlasticWarning(t *testing.T) {
	v := NewValidator()
	calc := &models.DesignCalculation{SprinklerSpacingFt: 6, PressurePSI: 90}

	cfg := shuttleConfig()
	cfg.ContainerType = models.ContainerOpenTop
	cfg.CommodityTypes = []string{"Exposed Expanded Plastics"}

	result := v.Validate(cfg, calc)
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings: got %d, want 1: %v", len(result.Warnings), result.Warnings)
	}
	// a warning alone does not fail compliance
	if !result.Compliant {
		t.Error("warnings must not make the result non-compliant")
	}

	// closed-top containers with the same commodity do not warn
	cfg.ContainerType = models.ContainerClosedTop
	if result := v.Validate(cfg, calc); len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings for closed-top containers: %v", result.Warnings)
	}
}

func TestValidatePressureReducingValves(t *testing.T) {
	v := NewValidator()

	calc := &models.DesignCalculation{SprinklerSpacingFt: 8, PressurePSI: 497}
	result := v.Validate(shuttleConfig(), calc)
	if len(result.RequiredModifications) != 1 {
		t.Fatalf("modifications: got %d, want 1: %v",
			len(result.RequiredModifications), result.RequiredModifications)
	}
	if !strings.Contains(result.RequiredModifications[0], "pressure-reducing valves") {
		t.Errorf("modification should require PRVs: %q", result.RequiredModifications[0])
	}
	// the modification is a flag, not a violation
	if !result.Compliant {
		t.Error("required modifications must not make the result non-compliant")
	}

	calc.PressurePSI = 175
	if result := v.Validate(shuttleConfig(), calc); len(result.RequiredModifications) != 0 {
		t.Errorf("175 psi is at the limit, not over it: %v", result.RequiredModifications)
	}
}

func TestValidateCategoriesIndependent(t *testing.T) {
	v := NewValidator()

	cfg := shuttleConfig()
	cfg.ContainerType = models.ContainerOpenTop
	cfg.StorageHeightFt = 28
	cfg.CommodityTypes = []string{"Expanded Plastics"}
	calc := &models.DesignCalculation{SprinklerSpacingFt: 11, PressurePSI: 200}

	result := v.Validate(cfg, calc)
	if len(result.Violations) != 2 || len(result.Warnings) != 1 || len(result.RequiredModifications) != 1 {
		t.Fatalf("got %d violations, %d warnings, %d modifications; want 2/1/1",
			len(result.Violations), len(result.Warnings), len(result.RequiredModifications))
	}
}

func TestValidationSummary(t *testing.T) {
	v := NewValidator()

	clean := &models.ValidationResult{Compliant: true}
	if got := v.Summary(clean); !strings.Contains(got, "compliant") {
		t.Errorf("summary should report compliance: %q", got)
	}

	dirty := &models.ValidationResult{
		Compliant:             false,
		Violations:            []string{"a", "b"},
		Warnings:              []string{"c"},
		RequiredModifications: []string{"d"},
	}
	got := v.Summary(dirty)
	for _, want := range []string{"NOT compliant", "2 violation(s)", "1 warning(s)", "1 required modification(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}
