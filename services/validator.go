package services

import (
	"fmt"
	"strings"

	"github.com/firedesk/asrsAI/models"
)

// Regulatory hard limits.
const (
	minClearanceFt           = 4.0
	maxSprinklerSpacingFt    = 10.0
	maxPressureWithoutPRVPSI = 175.0
)

// ValidateConfiguration applies the field-presence and clearance rules. The
// returned errors are human-readable and never thrown past this boundary.
func ValidateConfiguration(cfg *models.Configuration) (bool, []string) {
	var errs []string

	switch cfg.ASRSType {
	case models.ASRSShuttle, models.ASRSMiniLoad, models.ASRSHorizontalCarousel:
	case "":
		errs = append(errs, "asrs_type is required")
	default:
		errs = append(errs, fmt.Sprintf("asrs_type %q is not recognized", cfg.ASRSType))
	}

	switch cfg.ContainerType {
	case models.ContainerClosedTop, models.ContainerOpenTop, models.ContainerMixed:
	case "":
		errs = append(errs, "container_type is required")
	default:
		errs = append(errs, fmt.Sprintf("container_type %q is not recognized", cfg.ContainerType))
	}

	switch cfg.SystemType {
	case models.SystemWet, models.SystemDry, models.SystemBoth:
	case "":
		errs = append(errs, "system_type is required")
	default:
		errs = append(errs, fmt.Sprintf("system_type %q is not recognized", cfg.SystemType))
	}

	if cfg.SprinklerCoverage != "" &&
		cfg.SprinklerCoverage != models.CoverageStandard &&
		cfg.SprinklerCoverage != models.CoverageExtended {
		errs = append(errs, fmt.Sprintf("sprinkler_coverage %q is not recognized", cfg.SprinklerCoverage))
	}

	positives := []struct {
		name  string
		value float64
	}{
		{"rack_depth_ft", cfg.RackDepthFt},
		{"rack_spacing_ft", cfg.RackSpacingFt},
		{"ceiling_height_ft", cfg.CeilingHeightFt},
		{"aisle_width_ft", cfg.AisleWidthFt},
		{"storage_height_ft", cfg.StorageHeightFt},
	}
	for _, p := range positives {
		if p.value <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be a positive number", p.name))
		}
	}

	if len(cfg.CommodityTypes) == 0 {
		errs = append(errs, "at least one commodity_type is required")
	}

	if cfg.CeilingHeightFt > 0 && cfg.StorageHeightFt > cfg.CeilingHeightFt-minClearanceFt {
		errs = append(errs, fmt.Sprintf(
			"storage height %.1f ft leaves less than the required %.0f ft clearance below the %.1f ft ceiling",
			cfg.StorageHeightFt, minClearanceFt, cfg.CeilingHeightFt))
	}

	return len(errs) == 0, errs
}

// Validator checks a configuration plus its calculation against hard
// regulatory constraints.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate evaluates violations, warnings and required modifications
// independently and unconditionally; no category short-circuits another.
// Any violation makes the result non-compliant.
func (v *Validator) Validate(cfg *models.Configuration, calc *models.DesignCalculation) *models.ValidationResult {
	result := &models.ValidationResult{
		Violations:            []string{},
		Warnings:              []string{},
		RequiredModifications: []string{},
	}

	if cfg.CeilingHeightFt-cfg.StorageHeightFt < minClearanceFt {
		result.Violations = append(result.Violations, fmt.Sprintf(
			"Clearance of %.1f ft between storage and ceiling is below the required %.0f ft minimum",
			cfg.CeilingHeightFt-cfg.StorageHeightFt, minClearanceFt))
	}
	if calc.SprinklerSpacingFt > maxSprinklerSpacingFt {
		result.Violations = append(result.Violations, fmt.Sprintf(
			"Sprinkler spacing of %.1f ft exceeds the %.0f ft maximum",
			calc.SprinklerSpacingFt, maxSprinklerSpacingFt))
	}

	if cfg.ContainerType == models.ContainerOpenTop && anyCommodityContains(cfg.CommodityTypes, "Expanded") {
		result.Warnings = append(result.Warnings,
			"Expanded plastic commodities in open-top containers significantly increase fire severity; consider closed-top containers")
	}

	if calc.PressurePSI > maxPressureWithoutPRVPSI {
		result.RequiredModifications = append(result.RequiredModifications, fmt.Sprintf(
			"System pressure of %.0f psi exceeds %.0f psi; pressure-reducing valves are required",
			calc.PressurePSI, maxPressureWithoutPRVPSI))
	}

	result.Compliant = len(result.Violations) == 0
	return result
}

// Summary renders the validation outcome as a short human-readable line.
func (v *Validator) Summary(result *models.ValidationResult) string {
	if result.Compliant && len(result.Warnings) == 0 && len(result.RequiredModifications) == 0 {
		return "Design is compliant with FM Global 8-34 requirements."
	}

	var sb strings.Builder
	if result.Compliant {
		sb.WriteString("Design is compliant")
	} else {
		sb.WriteString("Design is NOT compliant")
	}
	if n := len(result.Violations); n > 0 {
		sb.WriteString(fmt.Sprintf(", %d violation(s)", n))
	}
	if n := len(result.Warnings); n > 0 {
		sb.WriteString(fmt.Sprintf(", %d warning(s)", n))
	}
	if n := len(result.RequiredModifications); n > 0 {
		sb.WriteString(fmt.Sprintf(", %d required modification(s)", n))
	}
	sb.WriteString(".")
	return sb.String()
}
