package services

import (
	"math"
	"strings"

	"github.com/firedesk/asrsAI/models"
)

// Spacing and hydraulic constants from the FM Global 8-34 derived rules.
const (
	baseSpacingFt        = 8.0
	openTopSpacingFt     = 6.0
	miniLoadMaxSpacingFt = 7.0

	designAreaHeadCap = 12 // heads in the hydraulically remote design area

	kFactorStandard = 11.2
	kFactorExtended = 14.0

	minPressurePSI        = 15.0
	elevationPSIPerFt     = 0.433
	frictionPSIPerGPM     = 0.1
	highCeilingFt         = 30.0
	highCeilingMultiplier = 1.2
)

// Calculator turns a validated configuration plus retrieved tables into a
// design calculation. The rack count comes from an assumed warehouse
// footprint divided by an assumed per-rack footprint; this is a documented
// placeholder estimator, not a real rack topology.
type Calculator struct {
	WarehouseFootprintSqFt float64
	RackFootprintRunFt     float64
}

func NewCalculator(warehouseFootprintSqFt, rackFootprintRunFt float64) *Calculator {
	return &Calculator{
		WarehouseFootprintSqFt: warehouseFootprintSqFt,
		RackFootprintRunFt:     rackFootprintRunFt,
	}
}

// Compute fails with models.ErrNoApplicableTable when tables is empty; the
// table list comes from the retriever's full filtered set, not the
// presentation slice.
func (c *Calculator) Compute(cfg *models.Configuration, tables []models.Table) (*models.DesignCalculation, error) {
	if len(tables) == 0 {
		return nil, models.ErrNoApplicableTable
	}

	spacing := c.sprinklerSpacing(cfg)

	perRack := math.Ceil(cfg.RackDepthFt/spacing) * math.Ceil(cfg.RackSpacingFt/spacing)
	racks := math.Ceil(c.WarehouseFootprintSqFt / (cfg.RackDepthFt * c.RackFootprintRunFt))
	total := int(perRack * racks)

	scheme := protectionScheme(cfg)

	perHeadGPM := baseFlowGPM(cfg.CommodityTypes)
	if cfg.CeilingHeightFt > highCeilingFt {
		perHeadGPM *= highCeilingMultiplier
	}
	designHeads := total
	if designHeads > designAreaHeadCap {
		designHeads = designAreaHeadCap
	}
	flow := math.Ceil(perHeadGPM * float64(designHeads))

	kFactor := kFactorStandard
	if cfg.SprinklerCoverage == models.CoverageExtended {
		kFactor = kFactorExtended
	}
	required := math.Pow(flow/kFactor, 2)
	pressure := math.Ceil(math.Max(minPressurePSI, required) +
		cfg.CeilingHeightFt*elevationPSIPerFt +
		flow*frictionPSIPerGPM)

	return &models.DesignCalculation{
		TotalSprinklers:    total,
		SprinklerSpacingFt: spacing,
		ProtectionScheme:   scheme,
		DesignAreaSqFt:     float64(designHeads) * spacing * spacing,
		FlowRateGPM:        flow,
		PressurePSI:        pressure,
	}, nil
}

// PrimaryTable picks the single table that drives a calculation: an exact
// match (same ASRS type, protection scheme covering the system type) beats a
// partial match (same ASRS type or the "both" wildcard) beats the first
// table. Ties within a tier keep retrieval order.
func PrimaryTable(cfg *models.Configuration, tables []models.Table) models.Table {
	for _, table := range tables {
		if strings.EqualFold(table.ASRSType, cfg.ASRSType) &&
			strings.Contains(strings.ToLower(table.ProtectionScheme), cfg.SystemType) {
			return table
		}
	}
	for _, table := range tables {
		if strings.EqualFold(table.ASRSType, cfg.ASRSType) || strings.EqualFold(table.ASRSType, "both") {
			return table
		}
	}
	return tables[0]
}

// sprinklerSpacing applies the cumulative, order-sensitive rule chain:
// Open-Top with deep racks tightens to 6 ft first, Mini-Load then clamps at
// 7 ft (taking the minimum).
func (c *Calculator) sprinklerSpacing(cfg *models.Configuration) float64 {
	spacing := baseSpacingFt
	if cfg.ContainerType == models.ContainerOpenTop && cfg.RackDepthFt > 6 {
		spacing = openTopSpacingFt
	}
	if cfg.ASRSType == models.ASRSMiniLoad {
		spacing = math.Min(spacing, miniLoadMaxSpacingFt)
	}
	return spacing
}

func protectionScheme(cfg *models.Configuration) string {
	scheme := "Ceiling-only wet system"
	if cfg.StorageHeightFt > 25 || anyCommodityContains(cfg.CommodityTypes, "Plastic") {
		scheme = "Ceiling plus in-rack protection, wet system"
	}
	if cfg.SystemType == models.SystemDry {
		scheme = strings.ReplaceAll(scheme, "wet", "dry")
	}
	return scheme
}

// baseFlowGPM keys the per-head demand to commodity severity. Each rule is an
// independent check evaluated in priority order, so the most severe label
// present wins.
func baseFlowGPM(commodities []string) float64 {
	gpm := 20.0 // Class I-II
	if anyCommodityContains(commodities, "III") {
		gpm = 25
	}
	if anyCommodityContains(commodities, "IV") {
		gpm = 30
	}
	if anyCommodityContains(commodities, "Plastic") {
		gpm = 35
	}
	return gpm
}

func anyCommodityContains(commodities []string, substr string) bool {
	for _, c := range commodities {
		if strings.Contains(strings.ToLower(c), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
