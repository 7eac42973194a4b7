package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/firedesk/asrsAI/models"
)

// Fallback unit costs when the cost-factor collection has no matching row.
const (
	fallbackSprinklerCost = 95.0
	fallbackPipeCostPerFt = 12.5
	fittingUnitCost       = 25.0
	fallbackPumpCost      = 15000.0

	pipeFtPerSprinkler = 12.0
	fittingRatio       = 0.2
	laborMultiplier    = 0.4

	pumpFlowThresholdGPM     = 500.0
	pumpPressureThresholdPSI = 80.0
)

// Estimator turns a design calculation into a bill of materials and a cost
// breakdown using the cost-factor collection.
type Estimator struct {
	factors CostFactorReader
}

func NewEstimator(factors CostFactorReader) *Estimator {
	return &Estimator{factors: factors}
}

// Estimate fails with models.ErrCostFactorsUnavailable when the cost-factor
// collection cannot be read. Output depends only on its inputs, so repeated
// calls on the same calculation yield identical breakdowns.
func (e *Estimator) Estimate(ctx context.Context, calc *models.DesignCalculation, cfg *models.Configuration) (*models.EquipmentList, *models.CostBreakdown, error) {
	factors, err := e.factors.ReadCostFactors(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading cost factors: %w", err)
	}

	kFactor := "K-11.2"
	if cfg.SprinklerCoverage == models.CoverageExtended {
		kFactor = "K-16.8"
	}
	responseType := "Quick-Response"
	if cfg.SystemType == models.SystemDry {
		responseType = "Standard-Response"
	}

	count := float64(calc.TotalSprinklers)

	sprinklerCost := lookupCost(factors, "sprinkler", kFactor, fallbackSprinklerCost)
	pipeCost := lookupCost(factors, "pipe", "", fallbackPipeCostPerFt)
	pipeLengthFt := pipeFtPerSprinkler * count
	fittingQty := math.Ceil(count * fittingRatio)

	items := []models.EquipmentItem{
		{
			ComponentType: "sprinkler",
			Description:   fmt.Sprintf("%s %s pendent sprinkler", kFactor, responseType),
			Quantity:      count,
			Unit:          "each",
			UnitCost:      sprinklerCost,
			TotalCost:     round2(count * sprinklerCost),
		},
		{
			ComponentType: "pipe",
			Description:   "Schedule 40 steel branch and cross-main piping",
			Quantity:      pipeLengthFt,
			Unit:          "ft",
			UnitCost:      pipeCost,
			TotalCost:     round2(pipeLengthFt * pipeCost),
		},
		{
			ComponentType: "fitting",
			Description:   "Grooved fittings and hangers",
			Quantity:      fittingQty,
			Unit:          "each",
			UnitCost:      fittingUnitCost,
			TotalCost:     round2(fittingQty * fittingUnitCost),
		},
	}

	if calc.FlowRateGPM > pumpFlowThresholdGPM || calc.PressurePSI > pumpPressureThresholdPSI {
		pumpCost := lookupCost(factors, "pump", "", fallbackPumpCost)
		items = append(items, models.EquipmentItem{
			ComponentType: "pump",
			Description:   "Fire pump and controller",
			Quantity:      1,
			Unit:          "each",
			UnitCost:      pumpCost,
			TotalCost:     round2(pumpCost),
		})
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalCost
	}
	subtotal = round2(subtotal)
	labor := round2(subtotal * laborMultiplier)

	return &models.EquipmentList{Items: items}, &models.CostBreakdown{
		MaterialSubtotal: subtotal,
		LaborCost:        labor,
		Total:            round2(subtotal + labor),
	}, nil
}

// lookupCost matches component type exactly and factor name by substring,
// falling back to the hardcoded unit cost when nothing matches.
func lookupCost(factors []models.CostFactor, componentType, nameSubstr string, fallback float64) float64 {
	for _, f := range factors {
		if !strings.EqualFold(f.ComponentType, componentType) {
			continue
		}
		if nameSubstr != "" && !strings.Contains(strings.ToLower(f.FactorName), strings.ToLower(nameSubstr)) {
			continue
		}
		return f.BaseCostPerUnit
	}
	return fallback
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
