package services

import (
	"fmt"
	"sort"

	"github.com/firedesk/asrsAI/models"
)

const (
	fullSpacingFt = 8.0

	dryToWetSavingsRatio  = 0.15
	closedTopSavingsRatio = 0.25
	dryCeilingCutoverFt   = 25.0
)

// Optimizer proposes cheaper alternative configurations. Each rule is
// independently evaluable; the result is always sorted by descending savings.
type Optimizer struct{}

func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

func (o *Optimizer) Suggest(cfg *models.Configuration, calc *models.DesignCalculation, equipment *models.EquipmentList, cost *models.CostBreakdown) []models.OptimizationSuggestion {
	suggestions := []models.OptimizationSuggestion{}

	// spacing: tightened spacing quarters coverage area as it halves; going
	// back to full 8 ft spacing removes heads proportionally to the area
	// ratio.
	if calc.SprinklerSpacingFt < fullSpacingFt && cfg.ContainerType != models.ContainerOpenTop {
		ratio := calc.SprinklerSpacingFt / fullSpacingFt
		savings := sprinklerLineCost(equipment) * (1 - ratio*ratio)
		if savings > 0 {
			suggestions = append(suggestions, models.OptimizationSuggestion{
				Category: models.OptSpacing,
				Description: fmt.Sprintf(
					"Increase sprinkler spacing from %.1f ft toward the %.0f ft maximum where rack geometry allows",
					calc.SprinklerSpacingFt, fullSpacingFt),
				EstimatedSavings: round2(savings),
				Feasibility:      models.FeasibilityHigh,
				Impact:           "Fewer heads per rack; hydraulic demand per head unchanged",
			})
		}
	}

	// system type: dry systems under low ceilings rarely pay for themselves
	if cfg.SystemType == models.SystemDry && cfg.CeilingHeightFt < dryCeilingCutoverFt {
		alt := *cfg
		alt.SystemType = models.SystemWet
		suggestions = append(suggestions, models.OptimizationSuggestion{
			Category: models.OptSystemType,
			Description: fmt.Sprintf(
				"Convert to a wet system; ceiling height of %.1f ft does not require dry-pipe protection",
				cfg.CeilingHeightFt),
			EstimatedSavings: round2(cost.Total * dryToWetSavingsRatio),
			Feasibility:      models.FeasibilityMedium,
			Impact:           "Eliminates dry-pipe valve, air supply and extended trip-time compensation",
			Alternative:      &alt,
		})
	}

	// container type: open tops without plastics can close up and drop the
	// in-rack burden; large theoretical savings but a costly operational
	// change, hence the low feasibility tier
	if cfg.ContainerType == models.ContainerOpenTop && !anyCommodityContains(cfg.CommodityTypes, "Plastic") {
		alt := *cfg
		alt.ContainerType = models.ContainerClosedTop
		suggestions = append(suggestions, models.OptimizationSuggestion{
			Category:         models.OptContainerType,
			Description:      "Switch to closed-top containers to reduce in-rack protection requirements",
			EstimatedSavings: round2(cost.Total * closedTopSavingsRatio),
			Feasibility:      models.FeasibilityLow,
			Impact:           "Requires container fleet replacement and handling-process changes",
			Alternative:      &alt,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].EstimatedSavings > suggestions[j].EstimatedSavings
	})

	return suggestions
}

func sprinklerLineCost(equipment *models.EquipmentList) float64 {
	if equipment == nil {
		return 0
	}
	for _, item := range equipment.Items {
		if item.ComponentType == "sprinkler" {
			return item.TotalCost
		}
	}
	return 0
}
