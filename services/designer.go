package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/firedesk/asrsAI/models"

	"github.com/sirupsen/logrus"
)

// Designer runs the design path as a strict sequential chain: validation,
// retrieval, calculation, cost, compliance, optimization, summary.
type Designer struct {
	retriever  *Retriever
	calculator *Calculator
	estimator  *Estimator
	validator  *Validator
	optimizer  *Optimizer
	log        *logrus.Entry
}

func NewDesigner(retriever *Retriever, calculator *Calculator, estimator *Estimator, validator *Validator, optimizer *Optimizer) *Designer {
	return &Designer{
		retriever:  retriever,
		calculator: calculator,
		estimator:  estimator,
		validator:  validator,
		optimizer:  optimizer,
		log:        logrus.WithField("component", "designer"),
	}
}

// GenerateDesign produces the full design result or a descriptive error; a
// partial design would be unsafe to present as compliant, so nothing is
// returned when a step fails.
func (d *Designer) GenerateDesign(ctx context.Context, cfg *models.Configuration) (*models.DesignResult, error) {
	if valid, errs := ValidateConfiguration(cfg); !valid {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	retrieval, err := d.retriever.Retrieve(ctx, designQuery(cfg), cfg)
	if err != nil {
		return nil, fmt.Errorf("evidence retrieval failed: %w", err)
	}

	calc, err := d.calculator.Compute(cfg, retrieval.Tables)
	if err != nil {
		return nil, err
	}

	equipment, cost, err := d.estimator.Estimate(ctx, calc, cfg)
	if err != nil {
		return nil, err
	}

	validation := d.validator.Validate(cfg, calc)
	suggestions := d.optimizer.Suggest(cfg, calc, equipment, cost)

	primary := PrimaryTable(cfg, retrieval.Tables)
	result := &models.DesignResult{
		Configuration: *cfg,
		Calculation:   *calc,
		Equipment:     *equipment,
		Cost:          *cost,
		Validation:    *validation,
		Suggestions:   suggestions,
		Summary:       d.buildSummary(cfg, calc, cost, validation, suggestions, primary),
		References:    buildReferences(retrieval),
	}

	d.log.WithFields(logrus.Fields{
		"sprinklers": calc.TotalSprinklers,
		"total_cost": cost.Total,
		"compliant":  validation.Compliant,
	}).Info("design generated")

	return result, nil
}

func designQuery(cfg *models.Configuration) string {
	return fmt.Sprintf(
		"sprinkler protection requirements for %s ASRS with %s containers, %.0f ft storage height, %.0f ft ceiling, %s commodities, %s system",
		cfg.ASRSType, cfg.ContainerType, cfg.StorageHeightFt, cfg.CeilingHeightFt,
		strings.Join(cfg.CommodityTypes, "/"), cfg.SystemType)
}

func (d *Designer) buildSummary(cfg *models.Configuration, calc *models.DesignCalculation, cost *models.CostBreakdown, validation *models.ValidationResult, suggestions []models.OptimizationSuggestion, primary models.Table) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"Based on the fact that you are using a %s ASRS with %s containers, %.1f ft storage height under a %.1f ft ceiling, your design requirements per FM Global 8-34 are:\n\n",
		cfg.ASRSType, cfg.ContainerType, cfg.StorageHeightFt, cfg.CeilingHeightFt))

	sb.WriteString("## Sprinkler Protection\n")
	sb.WriteString(fmt.Sprintf("- **Protection Scheme**: %s\n", calc.ProtectionScheme))
	sb.WriteString(fmt.Sprintf("- **Sprinkler Count**: %d heads at %.1f ft spacing\n", calc.TotalSprinklers, calc.SprinklerSpacingFt))
	sb.WriteString(fmt.Sprintf("- **Hydraulic Design**: %.0f GPM over a %.0f sq ft design area at %.0f psi\n", calc.FlowRateGPM, calc.DesignAreaSqFt, calc.PressurePSI))
	if primary.TableNumber > 0 {
		sb.WriteString(fmt.Sprintf("- **Code Reference**: Table %d (%s)\n", primary.TableNumber, primary.Title))
	}
	sb.WriteString("\n")

	sb.WriteString("## Estimated Cost\n")
	sb.WriteString(fmt.Sprintf("- **Materials**: $%.2f\n", cost.MaterialSubtotal))
	sb.WriteString(fmt.Sprintf("- **Labor**: $%.2f\n", cost.LaborCost))
	sb.WriteString(fmt.Sprintf("- **Total**: $%.2f\n\n", cost.Total))

	sb.WriteString("## Compliance\n")
	sb.WriteString(fmt.Sprintf("%s\n", d.validator.Summary(validation)))
	for _, v := range validation.Violations {
		sb.WriteString(fmt.Sprintf("- Violation: %s\n", v))
	}
	for _, w := range validation.Warnings {
		sb.WriteString(fmt.Sprintf("- Warning: %s\n", w))
	}
	for _, m := range validation.RequiredModifications {
		sb.WriteString(fmt.Sprintf("- Required: %s\n", m))
	}

	if len(suggestions) > 0 {
		sb.WriteString("\n## Cost Optimization Opportunities\n")
		for _, s := range suggestions {
			sb.WriteString(fmt.Sprintf("- **%s** (est. $%.2f, %s feasibility): %s\n",
				s.Description, s.EstimatedSavings, s.Feasibility, s.Impact))
		}
	}

	return sb.String()
}

func buildReferences(retrieval *models.RetrievalResult) []string {
	refs := make([]string, 0, len(retrieval.FigureRefs)+len(retrieval.TableRefs))
	for _, n := range retrieval.FigureRefs {
		refs = append(refs, fmt.Sprintf("FM Global Figure %d", n))
	}
	for _, n := range retrieval.TableRefs {
		refs = append(refs, fmt.Sprintf("Table %d", n))
	}
	return refs
}
