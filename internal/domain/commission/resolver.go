package commission

import (
	"context"
	"fmt"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the input to resolution
type Sale struct {
	PropertyType string
	Amount       valueobject.Money
	// CumulativeUnits is the broker's qualifying unit count in the model's
	// CountScope, including this sale
	CumulativeUnits int
}

// Basis explains how a commission amount was produced
type Basis struct {
	ModelType ModelType `json:"model_type"`
	// Value is the applied percentage or flat amount in major units
	Value     decimal.Decimal `json:"value"`
	IsPercent bool            `json:"is_percent"`
	TierID    *uuid.UUID      `json:"tier_id,omitempty"`
	RuleID    *uuid.UUID      `json:"rule_id,omitempty"`
	// FellBack is set when a tiered or unit-based model used its base value
	FellBack bool `json:"fell_back"`
}

// Resolution is a commission amount with its basis
type Resolution struct {
	Amount valueobject.Money
	Basis  Basis
}

// Resolve computes the commission owed for sale under model. The model's
// tiers or unit rules must already be loaded.
func Resolve(model *CommissionModel, sale Sale) (*Resolution, error) {
	if model == nil {
		return nil, shared.NewNotFoundError("commission_model", "commission model not found")
	}
	if model.Currency != "" && sale.Amount.Currency() != model.Currency {
		return nil, shared.NewValidationError("amount", fmt.Sprintf(
			"sale currency %s does not match commission model currency %s", sale.Amount.Currency(), model.Currency))
	}

	basis := Basis{ModelType: model.Type, Value: model.BaseValue, IsPercent: model.Type.IsPercentBased()}

	switch model.Type {
	case ModelTypeFlatPercent, ModelTypeFlatAmount, ModelTypeProjectBasedPercent:
		// base value applies to the whole sale
	case ModelTypeTiered:
		if tier := selectTier(model.Tiers, sale.CumulativeUnits); tier != nil {
			id := tier.ID
			basis.Value = tier.Value
			basis.TierID = &id
		} else {
			basis.FellBack = true
		}
	case ModelTypeUnitBasedPercent, ModelTypeUnitBasedAmount:
		if rule := matchRule(model.UnitRules, sale.PropertyType); rule != nil {
			id := rule.ID
			basis.Value = rule.Value
			basis.RuleID = &id
		} else {
			basis.FellBack = true
		}
	default:
		return nil, shared.NewValidationError("type", fmt.Sprintf("unknown commission model type %q", model.Type))
	}

	amount, err := basis.apply(sale.Amount)
	if err != nil {
		return nil, err
	}
	return &Resolution{Amount: amount, Basis: basis}, nil
}

func (b Basis) apply(saleAmount valueobject.Money) (valueobject.Money, error) {
	if b.IsPercent {
		amount, err := saleAmount.Percent(b.Value)
		if err != nil {
			return valueobject.Money{}, shared.NewValidationError("amount", err.Error())
		}
		return amount, nil
	}
	return valueobject.NewMoney(b.Value, saleAmount.Currency())
}

// selectTier returns the qualifying tier with the highest MinUnits. Ties on
// MinUnits go to the tier listed first.
func selectTier(tiers []Tier, count int) *Tier {
	var best *Tier
	for i := range tiers {
		if !tiers[i].Contains(count) {
			continue
		}
		if best == nil || tiers[i].MinUnits > best.MinUnits {
			best = &tiers[i]
		}
	}
	return best
}

func matchRule(rules []UnitTypeRule, propertyType string) *UnitTypeRule {
	for i := range rules {
		if rules[i].Matches(propertyType) {
			return &rules[i]
		}
	}
	return nil
}

// Engine loads a model and the sub-rules its type requires through a
// ModelRepository, then resolves
type Engine struct {
	repo ModelRepository
}

// NewEngine creates a resolution engine
func NewEngine(repo ModelRepository) *Engine {
	return &Engine{repo: repo}
}

// Resolve loads modelID and resolves sale against it. A missing model, or a
// tiered model without tiers, yields a not-found error.
func (e *Engine) Resolve(ctx context.Context, tenantID, modelID uuid.UUID, sale Sale) (*Resolution, error) {
	model, err := e.Load(ctx, tenantID, modelID)
	if err != nil {
		return nil, err
	}
	return Resolve(model, sale)
}

// Load fetches a model with the tiers or unit rules its type needs
func (e *Engine) Load(ctx context.Context, tenantID, modelID uuid.UUID) (*CommissionModel, error) {
	model, err := e.repo.FindModel(ctx, tenantID, modelID)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, shared.NewNotFoundError("commission_model", fmt.Sprintf("commission model %s not found", modelID))
	}

	switch {
	case model.Type.UsesTiers():
		tiers, err := e.repo.FindTiers(ctx, tenantID, modelID)
		if err != nil {
			return nil, err
		}
		if len(tiers) == 0 {
			return nil, shared.NewNotFoundError("commission_tier", fmt.Sprintf("no tiers configured for commission model %s", modelID))
		}
		model.Tiers = tiers
	case model.Type.UsesUnitRules():
		rules, err := e.repo.FindUnitRules(ctx, tenantID, modelID)
		if err != nil {
			return nil, err
		}
		model.UnitRules = rules
	}
	return model, nil
}
