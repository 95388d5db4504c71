package commission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Tier is a sub-rule of a Tiered model keyed by cumulative unit count.
// MaxUnits nil means unbounded.
type Tier struct {
	ID       uuid.UUID
	MinUnits int
	MaxUnits *int
	Value    decimal.Decimal
}

// Contains reports whether count lies in [MinUnits, MaxUnits]
func (t Tier) Contains(count int) bool {
	if count < t.MinUnits {
		return false
	}
	return t.MaxUnits == nil || count <= *t.MaxUnits
}

// UnitTypeRule maps a property type label such as "2+1" to a value
type UnitTypeRule struct {
	ID           uuid.UUID
	PropertyType string
	Value        decimal.Decimal
}

// normalizePropertyType makes "2+1", " 2+1 " and "2 + 1" compare equal
func normalizePropertyType(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Matches reports whether the rule applies to propertyType
func (r UnitTypeRule) Matches(propertyType string) bool {
	return normalizePropertyType(r.PropertyType) == normalizePropertyType(propertyType)
}

// CommissionModel is a tenant-owned commission configuration
type CommissionModel struct {
	shared.TenantAggregateRoot
	Name         string
	Type         ModelType
	ProjectID    *uuid.UUID // nil applies to all projects
	BaseValue    decimal.Decimal
	Currency     valueobject.Currency
	PayableStage string
	CountScope   CountScope
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Status       ModelStatus
	Tiers        []Tier
	UnitRules    []UnitTypeRule
}

// ModelParams carries the configurable fields of a commission model
type ModelParams struct {
	Name         string
	Type         ModelType
	ProjectID    *uuid.UUID
	BaseValue    decimal.Decimal
	Currency     valueobject.Currency
	PayableStage string
	CountScope   CountScope
	ValidFrom    *time.Time
	ValidTo      *time.Time
	Tiers        []Tier
	UnitRules    []UnitTypeRule
}

// NewCommissionModel creates an active model after configuration-time validation
func NewCommissionModel(tenantID uuid.UUID, p ModelParams) (*CommissionModel, error) {
	m := &CommissionModel{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              ModelStatusActive,
	}
	m.apply(p)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Update replaces the configuration; archived models cannot be edited
func (m *CommissionModel) Update(p ModelParams) error {
	if m.Status == ModelStatusArchived {
		return shared.NewInvalidStateError("archived commission models cannot be edited")
	}
	updated := *m
	updated.apply(p)
	if err := updated.Validate(); err != nil {
		return err
	}
	*m = updated
	m.Touch()
	m.IncrementVersion()
	return nil
}

func (m *CommissionModel) apply(p ModelParams) {
	m.Name = strings.TrimSpace(p.Name)
	m.Type = p.Type
	m.ProjectID = p.ProjectID
	m.BaseValue = p.BaseValue
	m.Currency = p.Currency
	m.PayableStage = strings.TrimSpace(p.PayableStage)
	m.CountScope = p.CountScope
	if m.CountScope == "" {
		m.CountScope = CountScopeProject
	}
	m.ValidFrom = p.ValidFrom
	m.ValidTo = p.ValidTo

	m.Tiers = make([]Tier, len(p.Tiers))
	for i, t := range p.Tiers {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		m.Tiers[i] = t
	}
	m.UnitRules = make([]UnitTypeRule, len(p.UnitRules))
	for i, r := range p.UnitRules {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.PropertyType = strings.TrimSpace(r.PropertyType)
		m.UnitRules[i] = r
	}
}

// Validate enforces configuration-time rules. Resolution assumes a model
// that passed Validate and does not re-check.
func (m *CommissionModel) Validate() error {
	if m.Name == "" {
		return shared.NewValidationError("name", "name is required")
	}
	if !m.Type.IsValid() {
		return shared.NewValidationError("type", fmt.Sprintf("unknown commission model type %q", m.Type))
	}
	if !m.CountScope.IsValid() {
		return shared.NewValidationError("countScope", fmt.Sprintf("unknown count scope %q", m.CountScope))
	}
	if m.Currency != "" && !m.Currency.IsValid() {
		return shared.NewValidationError("currency", fmt.Sprintf("unknown currency %q", m.Currency))
	}
	if !m.Type.IsPercentBased() && m.Currency == "" {
		return shared.NewValidationError("currency", "currency is required for amount-based models")
	}
	if err := m.checkValue("value", m.BaseValue); err != nil {
		return err
	}
	if m.ValidFrom != nil && m.ValidTo != nil && m.ValidTo.Before(*m.ValidFrom) {
		return shared.NewValidationError("validTo", "end of validity window is before its start")
	}

	if m.Type.UsesTiers() {
		if len(m.Tiers) == 0 {
			return shared.NewValidationError("tiers", "tiered models need at least one tier")
		}
		for i, t := range m.Tiers {
			field := fmt.Sprintf("tiers[%d]", i)
			if t.MinUnits < 0 {
				return shared.NewValidationError(field+".minUnits", "minimum units cannot be negative")
			}
			if t.MaxUnits != nil && *t.MaxUnits < t.MinUnits {
				return shared.NewValidationError(field+".maxUnits", "maximum units cannot be below minimum units")
			}
			if err := m.checkValue(field+".value", t.Value); err != nil {
				return err
			}
		}
	} else if len(m.Tiers) > 0 {
		return shared.NewValidationError("tiers", fmt.Sprintf("%s models do not take tiers", m.Type))
	}

	if m.Type.UsesUnitRules() {
		seen := make(map[string]bool, len(m.UnitRules))
		for i, r := range m.UnitRules {
			field := fmt.Sprintf("unitRules[%d]", i)
			if r.PropertyType == "" {
				return shared.NewValidationError(field+".propertyType", "property type is required")
			}
			key := normalizePropertyType(r.PropertyType)
			if seen[key] {
				return shared.NewValidationError(field+".propertyType",
					fmt.Sprintf("duplicate rule for property type %q", r.PropertyType))
			}
			seen[key] = true
			if err := m.checkValue(field+".value", r.Value); err != nil {
				return err
			}
		}
	} else if len(m.UnitRules) > 0 {
		return shared.NewValidationError("unitRules", fmt.Sprintf("%s models do not take unit rules", m.Type))
	}
	return nil
}

func (m *CommissionModel) checkValue(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return shared.NewValidationError(field, "value cannot be negative")
	}
	if m.Type.IsPercentBased() && v.GreaterThan(hundred) {
		return shared.NewValidationError(field, "percentage must be between 0 and 100")
	}
	return nil
}

// Archive hides the model from new sales while keeping it for history
func (m *CommissionModel) Archive() error {
	if m.Status == ModelStatusArchived {
		return shared.NewInvalidStateError("commission model is already archived")
	}
	m.Status = ModelStatusArchived
	m.Touch()
	m.IncrementVersion()
	return nil
}

// Activate makes an archived model available again
func (m *CommissionModel) Activate() error {
	if m.Status == ModelStatusActive {
		return shared.NewInvalidStateError("commission model is already active")
	}
	m.Status = ModelStatusActive
	m.Touch()
	m.IncrementVersion()
	return nil
}

// IsAvailableAt reports whether new sales at t may use the model
func (m *CommissionModel) IsAvailableAt(t time.Time) bool {
	if m.Status != ModelStatusActive {
		return false
	}
	if m.ValidFrom != nil && t.Before(*m.ValidFrom) {
		return false
	}
	return m.ValidTo == nil || !t.After(*m.ValidTo)
}

// AppliesToProject reports whether the model covers projectID
func (m *CommissionModel) AppliesToProject(projectID uuid.UUID) bool {
	return m.ProjectID == nil || *m.ProjectID == projectID
}

// EnsureDeletable rejects deletion while commission records reference the model
func (m *CommissionModel) EnsureDeletable(referenceCount int64) error {
	if referenceCount > 0 {
		return shared.NewConflictError(fmt.Sprintf(
			"commission model %q is referenced by %d commission records; archive it instead", m.Name, referenceCount))
	}
	return nil
}

// ModelFilter narrows List results
type ModelFilter struct {
	shared.Filter
	Status    ModelStatus
	Type      ModelType
	ProjectID *uuid.UUID
}

// ModelRepository is what the resolution engine needs to load a model
// and the sub-rules its type requires
type ModelRepository interface {
	FindModel(ctx context.Context, tenantID, id uuid.UUID) (*CommissionModel, error)
	FindTiers(ctx context.Context, tenantID, modelID uuid.UUID) ([]Tier, error)
	FindUnitRules(ctx context.Context, tenantID, modelID uuid.UUID) ([]UnitTypeRule, error)
}

// CommissionModelRepository persists commission models with their tiers and rules
type CommissionModelRepository interface {
	ModelRepository
	// FindByID returns the model with Tiers and UnitRules loaded
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CommissionModel, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ModelFilter) ([]CommissionModel, int64, error)
	Save(ctx context.Context, model *CommissionModel) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
