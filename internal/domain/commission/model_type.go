package commission

import (
	"fmt"
	"strings"
)

// ModelType is the closed set of commission model shapes
type ModelType string

const (
	ModelTypeFlatPercent         ModelType = "FLAT_PERCENT"
	ModelTypeFlatAmount          ModelType = "FLAT_AMOUNT"
	ModelTypeTiered              ModelType = "TIERED"
	ModelTypeUnitBasedPercent    ModelType = "UNIT_BASED_PERCENT"
	ModelTypeUnitBasedAmount     ModelType = "UNIT_BASED_AMOUNT"
	ModelTypeProjectBasedPercent ModelType = "PROJECT_BASED_PERCENT"
)

// AllModelTypes returns every model type
func AllModelTypes() []ModelType {
	return []ModelType{
		ModelTypeFlatPercent,
		ModelTypeFlatAmount,
		ModelTypeTiered,
		ModelTypeUnitBasedPercent,
		ModelTypeUnitBasedAmount,
		ModelTypeProjectBasedPercent,
	}
}

// IsValid checks if the type is one of the known model types
func (t ModelType) IsValid() bool {
	switch t {
	case ModelTypeFlatPercent, ModelTypeFlatAmount, ModelTypeTiered,
		ModelTypeUnitBasedPercent, ModelTypeUnitBasedAmount, ModelTypeProjectBasedPercent:
		return true
	}
	return false
}

// String returns the string representation
func (t ModelType) String() string {
	return string(t)
}

// IsPercentBased reports whether the model's values are percentages of the sale amount.
// Tier values are percentages.
func (t ModelType) IsPercentBased() bool {
	switch t {
	case ModelTypeFlatPercent, ModelTypeTiered, ModelTypeUnitBasedPercent, ModelTypeProjectBasedPercent:
		return true
	}
	return false
}

// UsesTiers reports whether the model resolves through CommissionTier rows
func (t ModelType) UsesTiers() bool {
	return t == ModelTypeTiered
}

// UsesUnitRules reports whether the model resolves through UnitTypeRule rows
func (t ModelType) UsesUnitRules() bool {
	return t == ModelTypeUnitBasedPercent || t == ModelTypeUnitBasedAmount
}

var legacyModelLabels = map[string]ModelType{
	"flat %":            ModelTypeFlatPercent,
	"flat percent":      ModelTypeFlatPercent,
	"flat amount":       ModelTypeFlatAmount,
	"tiered":            ModelTypeTiered,
	"unit based %":      ModelTypeUnitBasedPercent,
	"unit based amount": ModelTypeUnitBasedAmount,
	"project based %":   ModelTypeProjectBasedPercent,
}

// ParseModelType accepts enum codes ("FLAT_PERCENT") and display labels ("Flat %")
func ParseModelType(s string) (ModelType, error) {
	if t := ModelType(strings.ToUpper(strings.TrimSpace(s))); t.IsValid() {
		return t, nil
	}
	label := strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "-", " ")), " "))
	if t, ok := legacyModelLabels[label]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown commission model type %q", s)
}

// ModelStatus is the lifecycle state of a commission model
type ModelStatus string

const (
	ModelStatusActive   ModelStatus = "ACTIVE"
	ModelStatusArchived ModelStatus = "ARCHIVED"
)

// IsValid checks if the status is valid
func (s ModelStatus) IsValid() bool {
	return s == ModelStatusActive || s == ModelStatusArchived
}

// CountScope decides which sales count toward a broker's cumulative unit count
type CountScope string

const (
	CountScopeProject CountScope = "PROJECT"
	CountScopeTenant  CountScope = "TENANT"
)

// IsValid checks if the scope is valid
func (s CountScope) IsValid() bool {
	return s == CountScopeProject || s == CountScopeTenant
}
