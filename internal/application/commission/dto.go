package commission

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// =============================================================================
// Commission model DTOs
// =============================================================================

// TierRequest is one tier of a tiered model
type TierRequest struct {
	MinUnits int             `json:"min_units" binding:"min=0"`
	MaxUnits *int            `json:"max_units" binding:"omitempty,min=0"`
	Value    decimal.Decimal `json:"value"`
}

// UnitRuleRequest maps a property type to a value
type UnitRuleRequest struct {
	PropertyType string          `json:"property_type" binding:"required,max=50"`
	Value        decimal.Decimal `json:"value"`
}

// ModelRequest creates or replaces a commission model's configuration.
// Type accepts enum codes and display labels such as "Flat %".
type ModelRequest struct {
	Name         string            `json:"name" binding:"required,min=1,max=200"`
	Type         string            `json:"type" binding:"required"`
	ProjectID    *uuid.UUID        `json:"project_id"`
	Value        decimal.Decimal   `json:"value"`
	Currency     string            `json:"currency" binding:"omitempty,currency_code"`
	PayableStage string            `json:"payable_stage" binding:"max=100"`
	CountScope   string            `json:"count_scope" binding:"omitempty,oneof=PROJECT TENANT"`
	ValidFrom    string            `json:"valid_from"`
	ValidTo      string            `json:"valid_to"`
	Tiers        []TierRequest     `json:"tiers" binding:"omitempty,dive"`
	UnitRules    []UnitRuleRequest `json:"unit_rules" binding:"omitempty,dive"`
}

// ToParams converts the request into domain model parameters
func (r ModelRequest) ToParams() (commission.ModelParams, error) {
	typ, err := commission.ParseModelType(r.Type)
	if err != nil {
		return commission.ModelParams{}, shared.NewValidationError("type", err.Error())
	}
	p := commission.ModelParams{
		Name:         r.Name,
		Type:         typ,
		ProjectID:    r.ProjectID,
		BaseValue:    r.Value,
		PayableStage: r.PayableStage,
		CountScope:   commission.CountScope(r.CountScope),
	}
	if r.Currency != "" {
		cur, err := valueobject.ParseCurrency(r.Currency)
		if err != nil {
			return commission.ModelParams{}, shared.NewValidationError("currency", err.Error())
		}
		p.Currency = cur
	}
	if p.ValidFrom, err = parseDate("validFrom", r.ValidFrom); err != nil {
		return commission.ModelParams{}, err
	}
	if p.ValidTo, err = parseDate("validTo", r.ValidTo); err != nil {
		return commission.ModelParams{}, err
	}
	for _, t := range r.Tiers {
		p.Tiers = append(p.Tiers, commission.Tier{MinUnits: t.MinUnits, MaxUnits: t.MaxUnits, Value: t.Value})
	}
	for _, u := range r.UnitRules {
		p.UnitRules = append(p.UnitRules, commission.UnitTypeRule{PropertyType: u.PropertyType, Value: u.Value})
	}
	return p, nil
}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, shared.NewValidationError(field, fmt.Sprintf("date must be formatted %s", dateLayout))
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ListModelsQuery filters the model list
type ListModelsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=ACTIVE ARCHIVED"`
	Type      string `form:"type"`
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
}

// TierResponse is a tier in API responses
type TierResponse struct {
	ID       uuid.UUID       `json:"id"`
	MinUnits int             `json:"min_units"`
	MaxUnits *int            `json:"max_units,omitempty"`
	Value    decimal.Decimal `json:"value"`
}

// UnitRuleResponse is a unit rule in API responses
type UnitRuleResponse struct {
	ID           uuid.UUID       `json:"id"`
	PropertyType string          `json:"property_type"`
	Value        decimal.Decimal `json:"value"`
}

// ModelResponse is a commission model in API responses
type ModelResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	ProjectID    *uuid.UUID         `json:"project_id,omitempty"`
	Value        decimal.Decimal    `json:"value"`
	Currency     string             `json:"currency,omitempty"`
	PayableStage string             `json:"payable_stage,omitempty"`
	CountScope   string             `json:"count_scope"`
	ValidFrom    string             `json:"valid_from,omitempty"`
	ValidTo      string             `json:"valid_to,omitempty"`
	Status       string             `json:"status"`
	Tiers        []TierResponse     `json:"tiers,omitempty"`
	UnitRules    []UnitRuleResponse `json:"unit_rules,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ToModelResponse converts a domain model
func ToModelResponse(m *commission.CommissionModel) ModelResponse {
	resp := ModelResponse{
		ID:           m.ID,
		Name:         m.Name,
		Type:         m.Type.String(),
		ProjectID:    m.ProjectID,
		Value:        m.BaseValue,
		Currency:     m.Currency.String(),
		PayableStage: m.PayableStage,
		CountScope:   string(m.CountScope),
		ValidFrom:    formatDate(m.ValidFrom),
		ValidTo:      formatDate(m.ValidTo),
		Status:       string(m.Status),
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, t := range m.Tiers {
		resp.Tiers = append(resp.Tiers, TierResponse{ID: t.ID, MinUnits: t.MinUnits, MaxUnits: t.MaxUnits, Value: t.Value})
	}
	for _, u := range m.UnitRules {
		resp.UnitRules = append(resp.UnitRules, UnitRuleResponse{ID: u.ID, PropertyType: u.PropertyType, Value: u.Value})
	}
	return resp
}

// =============================================================================
// Resolution DTOs
// =============================================================================

// ResolveRequest is a sale to resolve against a model without recording it
type ResolveRequest struct {
	PropertyType    string          `json:"property_type" binding:"max=50"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency" binding:"omitempty,currency_code"`
	CumulativeUnits int             `json:"cumulative_units" binding:"min=0"`
}

// ResolutionResponse is a commission amount with the basis that produced it
type ResolutionResponse struct {
	Amount valueobject.Money `json:"amount"`
	Basis  commission.Basis  `json:"basis"`
}

// =============================================================================
// Record DTOs
// =============================================================================

// SaleEvent asks for the commission of one closed sale
type SaleEvent struct {
	BrokerID     uuid.UUID       `json:"broker_id" binding:"required"`
	SaleID       uuid.UUID       `json:"sale_id" binding:"required"`
	ModelID      uuid.UUID       `json:"model_id" binding:"required"`
	ProjectID    *uuid.UUID      `json:"project_id"`
	PropertyType string          `json:"property_type" binding:"max=50"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency" binding:"omitempty,currency_code"`
	// SoldAt defaults to now
	SoldAt *time.Time `json:"sold_at"`
}

// IncentiveRequest grants a one-off bonus
type IncentiveRequest struct {
	BrokerID uuid.UUID       `json:"broker_id" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" binding:"omitempty,currency_code"`
	Reason   string          `json:"reason" binding:"required,max=500"`
}

// CommissionRecordResponse is an earned commission
type CommissionRecordResponse struct {
	ID        uuid.UUID         `json:"id"`
	BrokerID  uuid.UUID         `json:"broker_id"`
	SaleID    uuid.UUID         `json:"sale_id"`
	ModelID   uuid.UUID         `json:"model_id"`
	ProjectID *uuid.UUID        `json:"project_id,omitempty"`
	Amount    valueobject.Money `json:"amount"`
	Basis     commission.Basis  `json:"basis"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToCommissionRecordResponse converts a domain record
func ToCommissionRecordResponse(r *commission.CommissionRecord) CommissionRecordResponse {
	return CommissionRecordResponse{
		ID:        r.ID,
		BrokerID:  r.BrokerID,
		SaleID:    r.SaleID,
		ModelID:   r.ModelID,
		ProjectID: r.ProjectID,
		Amount:    r.Amount,
		Basis:     r.Basis,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// IncentiveResponse is a granted incentive
type IncentiveResponse struct {
	ID        uuid.UUID         `json:"id"`
	BrokerID  uuid.UUID         `json:"broker_id"`
	Amount    valueobject.Money `json:"amount"`
	Reason    string            `json:"reason"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToIncentiveResponse converts a domain incentive
func ToIncentiveResponse(r *commission.IncentiveRecord) IncentiveResponse {
	return IncentiveResponse{
		ID:        r.ID,
		BrokerID:  r.BrokerID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func moneyFrom(field string, amount decimal.Decimal, code string, fallback valueobject.Currency) (valueobject.Money, error) {
	cur := fallback
	if code != "" {
		parsed, err := valueobject.ParseCurrency(code)
		if err != nil {
			return valueobject.Money{}, shared.NewValidationError("currency", err.Error())
		}
		cur = parsed
	}
	m, err := valueobject.NewMoney(amount, cur)
	if err != nil {
		return valueobject.Money{}, shared.NewValidationError(field, err.Error())
	}
	return m, nil
}
