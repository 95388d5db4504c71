package schedule

import (
	"context"

	"github.com/estate/backend/internal/domain/schedule"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service generates payment schedules and stores contract payment plans
type Service struct {
	plans           schedule.PaymentPlanRepository
	defaultCurrency valueobject.Currency
}

// NewService creates a new schedule Service
func NewService(plans schedule.PaymentPlanRepository, defaultCurrency valueobject.Currency) *Service {
	if !defaultCurrency.IsValid() {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &Service{plans: plans, defaultCurrency: defaultCurrency}
}

// Estimate runs the generator without persisting anything
func (s *Service) Estimate(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error) {
	domainReq, err := req.ToDomain(s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	result, err := schedule.Generate(domainReq)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("Schedule estimated",
		zap.Int("items", len(result.Items)),
		zap.String("grand_total", result.GrandTotal.String()),
	)
	resp := ToScheduleResponse(result)
	return &resp, nil
}

// GenerateForContract generates a schedule and stores it as the contract's
// plan, replacing any previous one
func (s *Service) GenerateForContract(ctx context.Context, tenantID, contractID uuid.UUID, req ScheduleRequest) (*PlanResponse, error) {
	domainReq, err := req.ToDomain(s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	result, err := schedule.Generate(domainReq)
	if err != nil {
		return nil, err
	}

	plan, err := schedule.NewPaymentPlan(tenantID, contractID, domainReq, result)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Replace(ctx, plan); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Payment plan generated",
		zap.String("contract_id", contractID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.Int("items", len(plan.Items)),
		zap.String("grand_total", plan.GrandTotal.String()),
	)
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// GetPlan returns the contract's current plan
func (s *Service) GetPlan(ctx context.Context, tenantID, contractID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.plans.FindByContract(ctx, tenantID, contractID)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}
