package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service records commissions earned on sales and manual incentives
type Service struct {
	brokers         broker.Repository
	records         commission.RecordRepository
	engine          *commission.Engine
	defaultCurrency valueobject.Currency
	now             func() time.Time
}

// NewService creates a new commission Service
func NewService(brokers broker.Repository, models commission.ModelRepository, records commission.RecordRepository, defaultCurrency valueobject.Currency) *Service {
	if !defaultCurrency.IsValid() {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &Service{
		brokers:         brokers,
		records:         records,
		engine:          commission.NewEngine(models),
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// EarnForSale resolves the sale's commission and stores it as an eligible
// record. A (broker, sale) pair earns at most once.
func (s *Service) EarnForSale(ctx context.Context, tenantID uuid.UUID, ev SaleEvent) (*CommissionRecordResponse, error) {
	if err := s.ensureActiveBroker(ctx, tenantID, ev.BrokerID); err != nil {
		return nil, err
	}

	model, err := s.engine.Load(ctx, tenantID, ev.ModelID)
	if err != nil {
		return nil, err
	}
	soldAt := s.now()
	if ev.SoldAt != nil {
		soldAt = *ev.SoldAt
	}
	if !model.IsAvailableAt(soldAt) {
		return nil, shared.NewValidationError("modelId", fmt.Sprintf("commission model %q is not available for sales on %s", model.Name, soldAt.Format(dateLayout)))
	}
	projectID := ev.ProjectID
	if projectID == nil {
		projectID = model.ProjectID
	} else if !model.AppliesToProject(*projectID) {
		return nil, shared.NewValidationError("projectId", fmt.Sprintf("commission model %q does not apply to project %s", model.Name, *projectID))
	}

	_, err = s.records.FindCommissionBySale(ctx, tenantID, ev.BrokerID, ev.SaleID)
	switch {
	case err == nil:
		return nil, shared.NewConflictError(fmt.Sprintf("commission for sale %s was already recorded for this broker", ev.SaleID))
	case !shared.IsNotFoundError(err):
		return nil, err
	}

	fallback := s.defaultCurrency
	if model.Currency != "" {
		fallback = model.Currency
	}
	amount, err := moneyFrom("amount", ev.Amount, ev.Currency, fallback)
	if err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("amount", "sale amount cannot be negative")
	}

	var scope *uuid.UUID
	if model.CountScope == commission.CountScopeProject {
		scope = projectID
	}
	prior, err := s.records.CountBrokerSales(ctx, tenantID, ev.BrokerID, scope)
	if err != nil {
		return nil, err
	}

	res, err := commission.Resolve(model, commission.Sale{
		PropertyType:    ev.PropertyType,
		Amount:          amount,
		CumulativeUnits: int(prior) + 1,
	})
	if err != nil {
		return nil, err
	}
	record, err := commission.NewCommissionRecord(tenantID, ev.BrokerID, ev.SaleID, model.ID, projectID, res)
	if err != nil {
		return nil, err
	}
	if err := s.records.CreateCommission(ctx, record); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Commission earned",
		zap.String("broker_id", ev.BrokerID.String()),
		zap.String("sale_id", ev.SaleID.String()),
		zap.String("model_id", model.ID.String()),
		zap.Int("cumulative_units", int(prior)+1),
		zap.String("amount", record.Amount.String()),
		zap.Bool("fell_back", res.Basis.FellBack),
	)
	resp := ToCommissionRecordResponse(record)
	return &resp, nil
}

// GrantIncentive records a one-off bonus, payable like a commission
func (s *Service) GrantIncentive(ctx context.Context, tenantID uuid.UUID, req IncentiveRequest) (*IncentiveResponse, error) {
	if err := s.ensureActiveBroker(ctx, tenantID, req.BrokerID); err != nil {
		return nil, err
	}
	amount, err := moneyFrom("amount", req.Amount, req.Currency, s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	record, err := commission.NewIncentiveRecord(tenantID, req.BrokerID, amount, req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.records.CreateIncentive(ctx, record); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Incentive granted",
		zap.String("broker_id", req.BrokerID.String()),
		zap.String("incentive_id", record.ID.String()),
		zap.String("amount", record.Amount.String()),
	)
	resp := ToIncentiveResponse(record)
	return &resp, nil
}

func (s *Service) ensureActiveBroker(ctx context.Context, tenantID, brokerID uuid.UUID) error {
	b, err := s.brokers.FindByID(ctx, tenantID, brokerID)
	if err != nil {
		return err
	}
	if b.Status != broker.StatusActive {
		return shared.NewInvalidStateError(fmt.Sprintf("broker %s is inactive", b.Email))
	}
	return nil
}
