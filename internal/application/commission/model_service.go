package commission

import (
	"context"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ModelService manages commission model configuration
type ModelService struct {
	models          commission.CommissionModelRepository
	records         commission.RecordRepository
	engine          *commission.Engine
	defaultCurrency valueobject.Currency
}

// NewModelService creates a new ModelService
func NewModelService(models commission.CommissionModelRepository, records commission.RecordRepository, defaultCurrency valueobject.Currency) *ModelService {
	if !defaultCurrency.IsValid() {
		defaultCurrency = valueobject.DefaultCurrency
	}
	return &ModelService{
		models:          models,
		records:         records,
		engine:          commission.NewEngine(models),
		defaultCurrency: defaultCurrency,
	}
}

// Create validates and stores a new active model
func (s *ModelService) Create(ctx context.Context, tenantID uuid.UUID, req ModelRequest) (*ModelResponse, error) {
	params, err := req.ToParams()
	if err != nil {
		return nil, err
	}
	model, err := commission.NewCommissionModel(tenantID, params)
	if err != nil {
		return nil, err
	}
	if err := s.models.Save(ctx, model); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Commission model created",
		zap.String("model_id", model.ID.String()),
		zap.String("type", model.Type.String()),
	)
	resp := ToModelResponse(model)
	return &resp, nil
}

// Update replaces a model's configuration
func (s *ModelService) Update(ctx context.Context, tenantID, id uuid.UUID, req ModelRequest) (*ModelResponse, error) {
	params, err := req.ToParams()
	if err != nil {
		return nil, err
	}
	model, err := s.models.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := model.Update(params); err != nil {
		return nil, err
	}
	if err := s.models.Save(ctx, model); err != nil {
		return nil, err
	}
	resp := ToModelResponse(model)
	return &resp, nil
}

// Archive hides a model from new sales
func (s *ModelService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ModelResponse, error) {
	return s.transition(ctx, tenantID, id, (*commission.CommissionModel).Archive)
}

// Activate makes an archived model available again
func (s *ModelService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ModelResponse, error) {
	return s.transition(ctx, tenantID, id, (*commission.CommissionModel).Activate)
}

func (s *ModelService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*commission.CommissionModel) error) (*ModelResponse, error) {
	model, err := s.models.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(model); err != nil {
		return nil, err
	}
	if err := s.models.Save(ctx, model); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Commission model status changed",
		zap.String("model_id", id.String()),
		zap.String("status", string(model.Status)),
	)
	resp := ToModelResponse(model)
	return &resp, nil
}

// Delete removes a model nothing references. Referenced models must be
// archived instead.
func (s *ModelService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	model, err := s.models.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	refs, err := s.records.CountByModel(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := model.EnsureDeletable(refs); err != nil {
		return err
	}
	return s.models.Delete(ctx, tenantID, id)
}

// Get returns one model with its tiers and unit rules
func (s *ModelService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ModelResponse, error) {
	model, err := s.models.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToModelResponse(model)
	return &resp, nil
}

// List returns a page of models
func (s *ModelService) List(ctx context.Context, tenantID uuid.UUID, q ListModelsQuery) (shared.Paginated[ModelResponse], error) {
	filter := commission.ModelFilter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  q.OrderBy,
			OrderDir: q.OrderDir,
			Search:   q.Search,
		},
		Status: commission.ModelStatus(q.Status),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if q.Type != "" {
		typ, err := commission.ParseModelType(q.Type)
		if err != nil {
			return shared.Paginated[ModelResponse]{}, shared.NewValidationError("type", err.Error())
		}
		filter.Type = typ
	}
	if q.ProjectID != "" {
		pid, err := uuid.Parse(q.ProjectID)
		if err != nil {
			return shared.Paginated[ModelResponse]{}, shared.NewValidationError("projectId", "invalid project ID")
		}
		filter.ProjectID = &pid
	}

	found, total, err := s.models.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[ModelResponse]{}, err
	}
	items := make([]ModelResponse, len(found))
	for i := range found {
		items[i] = ToModelResponse(&found[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Resolve is a dry run: it computes the commission for a hypothetical sale
// without recording anything
func (s *ModelService) Resolve(ctx context.Context, tenantID, id uuid.UUID, req ResolveRequest) (*ResolutionResponse, error) {
	model, err := s.engine.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	fallback := s.defaultCurrency
	if model.Currency != "" {
		fallback = model.Currency
	}
	amount, err := moneyFrom("amount", req.Amount, req.Currency, fallback)
	if err != nil {
		return nil, err
	}
	res, err := commission.Resolve(model, commission.Sale{
		PropertyType:    req.PropertyType,
		Amount:          amount,
		CumulativeUnits: req.CumulativeUnits,
	})
	if err != nil {
		return nil, err
	}
	return &ResolutionResponse{Amount: res.Amount, Basis: res.Basis}, nil
}
